package models

import "fmt"

// DiscoveredFile is an inventory container found under one of the search
// roots. Name is the uniqueness key across roots.
type DiscoveredFile struct {
	Path string
	Name string
}

// Outcome is the result of re-encrypting one file.
type Outcome struct {
	FileName  string
	Succeeded bool
	Reason    string
}

// Summary aggregates the outcomes of a rotation batch in processing order.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Cancelled bool
	Outcomes  []Outcome
}

// Add records o and updates the counters.
func (s *Summary) Add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	if o.Succeeded {
		s.Succeeded++
	} else {
		s.Failed++
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("%d of %d files updated, %d failed", s.Succeeded, s.Total, s.Failed)
}
