package cli

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/invkeeper/internal/models"
	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
)

func success(w io.Writer, format string, a ...any) {
	successColor.Fprintf(w, "✓ "+format+"\n", a...)
}

func failure(w io.Writer, format string, a ...any) {
	errorColor.Fprintf(w, "✗ "+format+"\n", a...)
}

func warning(w io.Writer, format string, a ...any) {
	warningColor.Fprintf(w, "⚠ "+format+"\n", a...)
}

// printSummary renders a rotation summary: one line per failed file, then
// the totals in green when nothing failed and yellow otherwise.
func printSummary(w io.Writer, s models.Summary) {
	for _, o := range s.Outcomes {
		if !o.Succeeded {
			failure(w, "%s: %s", o.FileName, o.Reason)
		}
	}
	if s.Failed == 0 {
		success(w, "%s", s.String())
		return
	}
	warning(w, "%s", s.String())
}

func progressLine(w io.Writer, index, total int, name string) {
	fmt.Fprintf(w, "%s %s\n", dimColor.Sprintf("[%d/%d]", index, total), name)
}
