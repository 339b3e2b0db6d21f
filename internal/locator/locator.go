// Package locator finds inventory containers under an ordered list of search
// roots and owns the file naming convention used when writing them.
package locator

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dmitrijs2005/invkeeper/internal/logging"
	"github.com/dmitrijs2005/invkeeper/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	inventoryPrefix = "inventario_"
	inventorySuffix = ".xlsx"
)

// MatchFunc decides whether a file name is of interest.
type MatchFunc func(name string) bool

var fold = cases.Fold()

func foldName(s string) string {
	return fold.String(norm.NFC.String(s))
}

// InventoryMatch matches "inventario_*.xlsx" ignoring case.
func InventoryMatch(name string) bool {
	n := foldName(name)
	return strings.HasPrefix(n, inventoryPrefix) && strings.HasSuffix(n, inventorySuffix)
}

// Discover lists matching regular files under roots in priority order. Files
// in a root are sorted by name; a name already returned from an earlier root
// is skipped. Roots that cannot be read are logged and skipped.
func Discover(ctx context.Context, roots []string, match MatchFunc, log logging.Logger) []models.DiscoveredFile {
	var out []models.DiscoveredFile
	seen := make(map[string]struct{})

	for _, root := range roots {
		if ctx.Err() != nil {
			break
		}

		entries, err := os.ReadDir(root)
		if err != nil {
			log.Warn(ctx, "skipping search root", "root", root, "error", err)
			continue
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Type().IsRegular() && match(e.Name()) {
				names = append(names, e.Name())
			}
		}
		slices.Sort(names)

		for _, name := range names {
			key := foldName(name)
			if _, dup := seen[key]; dup {
				log.Debug(ctx, "duplicate inventory file", "name", name, "root", root)
				continue
			}
			seen[key] = struct{}{}

			path, err := filepath.Abs(filepath.Join(root, name))
			if err != nil {
				path = filepath.Join(root, name)
			}
			out = append(out, models.DiscoveredFile{Path: path, Name: name})
		}
	}

	return out
}

// DefaultRoots returns the search roots in priority order: subdir under the
// working directory, subdir next to the executable, then projectsDir. An
// absolute subdir is used alone in place of the first two. Empty and
// repeated entries are dropped.
func DefaultRoots(subdir, projectsDir string) []string {
	var candidates []string

	switch {
	case filepath.IsAbs(subdir):
		candidates = append(candidates, subdir)
	default:
		if cwd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(cwd, subdir))
		}
		if exe, err := os.Executable(); err == nil {
			candidates = append(candidates, filepath.Join(filepath.Dir(exe), subdir))
		}
	}
	if projectsDir != "" {
		if abs, err := filepath.Abs(projectsDir); err == nil {
			projectsDir = abs
		}
		candidates = append(candidates, projectsDir)
	}

	return dedupRoots(candidates)
}

func dedupRoots(roots []string) []string {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		if r == "" {
			continue
		}
		r = filepath.Clean(r)
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}
