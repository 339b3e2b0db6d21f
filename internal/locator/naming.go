package locator

import (
	"fmt"
	"strings"
	"unicode"
)

const illegalChars = `<>:"/\|?*`

// FileName builds the container name for the project at 1-based index.
// The .xlsx suffix is kept for compatibility; the file holds a native
// container that Excel cannot open. Use `invkeeper export` to produce an
// Excel-openable copy.
func FileName(index int, projectName string) string {
	return fmt.Sprintf("Inventario_%d - %s.xlsx", index, Sanitize(projectName))
}

// Sanitize drops characters that are not allowed in file names on common
// platforms and collapses runs of whitespace into one space.
func Sanitize(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(illegalChars, r) {
			return -1
		}
		return r
	}, name)
	return strings.Join(strings.Fields(cleaned), " ")
}
