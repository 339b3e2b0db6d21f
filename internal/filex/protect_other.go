//go:build !windows

package filex

import "os"

// Protect restricts path to its owner. It is best-effort; callers log and
// continue.
func Protect(path string) error {
	return os.Chmod(path, 0o600)
}
