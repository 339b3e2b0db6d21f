// Package filex holds the file system helpers used when writing containers:
// output directory setup, atomic replacement and best-effort protection.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureSubdDir creates dirName under the working directory and returns its
// absolute path. An absolute dirName is created as is.
func EnsureSubdDir(dirName string) (string, error) {
	dir := filepath.Clean(dirName)
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
