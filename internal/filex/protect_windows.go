//go:build windows

package filex

import "golang.org/x/sys/windows"

// Protect marks path hidden. It is best-effort; callers log and continue.
func Protect(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return err
	}
	return windows.SetFileAttributes(p, attrs|windows.FILE_ATTRIBUTE_HIDDEN)
}
