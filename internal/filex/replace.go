package filex

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/invkeeper/internal/common"
)

// Seams for failure tests.
var (
	createTemp = os.CreateTemp
	rename     = os.Rename
	writeTemp  = func(f *os.File, data []byte) (int, error) { return f.Write(data) }
	copyOver   = copyFile
)

// Replace writes data to dest atomically. The bytes go to a temporary file in
// dest's directory, which is synced and then renamed over dest. If the rename
// fails the temporary file is copied over dest instead, with dest's previous
// content restored if that copy fails. The temporary file is gone when
// Replace returns, and dest keeps its original content on any failure.
func Replace(dest string, data []byte) (err error) {
	dir := filepath.Dir(dest)

	tmp, err := createTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp in %s: %v", common.ErrIO, dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := writeTemp(tmp, data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write temp: %v", common.ErrIO, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync temp: %v", common.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp: %v", common.ErrIO, err)
	}

	if err := rename(tmpName, dest); err == nil {
		return nil
	}

	if err := copyPreserving(tmpName, dest); err != nil {
		return fmt.Errorf("%w: replace %s: %v", common.ErrIO, dest, err)
	}
	return nil
}

// copyPreserving copies src over dst. dst's previous content is backed up to
// a sibling file first and copied back if the copy fails part way; a dst that
// did not exist is removed again. The backup is kept only if restoring fails.
func copyPreserving(src, dst string) error {
	backup, err := backupFile(dst)
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}

	copyErr := copyOver(src, dst)
	if copyErr == nil {
		if backup != "" {
			_ = os.Remove(backup)
		}
		return nil
	}

	if backup == "" {
		_ = os.Remove(dst)
		return copyErr
	}
	if err := copyFile(backup, dst); err != nil {
		return errors.Join(copyErr, fmt.Errorf("restore failed, original kept in %s: %w", backup, err))
	}
	_ = os.Remove(backup)
	return copyErr
}

// backupFile copies path to a hidden sibling and returns its name, or "" when
// path does not exist.
func backupFile(path string) (string, error) {
	in, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer in.Close()

	bak, err := createTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.bak")
	if err != nil {
		return "", err
	}
	_, err = io.Copy(bak, in)
	if err == nil {
		err = bak.Sync()
	}
	if cerr := bak.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(bak.Name())
		return "", err
	}
	return bak.Name(), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
