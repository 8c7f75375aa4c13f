//go:build windows

package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// writeJSONAtomic writes v as indented JSON through a temp file followed
// by MoveFileEx with MOVEFILE_REPLACE_EXISTING. Plain os.Rename fails on
// Windows when the destination already exists.
func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	// The temp file must live in the same directory: the replace is only
	// atomic within a volume.
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := encodeAndSync(tmp, v); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	src, err := windows.UTF16PtrFromString(tmpName)
	if err != nil {
		os.Remove(tmpName)
		return err
	}
	dst, err := windows.UTF16PtrFromString(path)
	if err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := windows.MoveFileEx(src, dst, windows.MOVEFILE_REPLACE_EXISTING); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func encodeAndSync(f *os.File, v any) error {
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Sync()
}
