package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// SafeCreate opens a temp file next to path. Call commit once everything is
// written to close it and rename it into place; call abort on failure.
func SafeCreate(path string) (f *os.File, commit func() error, abort func(), err error) {
	tmp := path + ".tmp"
	f, err = os.Create(tmp)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create temp file: %w", err)
	}
	commit = func() error {
		if err := f.Close(); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("close temp file: %w", err)
		}
		if err := os.Rename(tmp, path); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("atomic rename: %w", err)
		}
		return nil
	}
	abort = func() {
		_ = f.Close()
		_ = os.Remove(tmp)
	}
	return f, commit, abort, nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
