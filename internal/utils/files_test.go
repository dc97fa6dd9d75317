package utils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/surveyloom/internal/utils"
)

func TestSafeWriteFileReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := utils.SafeWriteFile(path, []byte("one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := utils.SafeWriteFile(path, []byte("two")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != "two" {
		t.Fatalf("got %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestSafeCreateAbortLeavesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	f, _, abort, err := utils.SafeCreate(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, _ = f.WriteString("partial")
	abort()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("target should not exist after abort")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}

	f, commit, _, err := utils.SafeCreate(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, _ = f.WriteString("done")
	if err := commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != "done" {
		t.Fatalf("got %q", b)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"rows": 3})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), "\n  \"rows\": 3") {
		t.Fatalf("not indented: %s", b)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/tmp/home")
	got, err := utils.ExpandHome("~/.surveyloom/config.yaml")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != filepath.Join("/tmp/home", ".surveyloom/config.yaml") {
		t.Fatalf("got %s", got)
	}
	if got, _ := utils.ExpandHome("raw/anes.csv"); got != "raw/anes.csv" {
		t.Fatalf("relative path changed: %s", got)
	}
}
