package home

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("uses given path", func(t *testing.T) {
		d, err := New("/tmp/rollscan-test")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Path() != "/tmp/rollscan-test" {
			t.Errorf("expected /tmp/rollscan-test, got %s", d.Path())
		}
	})

	t.Run("defaults to ~/.rollscan", func(t *testing.T) {
		d, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasSuffix(d.Path(), DefaultDirName) {
			t.Errorf("expected path ending in %s, got %s", DefaultDirName, d.Path())
		}
	})
}

func TestPageImagePath(t *testing.T) {
	d, _ := New(t.TempDir())

	got := d.PageImagePath("run-1", 7)
	want := filepath.Join(d.Path(), "pages", "run-1", "page_0007.png")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestWriteFailedDump(t *testing.T) {
	d, _ := New(t.TempDir())

	path, err := d.WriteFailedDump(12, "raw llm response")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("dump not written: %v", err)
	}
	if string(data) != "raw llm response" {
		t.Errorf("dump content mismatch: %s", data)
	}
	if !strings.HasSuffix(path, "failed_page_0012.txt") {
		t.Errorf("unexpected dump path: %s", path)
	}
}
