package raster

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T) (string, []byte) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	path := filepath.Join(t.TempDir(), "page.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path, buf.Bytes()
}

func TestOpenImageFile(t *testing.T) {
	ctx := context.Background()
	path, want := writeTestPNG(t)

	doc, err := Open(path, "fitz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 1 {
		t.Errorf("expected 1 page, got %d", doc.PageCount())
	}

	got, err := doc.RenderPage(ctx, 1, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Error("rendered image differs from source file")
	}

	if _, err := doc.RenderPage(ctx, 2, 300); err == nil {
		t.Error("expected error for out-of-range page")
	}
}

func TestOpenRejectsUnknownInputs(t *testing.T) {
	if _, err := Open("roll.docx", "fitz"); err == nil {
		t.Error("expected error for unsupported document type")
	}
	if _, err := Open("roll.pdf", "carrier-pigeon"); err == nil {
		t.Error("expected error for unknown engine")
	}
}

func TestMockDocument(t *testing.T) {
	ctx := context.Background()
	m := NewMock([]byte("p1"), []byte("p2"))
	m.FailPages = map[int]bool{2: true}

	if m.PageCount() != 2 {
		t.Errorf("expected 2 pages, got %d", m.PageCount())
	}

	got, err := m.RenderPage(ctx, 1, 300)
	if err != nil || string(got) != "p1" {
		t.Errorf("unexpected page 1 result: %q %v", got, err)
	}

	if _, err := m.RenderPage(ctx, 2, 300); err == nil {
		t.Error("expected configured failure for page 2")
	}

	if err := m.Close(); err != nil || !m.Closed {
		t.Error("expected mock to record close")
	}
}
