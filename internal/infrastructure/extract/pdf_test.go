package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExtractPDFCorrupt(t *testing.T) {
	t.Parallel()

	e := New(nil, nil)

	if _, err := e.ExtractPDF(context.Background(), []byte("this is not a pdf")); err == nil {
		t.Fatal("expected error for non-PDF bytes")
	}
	if _, err := e.ExtractPDF(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty buffer")
	}
	if _, err := e.ExtractPDF(context.Background(), []byte("%PDF-1.4\ntruncated")); err == nil {
		t.Fatal("expected error for truncated PDF")
	}
}

func TestCheckLength(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", 20)
	got, err := checkLength("  " + long + "  ")
	if err != nil {
		t.Fatalf("checkLength error: %v", err)
	}
	if got != strings.TrimSpace(long) {
		t.Fatalf("checkLength did not trim: %q", got)
	}

	if _, err := checkLength("   \n\t  "); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent for whitespace, got %v", err)
	}

	if _, err := checkLength("short but not empty"); !errors.Is(err, ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}

	// Exactly at the boundary passes.
	boundary := strings.Repeat("a", 50)
	if _, err := checkLength(boundary); err != nil {
		t.Fatalf("boundary content rejected: %v", err)
	}
}
