package render

import (
	"context"
	"strings"
	"testing"
)

func TestToPNG_InvalidScale(t *testing.T) {
	if _, err := ToPNG(context.Background(), []byte("<svg/>"), 0); err == nil {
		t.Error("ToPNG() with zero scale should fail")
	}
}

func TestConvert_MissingBinary(t *testing.T) {
	old := rsvgBinary
	rsvgBinary = "rsvg-convert-does-not-exist"
	t.Cleanup(func() { rsvgBinary = old })

	_, err := ToPDF(context.Background(), []byte("<svg/>"))
	if err == nil {
		t.Fatal("ToPDF() should fail when the converter is missing")
	}
	if !strings.Contains(err.Error(), "requires librsvg") {
		t.Errorf("ToPDF() error = %q, want install hint", err)
	}
}
