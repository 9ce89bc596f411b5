package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	Version = "v1.0.0"
	t.Cleanup(func() { Version = old })

	if got := String(); !strings.HasPrefix(got, "version: v1.0.0\n") {
		t.Errorf("String() = %q", got)
	}
	if got := Template(); !strings.Contains(got, "{{.Name}} version v1.0.0") {
		t.Errorf("Template() = %q", got)
	}
}
