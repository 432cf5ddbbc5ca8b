package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	got := String()
	if !strings.Contains(got, Version) {
		t.Errorf("String() = %q, missing version %q", got, Version)
	}
	if !strings.Contains(got, Commit) {
		t.Errorf("String() = %q, missing commit %q", got, Commit)
	}
}
