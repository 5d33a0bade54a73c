package source

import (
	"testing"
)

func TestFileSet_Locate(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("scripts/demo.at", []byte("let x = 1\ncheck(x == 1)\n"))

	tests := []struct {
		name     string
		span     Span
		expected Location
	}{
		{
			name:     "start of file",
			span:     Span{File: id, Start: 0, End: 3},
			expected: Location{Path: "scripts/demo.at", Line: 1, Column: 1},
		},
		{
			name:     "second line",
			span:     Span{File: id, Start: 10, End: 15},
			expected: Location{Path: "scripts/demo.at", Line: 2, Column: 1},
		},
		{
			name:     "mid second line",
			span:     Span{File: id, Start: 16, End: 17},
			expected: Location{Path: "scripts/demo.at", Line: 2, Column: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fs.Locate(tt.span)
			if got != tt.expected {
				t.Errorf("Locate() = %+v, want %+v", got, tt.expected)
			}
			if !got.IsResolved() {
				t.Errorf("IsResolved() = false for %+v", got)
			}
		})
	}

	t.Run("out of range file is unresolved", func(t *testing.T) {
		got := fs.Locate(Span{File: 99, Start: 0, End: 1})
		if got.IsResolved() {
			t.Errorf("Locate() on unknown file = %+v, want unresolved", got)
		}
	})
}

func TestLocation_String(t *testing.T) {
	loc := Location{Path: "a/b.at", Line: 3, Column: 9}
	if got := loc.String(); got != "a/b.at:3:9" {
		t.Errorf("String() = %q, want %q", got, "a/b.at:3:9")
	}
}
