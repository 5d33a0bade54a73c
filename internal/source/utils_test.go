package source

import (
	"bytes"
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	tests := []struct {
		name        string
		input       []byte
		expected    []byte
		wantChanged bool
	}{
		{
			name:        "no carriage returns",
			input:       []byte("a\nb\n"),
			expected:    []byte("a\nb\n"),
			wantChanged: false,
		},
		{
			name:        "crlf pairs replaced",
			input:       []byte("a\r\nb\r\n"),
			expected:    []byte("a\nb\n"),
			wantChanged: true,
		},
		{
			name:        "lone cr preserved",
			input:       []byte("a\rb"),
			expected:    []byte("a\rb"),
			wantChanged: false,
		},
		{
			name:        "mixed",
			input:       []byte("a\r\nb\rc\n"),
			expected:    []byte("a\nb\rc\n"),
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed := normalizeCRLF(tt.input)
			if !bytes.Equal(out, tt.expected) {
				t.Errorf("normalizeCRLF() = %q, want %q", out, tt.expected)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}

func TestRemoveBOM(t *testing.T) {
	withBOM := []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}
	out, had := removeBOM(withBOM)
	if !had || string(out) != "hi" {
		t.Errorf("removeBOM() = %q, %v", out, had)
	}

	plain := []byte("hi")
	out, had = removeBOM(plain)
	if had || string(out) != "hi" {
		t.Errorf("removeBOM() on plain input = %q, %v", out, had)
	}
}

func TestToLineCol(t *testing.T) {
	content := []byte("one\ntwo\nthree")
	idx := buildLineIndex(content)

	tests := []struct {
		name     string
		off      uint32
		expected LineCol
	}{
		{"first byte", 0, LineCol{Line: 1, Col: 1}},
		{"end of first line", 2, LineCol{Line: 1, Col: 3}},
		{"start of second line", 4, LineCol{Line: 2, Col: 1}},
		{"inside third line", 10, LineCol{Line: 3, Col: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toLineCol(idx, tt.off)
			if got != tt.expected {
				t.Errorf("toLineCol(%d) = %+v, want %+v", tt.off, got, tt.expected)
			}
		})
	}
}

func TestFile_GetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.at", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	if got := f.GetLine(1); got != "first" {
		t.Errorf("GetLine(1) = %q", got)
	}
	if got := f.GetLine(2); got != "second" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(3); got != "third" {
		t.Errorf("GetLine(3) = %q", got)
	}
	if got := f.GetLine(4); got != "" {
		t.Errorf("GetLine(4) = %q, want empty", got)
	}
	if got := f.GetLine(0); got != "" {
		t.Errorf("GetLine(0) = %q, want empty", got)
	}
}
