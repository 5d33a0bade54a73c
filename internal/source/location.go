package source

import "fmt"

// Location is a resolved file/line/column position. It is what issue
// records and expanded call sites carry at run time, after spans have
// been resolved against a FileSet.
type Location struct {
	Path   string
	Line   uint32 // 1-based
	Column uint32 // 1-based
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Column)
}

// IsResolved reports whether the location points at a real position.
// A zero Location means the call site could not be resolved.
func (l Location) IsResolved() bool {
	return l.Path != "" && l.Line != 0
}

// Locate resolves the start of a span into a Location.
func (fs *FileSet) Locate(span Span) Location {
	if fs == nil || int(span.File) >= fs.Len() {
		return Location{}
	}
	f := fs.Get(span.File)
	lc := toLineCol(f.LineIdx, span.Start)
	return Location{Path: f.Path, Line: lc.Line, Column: lc.Col}
}
