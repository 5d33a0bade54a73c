package recorders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"attest/internal/check"
	"attest/internal/locked"
)

// Current schema version - increment when the envelope format changes
const streamSchemaVersion uint16 = 1

// envelope is the on-disk record: one per event, length-delimited by
// msgpack itself. Issue fields are flattened so consumers never need
// the runtime's types.
type envelope struct {
	Schema uint16

	Kind     string
	UnixNano int64
	Script   string

	// Issue payload, set only for issueRecorded events.
	IssueKind  string
	Comments   []string
	SourceCode string
	Path       string
	Line       uint32
	Column     uint32
	Error      string
	Known      bool
}

type streamState struct {
	file *os.File
	enc  *msgpack.Encoder
}

// Stream appends every event to a msgpack file for machine consumption.
// Concurrent scripts share one encoder behind a lock.
type Stream struct {
	state locked.Value[streamState]
}

// OpenStream creates or truncates the event stream file at path.
func OpenStream(path string) (*Stream, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// #nosec G304 -- path comes from the user's own configuration
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Stream{
		state: locked.New(streamState{file: f, enc: msgpack.NewEncoder(f)}),
	}, nil
}

func (s *Stream) Record(ev check.Event, ec check.EventContext) {
	env := envelope{
		Schema:   streamSchemaVersion,
		Kind:     ev.Kind.String(),
		UnixNano: ev.Time.UnixNano(),
		Script:   ec.Script,
	}
	if ev.Issue != nil {
		env.IssueKind = ev.Issue.Kind.String()
		env.Comments = ev.Issue.Comments
		env.SourceCode = ev.Issue.SourceCode
		loc := ev.Issue.SourceContext.SourceLocation
		env.Path = loc.Path
		env.Line = loc.Line
		env.Column = loc.Column
		if ev.Issue.Err != nil {
			env.Error = ev.Issue.Err.Error()
		}
		env.Known = ev.Issue.IsKnown
	}

	s.state.WithLock(func(st *streamState) {
		if st.enc == nil {
			return
		}
		if err := st.enc.Encode(&env); err != nil {
			fmt.Fprintf(os.Stderr, "event stream write failed: %v\n", err)
		}
	})
}

// Close flushes and closes the underlying file. Further Record calls
// are dropped.
func (s *Stream) Close() error {
	var err error
	s.state.WithLock(func(st *streamState) {
		if st.file != nil {
			err = st.file.Close()
		}
		st.file = nil
		st.enc = nil
	})
	return err
}
