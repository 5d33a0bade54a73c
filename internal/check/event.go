package check

import (
	"time"
)

// EventKind identifies what an event describes.
type EventKind uint8

const (
	EventIssueRecorded EventKind = iota
	EventRunStarted
	EventRunEnded
	EventScriptStarted
	EventScriptEnded
)

func (k EventKind) String() string {
	switch k {
	case EventIssueRecorded:
		return "issueRecorded"
	case EventRunStarted:
		return "runStarted"
	case EventRunEnded:
		return "runEnded"
	case EventScriptStarted:
		return "scriptStarted"
	case EventScriptEnded:
		return "scriptEnded"
	default:
		return "unknown"
	}
}

// Event is one occurrence published to the configured handler. Issue is
// set only for EventIssueRecorded.
type Event struct {
	Kind  EventKind
	Issue *Issue
	Time  time.Time
}

// EventContext describes where an event came from.
type EventContext struct {
	Script string
}

// EventHandler receives every published event. Handlers are invoked
// synchronously from arbitrary concurrent goroutines and own their own
// serialization; they must not panic.
type EventHandler func(Event, EventContext)

// Configuration carries the installed event handler and its context.
// It is owned by whoever sets up a run; the recording pipeline only
// reads it.
type Configuration struct {
	EventHandler EventHandler
	Context      EventContext
}

// Post publishes an event through the configuration's handler. A nil
// configuration or handler drops the event; that only happens before a
// run has installed one.
func Post(cfg *Configuration, ev Event) {
	if cfg == nil || cfg.EventHandler == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	cfg.EventHandler(ev, cfg.Context)
}
