// Package notify is the transient-notification surface of the client: every
// user-visible outcome (the web app's toasts) goes through a Notifier.
// Notifications are fire-and-forget; implementations must not block.
package notify

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier renders notifications through logrus. It is the default sink
// when no interactive front end is attached.
type LogNotifier struct {
	Log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{Log: log}
}

func (n *LogNotifier) Success(msg string) {
	n.Log.WithField("notification", "success").Info(msg)
}

func (n *LogNotifier) Error(msg string) {
	n.Log.WithField("notification", "error").Warn(msg)
}

// Level of a recorded notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Event struct {
	Level   Level
	Message string
}

// Recorder captures notifications in order for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Success(msg string) { r.record(LevelSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.record(LevelError, msg) }

func (r *Recorder) record(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Level: level, Message: msg})
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Errors returns only the error-level messages.
func (r *Recorder) Errors() []string {
	var out []string
	for _, e := range r.Events() {
		if e.Level == LevelError {
			out = append(out, e.Message)
		}
	}
	return out
}

// Reset discards recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
