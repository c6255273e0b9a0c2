// Package audit provides the event trail for state transitions. Operations
// that change lifecycle state (enroll, unenroll, attempt start/submit/abandon,
// role changes, salary payment) call the Recorder explicitly instead of hiding
// logging inside model save hooks. Recording is best effort: a recorder must
// never fail the operation that invoked it.
package audit

import "log"

// Recorder receives one event per state transition.
type Recorder interface {
	Record(event string, fields map[string]any)
}

// LogRecorder writes events to the process log.
type LogRecorder struct{}

func (LogRecorder) Record(event string, fields map[string]any) {
	log.Printf("[AUDIT] %s %v", event, fields)
}

// Discard drops every event. Used by tests.
type Discard struct{}

func (Discard) Record(string, map[string]any) {}

// Default is the recorder used by controllers unless overridden.
var Default Recorder = LogRecorder{}
