// Package logging defines the structured logger contract used throughout
// httpcore. It mirrors github.com/rs/zerolog's event-building style so a
// caller can pass a *zerolog.Logger wrapper straight through: a failed
// receive on a connection in REQ is logged at Debug before that connection
// is closed (other per-connection closes are not logged), and conditions
// that abort the event loop are logged at Error.
package logging

// Logger is the minimal structured-logging surface httpcore depends on. A
// nil Config.Logger discards everything; Server substitutes Discard for it
// before handing it to internal components so callers never need a nil
// check.
type Logger interface {
	Debug() Event
	Error() Event
}

// Event accumulates fields for one log line, zerolog-style, terminated by
// Msg.
type Event interface {
	Str(key, value string) Event
	Int(key string, value int) Event
	Err(err error) Event
	Msg(message string)
}

// Discard is the Logger used when Config.Logger is nil.
var Discard Logger = discardLogger{}

type discardLogger struct{}

func (discardLogger) Debug() Event { return discardEvent{} }
func (discardLogger) Error() Event { return discardEvent{} }

type discardEvent struct{}

func (discardEvent) Str(string, string) Event  { return discardEvent{} }
func (discardEvent) Int(string, int) Event     { return discardEvent{} }
func (discardEvent) Err(error) Event           { return discardEvent{} }
func (discardEvent) Msg(string)                {}
