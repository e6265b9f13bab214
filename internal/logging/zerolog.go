package logging

import "github.com/rs/zerolog"

// FromZerolog adapts a zerolog.Logger to the Logger interface, so callers
// already standardized on zerolog can hand their existing logger straight
// to Server.
func FromZerolog(l zerolog.Logger) Logger {
	return zerologLogger{l}
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z zerologLogger) Debug() Event { return zerologEvent{z.l.Debug()} }
func (z zerologLogger) Error() Event { return zerologEvent{z.l.Error()} }

type zerologEvent struct {
	e *zerolog.Event
}

func (z zerologEvent) Str(key, value string) Event {
	z.e.Str(key, value)
	return z
}

func (z zerologEvent) Int(key string, value int) Event {
	z.e.Int(key, value)
	return z
}

func (z zerologEvent) Err(err error) Event {
	z.e.Err(err)
	return z
}

func (z zerologEvent) Msg(message string) {
	z.e.Msg(message)
}
