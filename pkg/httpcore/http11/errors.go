package http11

import (
	"errors"
	"fmt"
)

// Sentinel errors for the conditions that end up as a synthesized 400.
// Fatal conditions the parser itself detects wrap one of these via
// ParseError, which also carries the byte position; ErrHeadersTooLarge is
// instead raised by the caller (the connection state machine) once the
// accumulated header block outgrows its configured cap, since that check
// isn't something the parser itself can see. errInvalidInteger is the
// exception: it stays inside Request.ContentLength, where an unparsable
// value yields ok=false rather than a 400.
var (
	// ErrMissingSpaceAfterColon is returned when a header's colon is not
	// immediately followed by a space.
	ErrMissingSpaceAfterColon = errors.New("http11: header colon not followed by space")

	// ErrHeadersTooLarge is wrapped into the error reported when the header
	// block exceeds the configured maximum.
	ErrHeadersTooLarge = errors.New("http11: header block exceeds maximum size")

	// errInvalidInteger is returned by Content-Length parsing for a missing
	// or non-numeric value.
	errInvalidInteger = errors.New("http11: invalid integer")

	// errEmptyToken is returned when the method, path, or version token
	// between two delimiters has zero length.
	errEmptyToken = errors.New("http11: empty token")
)

// ParseError carries the byte position and expectation for a fatal parse
// failure. The connection state machine renders Error() as the body of the
// synthesized 400 response.
type ParseError struct {
	Pos      int
	Expected string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("http11: parse error at byte %d: expected %s: %v", e.Pos, e.Expected, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
