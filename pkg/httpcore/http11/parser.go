package http11

import (
	"github.com/yourusername/httpcore/pkg/httpcore/parsebuf"
)

// Parse advances req using whatever bytes buf has accumulated so far,
// skipping any sub-step already populated so a caller can feed it bytes as
// they arrive across many reads. It returns complete=true once the full
// request line and header block have been consumed, complete=false with a
// nil error when buf ran out of bytes mid-token (the caller must append
// more and retry), and a non-nil error for anything that violates the
// grammar.
//
// Every path that exhausts buf before finding its delimiter rolls back to
// the last commit point, so a retry after more bytes arrive starts the
// current sub-step over from scratch rather than from a half-consumed
// position.
func Parse(buf *parsebuf.Buffer, req *Request) (complete bool, err error) {
	if req.Method == "" {
		tok, ok := readUntilByte(buf, SP)
		if !ok {
			buf.Rollback()
			return false, nil
		}
		if len(tok) == 0 {
			return false, &ParseError{Pos: buf.Head(), Expected: "method", Err: errEmptyToken}
		}
		req.Method = string(tok)
		buf.Commit()
	}

	if req.Path == "" {
		tok, ok := readUntilByte(buf, SP)
		if !ok {
			buf.Rollback()
			return false, nil
		}
		if len(tok) == 0 {
			return false, &ParseError{Pos: buf.Head(), Expected: "path", Err: errEmptyToken}
		}
		req.Path = string(tok)
		buf.Commit()
	}

	if req.Version == "" {
		tok, ok := readVersion(buf)
		if !ok {
			buf.Rollback()
			return false, nil
		}
		if len(tok) == 0 {
			return false, &ParseError{Pos: buf.Head(), Expected: "version", Err: errEmptyToken}
		}
		req.Version = string(tok)
		buf.Commit()
	}

	for {
		c, ok := buf.Next()
		if !ok {
			buf.Rollback()
			return false, nil
		}
		if c == CR {
			continue
		}
		if c == LF {
			buf.Commit()
			return true, nil
		}

		// c is the first byte of a header key; rewind one so the key scan
		// below sees it too.
		if !buf.Increment(-1) {
			buf.Rollback()
			return false, nil
		}

		key, ok := readUntilByte(buf, Colon)
		if !ok {
			buf.Rollback()
			return false, nil
		}

		sp, ok := buf.Next()
		if !ok {
			buf.Rollback()
			return false, nil
		}
		if sp != SP {
			return false, &ParseError{Pos: buf.Head(), Expected: "space after colon", Err: ErrMissingSpaceAfterColon}
		}

		val, ok := readVersion(buf) // reuse: reads until LF, stripping CR
		if !ok {
			buf.Rollback()
			return false, nil
		}

		req.Headers[string(key)] = string(val)
		buf.Commit()
	}
}

// readUntilByte consumes bytes up to (and including) delim, returning the
// bytes before it. ok is false if buf ran out first, leaving head wherever
// it stopped (the caller rolls back).
func readUntilByte(buf *parsebuf.Buffer, delim byte) ([]byte, bool) {
	start := buf.Head()
	for {
		c, ok := buf.Next()
		if !ok {
			return nil, false
		}
		if c == delim {
			return buf.Slice(start, buf.Head()-1), true
		}
	}
}

// readVersion consumes bytes up to (and including) LF, ignoring any CR
// immediately before it, and returns the bytes in between. Used for both
// the request line's version token and header values, which share the same
// CRLF-terminated grammar.
func readVersion(buf *parsebuf.Buffer) ([]byte, bool) {
	start := buf.Head()
	for {
		c, ok := buf.Next()
		if !ok {
			return nil, false
		}
		if c == LF {
			end := buf.Head() - 1
			if end > start && buf.Slice(end-1, end)[0] == CR {
				end--
			}
			return buf.Slice(start, end), true
		}
	}
}
