// Package http11 implements the HTTP/1.1 wire format: request parsing,
// response serialization, and the grammar constants both share.
package http11

// Reason phrases for the status codes this engine produces itself
// (400/404/405); handler-set codes carry whatever reason the handler chose.
const (
	ReasonOK               = "OK"
	ReasonBadRequest       = "Bad Request"
	ReasonNotFound         = "Not Found"
	ReasonMethodNotAllowed = "Method Not Allowed"
)

// Status codes the core synthesizes on routing/parsing failure.
const (
	StatusOK               = 200
	StatusBadRequest       = 400
	StatusNotFound         = 404
	StatusMethodNotAllowed = 405
)

// Grammar bytes.
const (
	SP    = ' '
	CR    = '\r'
	LF    = '\n'
	Colon = ':'
)

// DefaultVersion is stamped on every synthesized Response.
const DefaultVersion = "HTTP/1.1"

// HeaderConnection / HeaderDate / HeaderContentLength are the header names
// the core itself reads or writes; application headers are opaque strings.
const (
	HeaderConnection    = "Connection"
	HeaderContentLength = "Content-Length"
	HeaderDate          = "Date"
)

// ConnectionClose is the header value that triggers non-keep-alive.
const ConnectionClose = "close"

// IMFFixdateLayout is the wire format for the Date header.
const IMFFixdateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// DefaultMaxHeaderBytes is the default header-block size cap.
const DefaultMaxHeaderBytes = 8192
