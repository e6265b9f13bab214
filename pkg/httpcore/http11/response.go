package http11

import (
	"bytes"
	"strconv"
	"time"
)

// Response is a fully-formed reply, built by a handler before the response
// stage begins; there is no support for streaming a response out
// incrementally. Defaults are version HTTP/1.1, status 200 OK, empty body.
type Response struct {
	Version      string
	StatusCode   int
	StatusReason string
	Headers      Headers
	Body         []byte
}

// NewResponse returns a Response with its defaults populated.
func NewResponse() *Response {
	return &Response{
		Version:      DefaultVersion,
		StatusCode:   StatusOK,
		StatusReason: ReasonOK,
		Headers:      Headers{},
	}
}

// SetBody assigns the body and recomputes Content-Length so the header
// always matches the body's current byte length.
func (r *Response) SetBody(body []byte) {
	r.Body = body
	r.Headers[HeaderContentLength] = strconv.Itoa(len(body))
}

// SetStatus sets the status line's code and reason together.
func (r *Response) SetStatus(code int, reason string) {
	r.StatusCode = code
	r.StatusReason = reason
}

// SetDate stamps the Date header in IMF-fixdate with t converted to UTC.
func (r *Response) SetDate(t time.Time) {
	r.Headers[HeaderDate] = t.UTC().Format(IMFFixdateLayout)
}

// Date decodes the Date header back into a time.Time.
func (r *Response) Date() (time.Time, error) {
	return time.Parse(IMFFixdateLayout, r.Headers[HeaderDate])
}

// Reset restores a Response to its defaults for reuse.
func (r *Response) Reset() {
	r.Version = DefaultVersion
	r.StatusCode = StatusOK
	r.StatusReason = ReasonOK
	r.Body = nil
	for k := range r.Headers {
		delete(r.Headers, k)
	}
}

// Serialize is a one-shot encoder: status line, then one line per header
// with a non-empty value, then a blank line, then the body. It allocates a
// fresh byte slice meant to be fed straight into the connection's outbound
// parse buffer.
func Serialize(resp *Response) []byte {
	var buf bytes.Buffer
	buf.WriteString(resp.Version)
	buf.WriteByte(SP)
	buf.WriteString(strconv.Itoa(resp.StatusCode))
	buf.WriteByte(SP)
	buf.WriteString(resp.StatusReason)
	buf.WriteString("\r\n")

	for k, v := range resp.Headers {
		if v == "" {
			continue
		}
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(v)
		buf.WriteString("\r\n")
	}
	buf.WriteString("\r\n")
	buf.Write(resp.Body)
	return buf.Bytes()
}
