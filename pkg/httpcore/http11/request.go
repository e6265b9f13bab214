package http11

// Headers maps a header key to its value, compared case-sensitively;
// insertion order carries no meaning.
type Headers map[string]string

// Request is the parsed request line plus headers. An empty Method, Path,
// or Version means that field has not been parsed yet — the request parser
// (parser.go) relies on this to resume mid-parse.
type Request struct {
	Method  string
	Path    string
	Version string
	Headers Headers
}

// NewRequest returns a Request ready for the parser to populate.
func NewRequest() *Request {
	return &Request{Headers: Headers{}}
}

// Reset clears a Request for reuse across a keep-alive connection's next
// request.
func (r *Request) Reset() {
	r.Method = ""
	r.Path = ""
	r.Version = ""
	for k := range r.Headers {
		delete(r.Headers, k)
	}
}

// Connection reports the literal value of the request's Connection header.
func (r *Request) Connection() string {
	return r.Headers[HeaderConnection]
}

// ContentLength parses the request's Content-Length header. ok is false
// when the header is absent or not a valid non-negative integer.
func (r *Request) ContentLength() (n int64, ok bool) {
	v, present := r.Headers[HeaderContentLength]
	if !present {
		return 0, false
	}
	n, err := parseNonNegativeInt(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseNonNegativeInt(s string) (int64, error) {
	if len(s) == 0 {
		return 0, errInvalidInteger
	}
	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, errInvalidInteger
		}
		n = n*10 + int64(c-'0')
	}
	return n, nil
}
