// Package router implements the path/method route table used by the
// connection state machine's routing step.
package router

import (
	"github.com/yourusername/httpcore/pkg/httpcore/body"
	"github.com/yourusername/httpcore/pkg/httpcore/http11"
)

// Handler processes one fully-parsed request and produces a response,
// optionally consuming the request body through the supplied reader. It
// runs on its own goroutine so that a Read call on the body reader can
// suspend without blocking the event loop.
type Handler func(req *http11.Request, resp *http11.Response, b *body.Reader)

// Table maps a path to the set of methods registered on it. Lookup reports
// which of two distinct failure modes applies so the connection state
// machine can choose 404 versus 405.
type Table struct {
	routes map[string]map[string]Handler
}

// New returns an empty route table.
func New() *Table {
	return &Table{routes: make(map[string]map[string]Handler)}
}

// Register binds a handler to an exact path and method. Registering the
// same path and method twice replaces the previous handler.
func (t *Table) Register(path, method string, h Handler) {
	methods, ok := t.routes[path]
	if !ok {
		methods = make(map[string]Handler)
		t.routes[path] = methods
	}
	methods[method] = h
}

// Lookup resolves a request's handler. pathExists distinguishes "no such
// path" (404) from "path exists but method is not registered on it" (405);
// found reports whether the method matched given that the path exists.
func (t *Table) Lookup(path, method string) (h Handler, pathExists bool, found bool) {
	methods, ok := t.routes[path]
	if !ok {
		return nil, false, false
	}
	h, found = methods[method]
	return h, true, found
}
