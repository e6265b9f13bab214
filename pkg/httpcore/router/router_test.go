package router

import (
	"testing"

	"github.com/yourusername/httpcore/pkg/httpcore/body"
	"github.com/yourusername/httpcore/pkg/httpcore/http11"
)

func TestLookupUnknownPathIs404(t *testing.T) {
	tbl := New()
	_, pathExists, found := tbl.Lookup("/nope", "GET")
	if pathExists {
		t.Fatalf("pathExists = true, want false")
	}
	if found {
		t.Fatalf("found = true, want false")
	}
}

func TestLookupWrongMethodIs405(t *testing.T) {
	tbl := New()
	tbl.Register("/widgets", "GET", func(*http11.Request, *http11.Response, *body.Reader) {})

	_, pathExists, found := tbl.Lookup("/widgets", "POST")
	if !pathExists {
		t.Fatalf("pathExists = false, want true")
	}
	if found {
		t.Fatalf("found = true, want false")
	}
}

func TestLookupMatch(t *testing.T) {
	tbl := New()
	called := false
	tbl.Register("/widgets", "GET", func(*http11.Request, *http11.Response, *body.Reader) { called = true })

	h, pathExists, found := tbl.Lookup("/widgets", "GET")
	if !pathExists || !found {
		t.Fatalf("pathExists=%v found=%v, want true,true", pathExists, found)
	}
	h(nil, nil, nil)
	if !called {
		t.Fatalf("handler not invoked")
	}
}

func TestRegisterReplacesExistingHandler(t *testing.T) {
	tbl := New()
	var calls []string
	tbl.Register("/x", "GET", func(*http11.Request, *http11.Response, *body.Reader) { calls = append(calls, "first") })
	second := func(*http11.Request, *http11.Response, *body.Reader) { calls = append(calls, "second") }
	tbl.Register("/x", "GET", second)

	h, _, found := tbl.Lookup("/x", "GET")
	if !found {
		t.Fatalf("expected found")
	}
	if h == nil {
		t.Fatalf("handler is nil")
	}
	h(nil, nil, nil)
	if len(calls) != 1 || calls[0] != "second" {
		t.Fatalf("calls = %v, want [second]", calls)
	}
}
