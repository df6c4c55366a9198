package http

import (
	"github.com/indigo-web/sparrow/http/method"
	"github.com/indigo-web/sparrow/kv"
)

type (
	Headers = *kv.Storage
	Header  = kv.Pair
	Query   = map[string]string
)

// Request represents a parsed HTTP request. It's created per connection and exclusively
// owned by the worker handling it.
type Request struct {
	// Method is an enum representing the request method.
	Method method.Method
	// Path is the resource path as it was received, without the query.
	Path string
	// Query holds the URI query pairs. On duplicate keys, the last one wins.
	Query Query
	// Proto is the raw protocol token of the start line, e.g. HTTP/1.1.
	Proto string
	// Headers hold header pairs in order of their appearance. Keys are lower-cased and
	// trimmed, values are trimmed. Lookup is case-insensitive anyway.
	Headers Headers
	// Body is presented only if Content-Length header was. HasBody distinguishes an
	// empty body from its absence.
	Body    string
	HasBody bool
}

// NewRequest returns a request with all the containers initialized.
func NewRequest(m method.Method, path string) *Request {
	return &Request{
		Method:  m,
		Path:    path,
		Query:   make(Query),
		Proto:   "HTTP/1.1",
		Headers: kv.New(),
	}
}

// Header returns the first value of the header and whether it was presented at all.
func (r *Request) Header(key string) (string, bool) {
	return r.Headers.Get(key)
}

// WithBody sets the body and marks it as presented.
func (r *Request) WithBody(body string) *Request {
	r.Body = body
	r.HasBody = true
	return r
}
