package http

import (
	"iter"

	"github.com/indigo-web/sparrow/http/mime"
	"github.com/indigo-web/sparrow/http/status"
	"github.com/indigo-web/sparrow/kv"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

const (
	// why 7? I don't know. There's no theory behind this number nor researches.
	preallocRespHeaders = 7
	defaultContentType  = mime.JSON
	allowOrigin         = "*"
	internalErrorBody   = "internal server error"
)

// Response is an immutable HTTP response. It can be obtained only via Builder.Build, so
// once built, it's safe to be shared.
type Response struct {
	code    status.Code
	headers []Header
	body    []byte
	hasBody bool
}

// Code returns the status code.
func (r Response) Code() status.Code {
	return r.code
}

// Headers returns an iterator over the response headers in order they are going to be
// rendered. Content-Length isn't included, as it's always computed during rendering.
func (r Response) Headers() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, h := range r.headers {
			if !yield(h.Key, h.Value) {
				return
			}
		}
	}
}

// Header returns the first value of the header.
func (r Response) Header(key string) (string, bool) {
	for _, h := range r.headers {
		if strcomp.EqualFold(h.Key, key) {
			return h.Value, true
		}
	}

	return "", false
}

// Body returns the body as string. The string is empty also if there is no body at all,
// use HasBody to distinguish the cases.
func (r Response) Body() string {
	return uf.B2S(r.body)
}

// BodyBytes returns the body. The returned slice must not be modified.
func (r Response) BodyBytes() []byte {
	return r.body
}

func (r Response) HasBody() bool {
	return r.hasBody
}

// Builder accumulates the response. It isn't safe for concurrent use, however the
// Response it produces is.
type Builder struct {
	code        status.Code
	headers     *kv.Storage
	contentType mime.MIME
	body        []byte
	hasBody     bool
	err         error
}

// NewBuilder returns a new builder with the status code set.
func NewBuilder(code status.Code) *Builder {
	return &Builder{
		code:        code,
		headers:     kv.NewPrealloc(preallocRespHeaders),
		contentType: defaultContentType,
	}
}

// Respond is a shorthand for an empty 200 OK response.
func Respond() Response {
	return NewBuilder(status.OK).Build()
}

// Code overrides the status code.
func (b *Builder) Code(code status.Code) *Builder {
	b.code = code
	return b
}

// Header adds a header. Content-Type is redirected to ContentType, and Content-Length
// is ignored, as it's always computed from the body.
func (b *Builder) Header(key, value string) *Builder {
	switch {
	case strcomp.EqualFold(key, "content-type"):
		return b.ContentType(value)
	case strcomp.EqualFold(key, "content-length"):
		return b
	}

	b.headers.Add(key, value)
	return b
}

// ContentType sets a custom Content-Type header value. It's rendered only if the
// response carries a body.
func (b *Builder) ContentType(value mime.MIME) *Builder {
	b.contentType = value
	return b
}

// String sets the response's body to the passed string.
func (b *Builder) String(body string) *Builder {
	return b.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to passed slice WITHOUT COPYING. Changing the passed
// slice later will affect the response by itself.
func (b *Builder) Bytes(body []byte) *Builder {
	b.body = body
	b.hasBody = true
	return b
}

// JSON serializes the model into the body. In case of serialization failure, the built
// response is an internal server error.
func (b *Builder) JSON(model any) *Builder {
	data, err := json.ConfigCompatibleWithStandardLibrary.Marshal(model)
	if err != nil {
		b.err = err
		return b
	}

	return b.ContentType(mime.JSON).Bytes(data)
}

// Build finalizes the response. Default headers (CORS allow-origin and content-type) are
// applied if the response carries a body.
func (b *Builder) Build() Response {
	if b.err != nil {
		return Error(status.Wrap(status.KindInternal, "cannot serialize body", b.err))
	}

	headers := make([]Header, 0, b.headers.Len()+2)
	headers = append(headers, b.headers.Expose()...)

	if b.hasBody {
		if !b.headers.Has("access-control-allow-origin") {
			headers = append(headers, Header{Key: "Access-Control-Allow-Origin", Value: allowOrigin})
		}

		headers = append(headers, Header{Key: "Content-Type", Value: b.contentType})
	}

	return Response{
		code:    b.code,
		headers: headers,
		body:    b.body,
		hasBody: b.hasBody,
	}
}

// Error returns a response corresponding to the error. The code is derived from the
// error's kind, errors that aren't status.HTTPError result in internal server error.
// The detail of client errors is sent as a plain-text body, internal ones are never
// disclosed.
func Error(err error) Response {
	return ErrorBuilder(err).Build()
}

// ErrorBuilder is the same as Error, except it leaves the response open for additional
// headers.
func ErrorBuilder(err error) *Builder {
	kind := status.KindOf(err)
	detail := internalErrorBody
	if kind != status.KindInternal {
		detail = status.Detail(err)
	}

	return NewBuilder(kind.Code()).
		ContentType(mime.Plain).
		String(detail)
}
