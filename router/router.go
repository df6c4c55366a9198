package router

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/indigo-web/sparrow/http"
	"github.com/indigo-web/sparrow/http/method"
	"github.com/indigo-web/sparrow/http/status"
	"github.com/indigo-web/sparrow/security"
)

const allowMethodsHeader = "Access-Control-Allow-Methods"

// Params is everything a handler receives.
type Params struct {
	// Request is the whole parsed request, mainly to access headers.
	Request *http.Request
	Body    string
	Query   http.Query
	// Path holds path parameters, e.g. {"id": "42"} for /items/{id} and /items/42.
	Path map[string]string
}

// Handler processes a matched request. Implementations must be safe for concurrent use, as
// a single handler is shared by all the workers.
type Handler interface {
	Handle(params Params) http.Response
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(params Params) http.Response

func (h HandlerFunc) Handle(params Params) http.Response {
	return h(params)
}

// ErrorHandler produces a response for a failure of the given kind. The request is nil if
// the failure happened before the request was parsed.
type ErrorHandler func(request *http.Request, err error) http.Response

// Route binds a method and a path template to a handler. Template segments wrapped in
// curly braces are path parameters.
type Route struct {
	Method   method.Method
	Template string
	Handler  Handler
	// Secured routes are checked against the server's security.Protocol before the handler
	// is called.
	Secured bool
}

type compiledRoute struct {
	Route
	template template
}

type Option func(*Router)

// WithErrorHandler overrides the response produced for failures of the kind.
func WithErrorHandler(kind status.Kind, handler ErrorHandler) Option {
	return func(r *Router) {
		r.errHandlers[kind] = handler
	}
}

// WithLogger sets the logger recovered panics are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// Router matches requests against an ordered table of routes. It's immutable once
// constructed, so it may be shared by any number of goroutines without locking.
type Router struct {
	routes      []compiledRoute
	errHandlers map[status.Kind]ErrorHandler
	options     http.Response
	logger      *slog.Logger
}

// New compiles the routes. The order is preserved: if multiple routes match the same
// request, the first one wins.
func New(routes []Route, opts ...Option) (*Router, error) {
	r := &Router{
		routes:      make([]compiledRoute, 0, len(routes)),
		errHandlers: make(map[status.Kind]ErrorHandler),
		options: http.NewBuilder(status.OK).
			Header(allowMethodsHeader, method.Join(method.List)).
			Build(),
		logger: slog.Default(),
	}

	for _, route := range routes {
		if route.Handler == nil {
			return nil, fmt.Errorf("%s %s: handler cannot be nil", route.Method, route.Template)
		}

		if route.Method == method.Unknown {
			return nil, fmt.Errorf("%s: unknown method", route.Template)
		}

		tmpl, err := parseTemplate(route.Template)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", route.Method, route.Template, err)
		}

		r.routes = append(r.routes, compiledRoute{
			Route:    route,
			template: tmpl,
		})
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Route resolves the request into a response. It never panics: every failure, including
// one of the handler, is converted into an error response.
func (r *Router) Route(request *http.Request, protocol security.Protocol) http.Response {
	if request.Method == method.OPTIONS {
		return r.options
	}

	parts := splitPath(request.Path)
	route, found := r.find(request.Method, parts)
	if !found {
		return r.Error(request, status.NotFound("no route for "+request.Method.String()+" "+request.Path))
	}

	if route.Secured {
		if err := check(protocol, request); err != nil {
			return r.unauthorized(request, protocol, err)
		}
	}

	return r.invoke(route.Handler, request, Params{
		Request: request,
		Body:    request.Body,
		Query:   request.Query,
		Path:    route.template.Params(parts),
	})
}

func (r *Router) find(m method.Method, parts []string) (compiledRoute, bool) {
	for _, route := range r.routes {
		if route.Method == m && route.template.Match(parts) {
			return route, true
		}
	}

	return compiledRoute{}, false
}

func check(protocol security.Protocol, request *http.Request) error {
	if protocol == nil {
		return nil
	}

	return protocol.Check(request)
}

func (r *Router) invoke(handler Handler, request *http.Request, params Params) (response http.Response) {
	defer func() {
		if recovered := recover(); recovered != nil {
			r.logger.Error(
				"recovered from panic in handler",
				slog.String("method", request.Method.String()),
				slog.String("path", request.Path),
				slog.Any("panic", recovered),
				slog.String("stack", string(debug.Stack())),
			)

			response = r.Error(request, status.Internal(fmt.Sprint(recovered)))
		}
	}()

	return handler.Handle(params)
}

// Error converts the error into a response, using a custom error handler if one is
// registered for the error's kind.
func (r *Router) Error(request *http.Request, err error) http.Response {
	if handler, found := r.errHandlers[status.KindOf(err)]; found {
		return handler(request, err)
	}

	return http.Error(err)
}

func (r *Router) unauthorized(request *http.Request, protocol security.Protocol, err error) http.Response {
	challenger, ok := protocol.(security.Challenger)
	if _, custom := r.errHandlers[status.KindUnauthorized]; custom || !ok {
		return r.Error(request, err)
	}

	return http.ErrorBuilder(err).
		Header("WWW-Authenticate", challenger.Challenge()).
		Build()
}
