package guard

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Methods lists the verbs Table intercepts: the standard methods plus the
// WebDAV and versioning extensions.
var Methods = []string{
	http.MethodConnect, http.MethodDelete, http.MethodGet, http.MethodHead,
	http.MethodOptions, http.MethodPatch, http.MethodPost, http.MethodPut,
	http.MethodTrace,
	"PROPFIND", "PROPPATCH", "MKCOL", "COPY", "MOVE", "LOCK", "UNLOCK",
	"VERSION-CONTROL", "REPORT", "CHECKOUT", "CHECKIN", "UNCHECKOUT",
	"MKWORKSPACE", "UPDATE", "LABEL", "MERGE", "BASELINE-CONTROL",
	"MKACTIVITY", "ORDERPATCH", "ACL", "SEARCH",
}

var chiMethods = []string{
	http.MethodConnect, http.MethodDelete, http.MethodGet, http.MethodHead,
	http.MethodOptions, http.MethodPatch, http.MethodPost, http.MethodPut,
	http.MethodTrace,
}

// Route is one registered endpoint.
type Route struct {
	Method  string
	Pattern string
	// Middlewares run in order before Handler.
	Middlewares []func(http.Handler) http.Handler
	Handler     http.Handler
}

// Chain returns Handler wrapped in Middlewares, the first one outermost.
func (rt *Route) Chain() http.Handler {
	return chi.Chain(rt.Middlewares...).Handler(rt.Handler)
}

type routeTable struct {
	routes []*Route
	suffix []func(http.Handler) http.Handler
}

// Table collects routes before they are mounted on a chi router.
// It is not safe for concurrent registration.
type Table struct {
	rt     *routeTable
	inline []func(http.Handler) http.Handler
}

// NewTable returns an empty table. Nothing is gated until Secure is called.
func NewTable() *Table {
	return &Table{rt: &routeTable{}}
}

// With returns a view of t whose registrations carry middlewares ahead of
// anything added by Secure.
func (t *Table) With(middlewares ...func(http.Handler) http.Handler) *Table {
	return &Table{
		rt:     t.rt,
		inline: append(slices.Clone(t.inline), middlewares...),
	}
}

// Method registers h for method and pattern.
func (t *Table) Method(method, pattern string, h http.Handler) *Route {
	method = strings.ToUpper(method)
	mws := slices.Clone(t.inline)
	if intercepted(method) {
		mws = append(mws, t.rt.suffix...)
	}
	route := &Route{Method: method, Pattern: pattern, Middlewares: mws, Handler: h}
	t.rt.routes = append(t.rt.routes, route)
	return route
}

// Connect registers h for CONNECT requests to pattern.
func (t *Table) Connect(pattern string, h http.HandlerFunc) *Route {
	return t.Method(http.MethodConnect, pattern, h)
}

// Delete registers h for DELETE requests to pattern.
func (t *Table) Delete(pattern string, h http.HandlerFunc) *Route {
	return t.Method(http.MethodDelete, pattern, h)
}

// Get registers h for GET requests to pattern.
func (t *Table) Get(pattern string, h http.HandlerFunc) *Route {
	return t.Method(http.MethodGet, pattern, h)
}

// Head registers h for HEAD requests to pattern.
func (t *Table) Head(pattern string, h http.HandlerFunc) *Route {
	return t.Method(http.MethodHead, pattern, h)
}

// Options registers h for OPTIONS requests to pattern.
func (t *Table) Options(pattern string, h http.HandlerFunc) *Route {
	return t.Method(http.MethodOptions, pattern, h)
}

// Patch registers h for PATCH requests to pattern.
func (t *Table) Patch(pattern string, h http.HandlerFunc) *Route {
	return t.Method(http.MethodPatch, pattern, h)
}

// Post registers h for POST requests to pattern.
func (t *Table) Post(pattern string, h http.HandlerFunc) *Route {
	return t.Method(http.MethodPost, pattern, h)
}

// Put registers h for PUT requests to pattern.
func (t *Table) Put(pattern string, h http.HandlerFunc) *Route {
	return t.Method(http.MethodPut, pattern, h)
}

// Trace registers h for TRACE requests to pattern.
func (t *Table) Trace(pattern string, h http.HandlerFunc) *Route {
	return t.Method(http.MethodTrace, pattern, h)
}

// Routes returns the routes registered for method, in registration order.
// An empty method returns every route.
func (t *Table) Routes(method string) []*Route {
	method = strings.ToUpper(method)
	var out []*Route
	for _, r := range t.rt.routes {
		if method == "" || r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

// Secure appends middlewares to every intercepted route already in the table,
// after the route's own middlewares, and to every route registered later.
func (t *Table) Secure(middlewares ...func(http.Handler) http.Handler) {
	for _, r := range t.rt.routes {
		if intercepted(r.Method) {
			r.Middlewares = append(r.Middlewares, middlewares...)
		}
	}
	t.rt.suffix = append(t.rt.suffix, middlewares...)
}

// Mount registers every route on r.
func (t *Table) Mount(r chi.Router) {
	for _, route := range t.rt.routes {
		if !slices.Contains(chiMethods, route.Method) {
			chi.RegisterMethod(route.Method)
		}
		r.With(route.Middlewares...).Method(route.Method, route.Pattern, route.Handler)
	}
}

// Handler mounts the table on a new chi router.
func (t *Table) Handler() http.Handler {
	r := chi.NewRouter()
	t.Mount(r)
	return r
}

// SecureRoutes gates every current and future route of t.
func SecureRoutes(t *Table, opts ...Option) *Table {
	t.Secure(Gate(opts...))
	return t
}

func intercepted(method string) bool {
	return slices.Contains(Methods, method)
}
