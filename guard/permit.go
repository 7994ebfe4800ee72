package guard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/JeanGrijp/go-permit/httperr"
)

type ctxKey struct{}

// Permit returns r flagged as allowed to proceed past Gate.
func Permit(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, true))
}

// Permitted reports whether r was flagged by Permit.
func Permitted(r *http.Request) bool {
	ok, _ := r.Context().Value(ctxKey{}).(bool)
	return ok
}

// AllowAll permits every request.
func AllowAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, Permit(r))
	})
}

type options struct {
	newError httperr.Constructor
	onError  httperr.Handler
	logger   *slog.Logger
}

// Option configures Gate.
type Option func(*options)

// WithErrorConstructor sets the constructor of the error raised for requests
// that were not permitted.
func WithErrorConstructor(c httperr.Constructor) Option {
	return func(o *options) { o.newError = c }
}

// WithErrorHandler sets the error continuation.
func WithErrorHandler(h httperr.Handler) Option {
	return func(o *options) { o.onError = h }
}

// WithLogger sets the logger rejected requests are reported to at debug
// level. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Gate returns middleware letting permitted requests through and handing
// every other request to the error handler as an Unauthorized error.
func Gate(opts ...Option) func(http.Handler) http.Handler {
	o := options{
		newError: httperr.New,
		onError:  httperr.Default,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if Permitted(r) {
				next.ServeHTTP(w, r)
				return
			}
			o.logger.Debug("request not permitted",
				slog.String("method", r.Method), slog.String("url", r.URL.RequestURI()))
			o.onError(w, r, o.newError(httperr.KindUnauthorized, r, "attempted invocation without a permit"))
		})
	}
}
