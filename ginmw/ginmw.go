// Package ginmw runs the net/http middlewares of this module inside a gin
// engine.
package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JeanGrijp/go-permit/csrf"
	"github.com/JeanGrijp/go-permit/guard"
)

// Wrap adapts a net/http middleware to gin. The request seen by the rest of
// the gin chain is the one the middleware passed on, so context values it
// sets stay visible. When the middleware does not call its next handler the
// chain is aborted.
func Wrap(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			// keep gin context in sync with possibly modified *http.Request
			c.Request = r
			c.Next()
		}))
		h.ServeHTTP(c.Writer, c.Request)
		if !called {
			c.Abort()
		}
	}
}

// AllowAll permits every request reaching it.
func AllowAll() gin.HandlerFunc {
	return Wrap(guard.AllowAll)
}

// Gate denies requests that were not permitted upstream.
func Gate(opts ...guard.Option) gin.HandlerFunc {
	return Wrap(guard.Gate(opts...))
}

// CSRF enforces p's checks.
func CSRF(p *csrf.Protector) gin.HandlerFunc {
	return Wrap(p.Protect)
}
