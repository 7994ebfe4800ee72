package csrf

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/JeanGrijp/go-permit/httperr"
	"github.com/JeanGrijp/go-permit/session"
)

// Protect wraps the given next http.Handler and enforces CSRF protection.
//
// Behavior:
//   - Resolves the session (falling back to a placeholder) and its id, and
//     makes the token helper available to downstream handlers.
//   - Exempt methods, URLs and URL patterns pass straight through.
//   - Everything else must present the token for its own URL in the header
//     or the form field.
//
// Failures are handed to the configured ErrorHandler; next is not called.
//
// Params:
// - next: downstream handler to be executed after CSRF checks pass.
//
// Returns:
// - An http.Handler that performs the CSRF logic before delegating to next.
func (p *Protector) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, err := p.Validate(w, r)
		if err != nil {
			p.cfg.ErrorHandler(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Validate runs the CSRF checks for r. The returned request carries the
// session and the token helper in its context and should be used downstream
// even when err is non-nil.
func (p *Protector) Validate(w http.ResponseWriter, r *http.Request) (*http.Request, error) {
	cfg := p.cfg

	// 1) session and its id; a new id is persisted before any body is written
	r, s := cfg.Sessions.Ensure(w, r)
	sid, idErr := session.ID(w, r, s)
	if idErr == nil {
		r = r.WithContext(contextWithSource(r.Context(), tokenSource{secret: cfg.Secret, sessionID: sid}))
	}

	// 2) exemptions never fail, even without a session id
	if p.Skip(r) {
		if idErr != nil {
			cfg.Logger.Warn("csrf: no session id for exempt request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.RequestURI()),
				slog.Any("error", idErr))
		}
		return r, nil
	}
	if idErr != nil {
		return r, fmt.Errorf("csrf: resolve session id: %w", idErr)
	}

	// 3) Origin/Referer validation (if enabled)
	if cfg.EnforceOriginCheck {
		if err := validateOriginOrReferer(r, cfg.AllowedOrigin); err != nil {
			return r, cfg.NewError(httperr.KindUnauthorized, r, err.Error())
		}
	}

	// 4) extract client-provided token (header or form)
	clientToken := extractClientToken(r, cfg.HeaderName, cfg.FormField)
	if clientToken == "" {
		return r, cfg.NewError(httperr.KindUnauthorized, r, "no csrf token received")
	}

	// 5) recompute and compare
	ok, err := VerifyToken(cfg.Secret, sid, r.URL.RequestURI(), clientToken)
	if err != nil {
		return r, err
	}
	if !ok {
		return r, cfg.NewError(httperr.KindUnauthorized, r, "incorrect csrf token")
	}
	return r, nil
}

// Skip reports whether r is exempt from CSRF checks.
func (p *Protector) Skip(r *http.Request) bool {
	cfg := p.cfg

	if slices.ContainsFunc(cfg.IgnoreMethods, func(m string) bool { return strings.EqualFold(m, r.Method) }) {
		cfg.Logger.Debug("skipping csrf checks for method",
			slog.String("method", r.Method), slog.String("url", r.URL.RequestURI()))
		return true
	}

	u := r.URL.RequestURI()
	if slices.Contains(cfg.IgnoreURLs, u) ||
		slices.ContainsFunc(cfg.IgnorePatterns, func(re *regexp.Regexp) bool { return re.MatchString(u) }) {
		cfg.Logger.Info("skipping csrf checks", slog.String("method", r.Method), slog.String("url", u))
		return true
	}
	return false
}

// TokenHandler returns an HTTP handler that writes a CSRF token for the URL
// given in the "url" query parameter, or for the request path when it is
// absent. This is useful for SPAs to fetch the token and attach it to a later
// request. It must be mounted behind Protect.
//
// Returns:
// - http.Handler that responds with the token in the response body (text/plain).
func (p *Protector) TokenHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("url")
		if target == "" {
			target = r.URL.Path
		}
		tok, err := Token(r, target)
		if err != nil {
			p.cfg.ErrorHandler(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(tok))
	})
}

// validateOriginOrReferer checks whether the request is same-site according to
// the allowed host policy. When allowed is empty, it falls back to r.Host.
// It prefers the Origin header; if empty, it falls back to Referer.
//
// Params:
//   - r: the incoming request containing Origin/Referer headers.
//   - allowed: the allowed host (domain[:port]) to be considered same-site;
//     if empty, r.Host is used.
//
// Returns:
// - nil when origin/referrer is acceptable; otherwise an error describing the issue.
func validateOriginOrReferer(r *http.Request, allowed string) error {
	host := allowed
	if host == "" {
		host = r.Host
	}

	origin := r.Header.Get("Origin")
	ref := r.Header.Get("Referer")

	if origin == "" && ref == "" {
		return errors.New("no origin/referer")
	}
	if origin != "" && !sameSite(origin, host) {
		return errors.New("bad origin")
	}
	if origin == "" && ref != "" && !sameSite(ref, host) {
		return errors.New("bad referer")
	}
	return nil
}
