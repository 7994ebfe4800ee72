// Package csrf provides CSRF protection for Go net/http servers using tokens
// derived from the session.
//
// How it works
//   - Every request gets a session (see package session) and a session id.
//   - A token is base64(HMAC-SHA1(secret+sessionID, url)). It is bound to the
//     session and to the URL the request will be sent to, so a form rendered
//     for /transfer cannot be replayed against /delete.
//   - Exempt requests (by default every GET) pass through. All others must
//     carry the token for their own request URI in the X-Csrf header or the
//     _csrf form field. A missing or incorrect token is an Unauthorized error
//     handed to the configured error handler.
//
// # Configuration
//
// All behavior is driven by Config. Key fields include:
//   - Secret (default: "secret", which must be overridden)
//   - HeaderName (default: "X-Csrf") and FormField (default: "_csrf")
//   - IgnoreMethods (default: GET), IgnoreURLs, IgnorePatterns
//   - Sessions, the session resolver tokens are bound to
//   - NewError and ErrorHandler, see package httperr
//   - EnforceOriginCheck and AllowedOrigin (empty means use the request host)
//
// Typical usage
//
//	p := csrf.New(csrf.Config{
//	    Secret:   os.Getenv("CSRF_SECRET"),
//	    Sessions: session.NewCookieResolver("session", logger, hashKey),
//	})
//	http.ListenAndServe(":8080", p.Protect(appMux))
//
// Templates stamp forms through FuncMap:
//
//	tmpl.Funcs(csrf.FuncMap(r)).Execute(w, data)
//	// <input type="hidden" name="_csrf" value="{{ csrf "/transfer" }}">
//
// # Limitations
//
// Tokens carry no timestamp or nonce. A token stays valid for its session and
// URL until the session id changes; use session.Regenerate on login and
// logout to cut it off.
package csrf
