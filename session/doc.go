// Package session resolves a stable per-client identifier from a
// gorilla/sessions store.
//
// The identifier is the session's own ID when the store assigns one
// (filesystem and database stores do), otherwise a 44-character random value
// kept in the session under the "sid" key. Cookie stores never assign an ID,
// so for them the "sid" value is what ends up in the cookie.
//
// When no store is configured, or the store cannot produce a session, the
// Resolver installs a placeholder session that lives for one request only.
// Code downstream can keep calling ID, Regenerate and Destroy on it without
// special cases. Tokens derived from a placeholder id cannot be validated on a
// later request, so the fallback is logged.
//
// Typical usage
//
//	res := session.NewCookieResolver("session", logger, hashKey, blockKey)
//	r, s := res.Ensure(w, r)
//	sid, err := session.ID(w, r, s)
package session
