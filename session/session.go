package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	// ValueKey is the session value holding the generated identifier.
	ValueKey = "sid"
	// DefaultName is the session (cookie) name used when none is given.
	DefaultName = "session"

	idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890+/"
	idLength   = 44
)

// ErrNoSession is returned when an identifier is requested for a nil session.
var ErrNoSession = errors.New("no session")

type ctxKey struct{}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s *sessions.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (*sessions.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*sessions.Session)
	return s, ok && s != nil
}

// Resolver loads sessions from a gorilla/sessions store and binds them to the
// request context.
type Resolver struct {
	store  sessions.Store
	name   string
	logger *slog.Logger
}

// NewResolver returns a Resolver reading the session called name from store.
// A nil store is allowed: every request then gets a placeholder session.
func NewResolver(store sessions.Store, name string, logger *slog.Logger) *Resolver {
	if name == "" {
		name = DefaultName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, name: name, logger: logger}
}

// NewCookieResolver returns a Resolver backed by a cookie store. Without key
// pairs a random hash key is generated, which means cookies do not survive a
// restart.
func NewCookieResolver(name string, logger *slog.Logger, keyPairs ...[]byte) *Resolver {
	if len(keyPairs) == 0 {
		keyPairs = [][]byte{securecookie.GenerateRandomKey(32)}
	}
	store := sessions.NewCookieStore(keyPairs...)
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return NewResolver(store, name, logger)
}

// Name returns the session name the resolver reads.
func (res *Resolver) Name() string { return res.name }

// Ensure returns the request's session, loading it on first use and storing it
// in the returned request's context. It never fails: when the store is missing
// or errors out, a request-scoped placeholder is installed instead.
func (res *Resolver) Ensure(w http.ResponseWriter, r *http.Request) (*http.Request, *sessions.Session) {
	if s, ok := FromContext(r.Context()); ok {
		return r, s
	}

	var s *sessions.Session
	if res.store != nil {
		var err error
		// gorilla stores return a fresh session together with decode errors
		s, err = res.store.Get(r, res.name)
		if err != nil {
			res.logger.Warn("session store error",
				slog.String("session", res.name),
				slog.String("url", r.URL.RequestURI()),
				slog.Any("error", err))
		}
	}
	if s == nil {
		res.logger.Warn("no session available, using request-scoped placeholder",
			slog.String("session", res.name),
			slog.String("url", r.URL.RequestURI()))
		s = newPlaceholder(res.name)
	}

	return r.WithContext(WithSession(r.Context(), s)), s
}

// ID returns the identifier of s. The store-assigned ID wins, then a
// previously generated "sid" value. Otherwise a new identifier is generated,
// stored in s and persisted through the session's store; if the store assigns
// an ID while saving, that ID is returned instead.
func ID(w http.ResponseWriter, r *http.Request, s *sessions.Session) (string, error) {
	if s == nil {
		return "", ErrNoSession
	}
	if s.ID != "" {
		return s.ID, nil
	}
	if sid, ok := s.Values[ValueKey].(string); ok && sid != "" {
		return sid, nil
	}

	sid := NewID()
	s.Values[ValueKey] = sid
	if err := s.Save(r, w); err != nil {
		return "", fmt.Errorf("save session %q: %w", s.Name(), err)
	}
	// stores like FilesystemStore assign the ID on first save; later
	// requests resolve to it
	if s.ID != "" {
		return s.ID, nil
	}
	return sid, nil
}

// Regenerate drops the current identifier and issues a new one.
func Regenerate(w http.ResponseWriter, r *http.Request, s *sessions.Session) error {
	if s == nil {
		return ErrNoSession
	}
	s.ID = ""
	s.Values[ValueKey] = NewID()
	return s.Save(r, w)
}

// Destroy clears s and asks its store to delete it.
func Destroy(w http.ResponseWriter, r *http.Request, s *sessions.Session) error {
	if s == nil {
		return ErrNoSession
	}
	for k := range s.Values {
		delete(s.Values, k)
	}
	if s.Options == nil {
		s.Options = &sessions.Options{}
	}
	s.Options.MaxAge = -1
	return s.Save(r, w)
}

// NewID returns a random 44-character identifier over a 64-symbol alphabet.
func NewID() string {
	b := make([]byte, idLength)
	// crypto/rand.Read never returns an error since Go 1.24
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = idAlphabet[b[i]&63]
	}
	return string(b)
}
