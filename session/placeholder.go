package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// placeholderStore backs sessions that exist only for the current request.
// Saving is a no-op.
type placeholderStore struct{}

func newPlaceholder(name string) *sessions.Session {
	s := sessions.NewSession(placeholderStore{}, name)
	s.IsNew = true
	return s
}

func (placeholderStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return newPlaceholder(name), nil
}

func (placeholderStore) New(r *http.Request, name string) (*sessions.Session, error) {
	return newPlaceholder(name), nil
}

func (placeholderStore) Save(r *http.Request, w http.ResponseWriter, s *sessions.Session) error {
	return nil
}

// IsPlaceholder reports whether s was installed as a request-scoped fallback.
func IsPlaceholder(s *sessions.Session) bool {
	if s == nil {
		return false
	}
	_, ok := s.Store().(placeholderStore)
	return ok
}
