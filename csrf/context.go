package csrf

import (
	"context"
	"net/http"

	"github.com/JeanGrijp/go-permit/httperr"
)

type ctxKey string

const sourceKey ctxKey = "csrf_source_ctx"

// tokenSource holds what is needed to mint tokens for the current request.
type tokenSource struct {
	secret    string
	sessionID string
}

func (s tokenSource) token(url string) (string, error) {
	return GenerateToken(s.secret, s.sessionID, url)
}

func contextWithSource(ctx context.Context, src tokenSource) context.Context {
	return context.WithValue(ctx, sourceKey, src)
}

func sourceFromContext(ctx context.Context) (tokenSource, bool) {
	src, ok := ctx.Value(sourceKey).(tokenSource)
	return src, ok
}

// TokenFunc returns a function minting tokens for the session of the request
// that ctx belongs to. It is only available downstream of Protect.
func TokenFunc(ctx context.Context) (func(url string) (string, error), bool) {
	src, ok := sourceFromContext(ctx)
	if !ok {
		return nil, false
	}
	return src.token, true
}

// Token returns the token for url bound to r's session.
//
// Params:
// - r: a request that passed through Protect.
// - url: request URI the token will be submitted to.
//
// Returns:
// - the token, or an InvalidInput error outside of Protect.
func Token(r *http.Request, url string) (string, error) {
	src, ok := sourceFromContext(r.Context())
	if !ok {
		return "", httperr.Wrap(httperr.KindInvalidInput, nil, "request did not pass through csrf.Protect")
	}
	return src.token(url)
}
