package csrf

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/JeanGrijp/go-permit/httperr"
)

// GenerateToken derives the token bound to sessionID and url:
// base64(HMAC-SHA1(key = secret+sessionID, message = url)).
// The result is deterministic: the same inputs always give the same token.
//
// Params:
// - secret: process-wide secret prefixed to the HMAC key.
// - sessionID: identifier of the session the token is bound to.
// - url: request URI (path and query) the token is valid for.
//
// Returns:
// - the token, or an InvalidInput error when sessionID or url is empty.
func GenerateToken(secret, sessionID, url string) (string, error) {
	if sessionID == "" {
		return "", httperr.Wrap(httperr.KindInvalidInput, nil, "no session id provided")
	}
	if url == "" {
		return "", httperr.Wrap(httperr.KindInvalidInput, nil, "no url provided")
	}

	mac := hmac.New(sha1.New, []byte(secret+sessionID))
	mac.Write([]byte(url))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// VerifyToken recomputes the expected token and compares it with presented.
func VerifyToken(secret, sessionID, url, presented string) (bool, error) {
	expected, err := GenerateToken(secret, sessionID, url)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1, nil
}

// extractClientToken returns the token from the header, falling back to the
// form body field.
func extractClientToken(r *http.Request, headerName, formField string) string {
	if h := r.Header.Get(headerName); h != "" {
		return h
	}
	// PostFormValue handles both urlencoded and multipart bodies
	return r.PostFormValue(formField)
}

// sameSite reports whether originOrRef points at allowedHost.
func sameSite(originOrRef, allowedHost string) bool {
	u, err := url.Parse(originOrRef)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, allowedHost)
}
