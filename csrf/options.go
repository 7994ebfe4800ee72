package csrf

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/JeanGrijp/go-permit/httperr"
	"github.com/JeanGrijp/go-permit/session"
)

// DefaultSecret is the fallback HMAC secret. It is public knowledge; always
// configure your own.
const DefaultSecret = "secret"

type Config struct {
	// Secret is prefixed to the session id to form the HMAC key.
	Secret string

	// Token transport
	HeaderName string // default: "X-Csrf"
	FormField  string // default: "_csrf"

	// Exemptions. IgnoreURLs and IgnorePatterns are matched against the
	// request URI (path and query).
	IgnoreMethods  []string // default: GET
	IgnoreURLs     []string
	IgnorePatterns []*regexp.Regexp

	// Extra security
	EnforceOriginCheck bool
	AllowedOrigin      string // if empty, uses r.Host

	// Sessions resolves the session id tokens are bound to. Defaults to a
	// resolver without a store, so every request gets a placeholder session.
	Sessions *session.Resolver

	NewError     httperr.Constructor
	ErrorHandler httperr.Handler
	Logger       *slog.Logger
}

type Protector struct {
	cfg Config
}

func New(cfg Config) *Protector {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Secret == "" {
		cfg.Logger.Warn("csrf: using the default secret, configure one for production")
		cfg.Secret = DefaultSecret
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Csrf"
	}
	if cfg.FormField == "" {
		cfg.FormField = "_csrf"
	}
	if cfg.IgnoreMethods == nil {
		cfg.IgnoreMethods = []string{http.MethodGet}
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewResolver(nil, "", cfg.Logger)
	}
	if cfg.NewError == nil {
		cfg.NewError = httperr.New
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = httperr.Default
	}
	return &Protector{cfg: cfg}
}

// Config returns the effective configuration, defaults included.
func (p *Protector) Config() Config {
	return p.cfg
}
