package driver

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

type Options struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string

	AuthorizeURL   string
	AccessTokenURL string

	CodeParamName   string
	ErrorParamName  string
	StateParamName  string
	ScopeParamName  string
	ScopesSeparator string

	StateCookieName string
	StateStore      sessions.Store

	HTTPClient *http.Client
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		CodeParamName:   "code",
		ErrorParamName:  "error",
		StateParamName:  "state",
		ScopeParamName:  "scope",
		ScopesSeparator: " ",
		StateCookieName: "oauth_state",
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, fn := range funcs {
		fn(opts)
	}

	return opts
}

func WithClient(clientID, clientSecret, callbackURL string) OptionFunc {
	return func(opts *Options) {
		opts.ClientID = clientID
		opts.ClientSecret = clientSecret
		opts.CallbackURL = callbackURL
	}
}

func WithEndpoints(authorizeURL, accessTokenURL string) OptionFunc {
	return func(opts *Options) {
		opts.AuthorizeURL = authorizeURL
		opts.AccessTokenURL = accessTokenURL
	}
}

func WithCodeParamName(name string) OptionFunc {
	return func(opts *Options) {
		opts.CodeParamName = name
	}
}

func WithErrorParamName(name string) OptionFunc {
	return func(opts *Options) {
		opts.ErrorParamName = name
	}
}

func WithStateParamName(name string) OptionFunc {
	return func(opts *Options) {
		opts.StateParamName = name
	}
}

func WithScopeParamName(name string, separator string) OptionFunc {
	return func(opts *Options) {
		opts.ScopeParamName = name
		opts.ScopesSeparator = separator
	}
}

func WithStateCookieName(name string) OptionFunc {
	return func(opts *Options) {
		opts.StateCookieName = name
	}
}

// WithStateStore sets the store used to keep the CSRF state between the
// redirect and the callback. Without it, states are neither stored nor loaded
// and every callback fails with ErrStateMismatch.
func WithStateStore(store sessions.Store) OptionFunc {
	return func(opts *Options) {
		opts.StateStore = store
	}
}

func WithHTTPClient(client *http.Client) OptionFunc {
	return func(opts *Options) {
		opts.HTTPClient = client
	}
}
