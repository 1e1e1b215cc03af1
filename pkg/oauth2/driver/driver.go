package driver

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// HTTPContext is the request/response pair a driver is bound to.
type HTTPContext struct {
	Response http.ResponseWriter
	Request  *http.Request
}

// NewTokenContext returns an HTTPContext for requests carrying an access
// token. Drivers bound to it never read nor clear the state cookie and cannot
// redirect.
func NewTokenContext(r *http.Request) HTTPContext {
	return HTTPContext{Request: r}
}

// Driver implements the generic parts of the OAuth2 authorization code flow.
// It knows nothing about a specific provider: providers pass themselves as
// hooks to the operations needing them.
type Driver struct {
	opts  *Options
	hc    HTTPContext
	state string
}

func New(hc HTTPContext, funcs ...OptionFunc) *Driver {
	return &Driver{
		opts: NewOptions(funcs...),
		hc:   hc,
	}
}

func (d *Driver) Options() Options {
	return *d.opts
}

// LoadState reads the state stored by a previous redirect and clears it from
// the user agent. It must be called before AccessToken. It is a no-op without
// a response to clear the cookie on.
func (d *Driver) LoadState() error {
	if d.opts.StateStore == nil || d.hc.Request == nil || d.hc.Response == nil {
		return nil
	}

	state, err := loadState(d.opts.StateStore, d.opts.StateCookieName, d.hc.Response, d.hc.Request)
	if err != nil {
		return errors.Wrap(err, "could not load state")
	}

	d.state = state

	return nil
}

func (d *Driver) State() string {
	return d.state
}

// Input returns the value of the given query parameter of the inbound request.
func (d *Driver) Input(name string) string {
	if d.hc.Request == nil {
		return ""
	}

	return d.hc.Request.URL.Query().Get(name)
}

func (d *Driver) Code() string {
	return d.Input(d.opts.CodeParamName)
}

func (d *Driver) HasCode() bool {
	return d.Code() != ""
}

func (d *Driver) ErrorCode() string {
	return d.Input(d.opts.ErrorParamName)
}

func (d *Driver) HasError() bool {
	return d.ErrorCode() != ""
}

func (d *Driver) StateMisMatch() bool {
	return d.state == "" || d.state != d.Input(d.opts.StateParamName)
}

// NewRedirectRequest returns a redirect request prefilled with the client
// parameters.
func (d *Driver) NewRedirectRequest(state string) *RedirectRequest {
	req := NewRedirectRequest(d.opts.AuthorizeURL, d.opts.ScopeParamName, d.opts.ScopesSeparator)

	req.Param("client_id", d.opts.ClientID)
	req.Param("redirect_uri", d.opts.CallbackURL)

	if state != "" {
		req.Param(d.opts.StateParamName, state)
	}

	return req
}

// RedirectURL generates a new state, persists it and returns the
// authorization URL.
func (d *Driver) RedirectURL(configurer RedirectConfigurer) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", errors.WithStack(err)
	}

	if d.opts.StateStore != nil {
		if d.hc.Response == nil || d.hc.Request == nil {
			return "", errors.WithStack(ErrNoResponse)
		}

		if err := storeState(d.opts.StateStore, d.opts.StateCookieName, state, d.hc.Response, d.hc.Request); err != nil {
			return "", errors.Wrap(err, "could not store state")
		}
	}

	req := d.NewRedirectRequest(state)

	if configurer != nil {
		configurer.ConfigureRedirectRequest(req)
	}

	url, err := req.URL()
	if err != nil {
		return "", errors.WithStack(err)
	}

	return url, nil
}

func (d *Driver) Redirect(configurer RedirectConfigurer) error {
	url, err := d.RedirectURL(configurer)
	if err != nil {
		return errors.WithStack(err)
	}

	http.Redirect(d.hc.Response, d.hc.Request, url, http.StatusFound)

	return nil
}

// AccessToken validates the callback request and exchanges the authorization
// code for an access token.
func (d *Driver) AccessToken(ctx context.Context, denier AccessDenier) (*AccessToken, error) {
	if denier != nil && denier.AccessDenied() {
		return nil, errors.WithStack(ErrAccessDenied)
	}

	if d.HasError() {
		return nil, errors.WithStack(&ProviderError{
			Code:        d.ErrorCode(),
			Description: d.Input("error_description"),
		})
	}

	if d.StateMisMatch() {
		return nil, errors.WithStack(ErrStateMismatch)
	}

	if !d.HasCode() {
		return nil, errors.WithStack(ErrMissingCode)
	}

	token, err := d.Exchange(ctx, d.Code())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return token, nil
}

// Exchange trades the given authorization code at the token endpoint.
func (d *Driver) Exchange(ctx context.Context, code string) (*AccessToken, error) {
	config := d.OAuth2Config()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, d.opts.HTTPClient)

	token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "could not exchange authorization code")
	}

	return NewAccessToken(token), nil
}

func (d *Driver) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     d.opts.ClientID,
		ClientSecret: d.opts.ClientSecret,
		RedirectURL:  d.opts.CallbackURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   d.opts.AuthorizeURL,
			TokenURL:  d.opts.AccessTokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// HTTPClient returns a request builder targeting the given URL.
func (d *Driver) HTTPClient(url string) *APIRequest {
	return NewAPIRequest(d.opts.HTTPClient, url)
}
