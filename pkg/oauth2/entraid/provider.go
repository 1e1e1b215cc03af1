// Package entraid implements the OAuth2 authorization code flow against
// Microsoft Entra ID on top of the generic driver package.
package entraid

import (
	"context"
	"slices"
	"strings"

	"github.com/bornholm/entralogin/pkg/oauth2/driver"
	"github.com/pkg/errors"
)

const (
	Name = "entraid"

	TenantPlaceholder = "{tenant}"

	DefaultAuthorizeURL   = "https://login.microsoftonline.com/{tenant}/oauth2/v2.0/authorize"
	DefaultAccessTokenURL = "https://login.microsoftonline.com/{tenant}/oauth2/v2.0/token"
	DefaultUserInfoURL    = "https://graph.microsoft.com/oidc/userinfo"

	// AccessDeniedError is the value of the error parameter sent back when
	// the user refuses to grant access.
	AccessDeniedError = "user_denied"

	StateCookieName = "entraid_oauth_state"
)

var DefaultScopes = []string{"openid", "profile", "User.Read", "email"}

type Config struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	TenantID     string

	// Optional endpoint overrides
	AuthorizeURL   string
	AccessTokenURL string
	UserInfoURL    string

	Scopes []string
}

type endpoints struct {
	AuthorizeURL   string
	AccessTokenURL string
	UserInfoURL    string
}

func resolveEndpoints(conf Config) endpoints {
	e := endpoints{
		AuthorizeURL:   DefaultAuthorizeURL,
		AccessTokenURL: DefaultAccessTokenURL,
		UserInfoURL:    DefaultUserInfoURL,
	}

	if conf.AuthorizeURL != "" {
		e.AuthorizeURL = conf.AuthorizeURL
	}

	if conf.AccessTokenURL != "" {
		e.AccessTokenURL = conf.AccessTokenURL
	}

	if conf.UserInfoURL != "" {
		e.UserInfoURL = conf.UserInfoURL
	}

	e.AuthorizeURL = strings.Replace(e.AuthorizeURL, TenantPlaceholder, conf.TenantID, 1)
	e.AccessTokenURL = strings.Replace(e.AccessTokenURL, TenantPlaceholder, conf.TenantID, 1)

	return e
}

func driverOptions(conf Config, e endpoints, funcs ...driver.OptionFunc) []driver.OptionFunc {
	return append([]driver.OptionFunc{
		driver.WithClient(conf.ClientID, conf.ClientSecret, conf.CallbackURL),
		driver.WithEndpoints(e.AuthorizeURL, e.AccessTokenURL),
		driver.WithStateCookieName(StateCookieName),
	}, funcs...)
}

// Provider is the request scoped Entra ID adapter.
type Provider struct {
	config    Config
	endpoints endpoints
	driver    *driver.Driver
}

// New binds the tenant specific endpoints and loads the state left by a
// previous redirect, if any.
func New(hc driver.HTTPContext, conf Config, funcs ...driver.OptionFunc) (*Provider, error) {
	conf.Scopes = slices.Clone(conf.Scopes)

	e := resolveEndpoints(conf)

	p := &Provider{
		config:    conf,
		endpoints: e,
		driver:    driver.New(hc, driverOptions(conf, e, funcs...)...),
	}

	if err := p.driver.LoadState(); err != nil {
		return nil, errors.WithStack(err)
	}

	return p, nil
}

// NewFactory returns a driver.AdapterFactory creating a new provider for each
// request.
func NewFactory(conf Config, funcs ...driver.OptionFunc) driver.AdapterFactory {
	return func(hc driver.HTTPContext) (driver.Adapter, error) {
		p, err := New(hc, conf, funcs...)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return p, nil
	}
}

func (p *Provider) Name() string {
	return Name
}

func (p *Provider) AuthorizeURL() string {
	return p.endpoints.AuthorizeURL
}

func (p *Provider) AccessTokenURL() string {
	return p.endpoints.AccessTokenURL
}

func (p *Provider) UserInfoURL() string {
	return p.endpoints.UserInfoURL
}

// ConfigureRedirectRequest implements driver.RedirectConfigurer.
func (p *Provider) ConfigureRedirectRequest(req *driver.RedirectRequest) {
	configureRedirectRequest(p.config, req)
}

func configureRedirectRequest(conf Config, req *driver.RedirectRequest) {
	if len(conf.Scopes) == 0 {
		req.Scopes(DefaultScopes...)
	} else {
		req.Scopes(conf.Scopes...)
	}

	req.Param("response_type", "code")
}

// AccessDenied implements driver.AccessDenier.
func (p *Provider) AccessDenied() bool {
	return p.driver.ErrorCode() == AccessDeniedError
}

func (p *Provider) RedirectURL() (string, error) {
	url, err := p.driver.RedirectURL(p)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return url, nil
}

func (p *Provider) Redirect() error {
	return errors.WithStack(p.driver.Redirect(p))
}

// AccessToken exchanges the authorization code of the current request.
func (p *Provider) AccessToken(ctx context.Context) (*driver.AccessToken, error) {
	token, err := p.driver.AccessToken(ctx, p)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return token, nil
}

// User implements driver.UserResolver.
func (p *Provider) User(ctx context.Context, fn driver.RequestConfigFunc) (*driver.User, error) {
	token, err := p.AccessToken(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	req := p.driver.HTTPClient(p.endpoints.UserInfoURL).Bearer(token.Token)

	original, err := fetchUserInfo(ctx, req, fn)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	info, err := decodeUserInfo(original)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return info.authorizationCodeUser(original, *token), nil
}

// UserFromToken implements driver.UserResolver.
func (p *Provider) UserFromToken(ctx context.Context, accessToken string, fn driver.RequestConfigFunc) (*driver.User, error) {
	req := p.driver.HTTPClient(p.endpoints.UserInfoURL).Bearer(accessToken)

	original, err := fetchUserInfo(ctx, req, fn)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	info, err := decodeUserInfo(original)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	token := driver.AccessToken{
		Token: accessToken,
		Type:  driver.TokenTypeBearer,
	}

	return info.accessTokenUser(original, token), nil
}

var (
	_ driver.Adapter = &Provider{}
)
