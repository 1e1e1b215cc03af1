package entraid

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/bornholm/entralogin/pkg/oauth2/driver"
	"github.com/markbates/goth"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// GothProvider exposes the Entra ID adapter as a goth.Provider, for
// applications relying on gothic to run the flow.
type GothProvider struct {
	name      string
	config    Config
	endpoints endpoints
	funcs     []driver.OptionFunc
	debug     bool
}

func NewGothProvider(conf Config, funcs ...driver.OptionFunc) *GothProvider {
	conf.Scopes = slices.Clone(conf.Scopes)

	return &GothProvider{
		name:      Name,
		config:    conf,
		endpoints: resolveEndpoints(conf),
		funcs:     funcs,
	}
}

// Name implements goth.Provider.
func (p *GothProvider) Name() string {
	return p.name
}

// SetName implements goth.Provider.
func (p *GothProvider) SetName(name string) {
	p.name = name
}

// Debug implements goth.Provider.
func (p *GothProvider) Debug(debug bool) {
	p.debug = debug
}

func (p *GothProvider) newDriver() *driver.Driver {
	return driver.New(driver.HTTPContext{}, driverOptions(p.config, p.endpoints, p.funcs...)...)
}

// BeginAuth implements goth.Provider.
func (p *GothProvider) BeginAuth(state string) (goth.Session, error) {
	req := p.newDriver().NewRedirectRequest(state)

	configureRedirectRequest(p.config, req)

	authURL, err := req.URL()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &GothSession{
		AuthURL: authURL,
	}, nil
}

// UnmarshalSession implements goth.Provider.
func (p *GothProvider) UnmarshalSession(data string) (goth.Session, error) {
	sess := &GothSession{}

	if err := json.NewDecoder(strings.NewReader(data)).Decode(sess); err != nil {
		return nil, errors.WithStack(err)
	}

	return sess, nil
}

// FetchUser implements goth.Provider.
func (p *GothProvider) FetchUser(session goth.Session) (goth.User, error) {
	sess, ok := session.(*GothSession)
	if !ok {
		return goth.User{}, errors.Errorf("unexpected session type '%T'", session)
	}

	user := goth.User{
		Provider:     p.Name(),
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    sess.ExpiresAt,
		IDToken:      sess.IDToken,
	}

	if user.AccessToken == "" {
		return user, errors.Errorf("%s cannot get user information without accessToken", p.name)
	}

	ctx := context.Background()

	req := p.newDriver().HTTPClient(p.endpoints.UserInfoURL).Bearer(sess.AccessToken)

	original, err := fetchUserInfo(ctx, req, nil)
	if err != nil {
		return user, errors.WithStack(err)
	}

	info, err := decodeUserInfo(original)
	if err != nil {
		return user, errors.WithStack(err)
	}

	// Tokens held by goth sessions always come from a code exchange
	canonical := info.authorizationCodeUser(original, driver.AccessToken{
		Token: sess.AccessToken,
		Type:  driver.TokenTypeBearer,
	})

	user.UserID = canonical.ID
	user.Name = canonical.Name
	user.NickName = canonical.NickName
	user.Email = canonical.Email
	user.AvatarURL = canonical.AvatarURL
	user.FirstName = info.GivenName
	user.LastName = info.FamilyName
	user.RawData = original

	return user, nil
}

// RefreshTokenAvailable implements goth.Provider.
func (p *GothProvider) RefreshTokenAvailable() bool {
	return false
}

// RefreshToken implements goth.Provider.
func (p *GothProvider) RefreshToken(refreshToken string) (*oauth2.Token, error) {
	return nil, errors.Errorf("%s does not support refresh tokens", p.name)
}

var _ goth.Provider = &GothProvider{}

type GothSession struct {
	AuthURL      string    `json:"authUrl"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	IDToken      string    `json:"idToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// GetAuthURL implements goth.Session.
func (s *GothSession) GetAuthURL() (string, error) {
	if s.AuthURL == "" {
		return "", errors.New(goth.NoAuthUrlErrorMessage)
	}

	return s.AuthURL, nil
}

// Authorize implements goth.Session.
func (s *GothSession) Authorize(provider goth.Provider, params goth.Params) (string, error) {
	p, ok := provider.(*GothProvider)
	if !ok {
		return "", errors.Errorf("unexpected provider type '%T'", provider)
	}

	if errorCode := params.Get("error"); errorCode != "" {
		if errorCode == AccessDeniedError {
			return "", errors.WithStack(driver.ErrAccessDenied)
		}

		return "", errors.WithStack(&driver.ProviderError{
			Code:        errorCode,
			Description: params.Get("error_description"),
		})
	}

	code := params.Get("code")
	if code == "" {
		return "", errors.WithStack(driver.ErrMissingCode)
	}

	token, err := p.newDriver().Exchange(context.Background(), code)
	if err != nil {
		return "", errors.WithStack(err)
	}

	s.AccessToken = token.Token
	s.RefreshToken = token.RefreshToken
	s.IDToken = token.IDToken
	s.ExpiresAt = token.Expiry

	return token.Token, nil
}

// Marshal implements goth.Session.
func (s *GothSession) Marshal() string {
	data, _ := json.Marshal(s)
	return string(data)
}

var _ goth.Session = &GothSession{}
