package setup

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bornholm/entralogin/internal/authn/oauth2"
	"github.com/bornholm/entralogin/internal/config"
	"github.com/bornholm/entralogin/pkg/oauth2/driver"
	"github.com/bornholm/entralogin/pkg/oauth2/entraid"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

func NewOAuth2HandlerFromConfig(ctx context.Context, conf *config.Config) (*oauth2.Handler, error) {
	// Configure state store

	keyPairs := make([][]byte, 0)
	if len(conf.HTTP.Session.Keys) == 0 {
		key, err := getRandomBytes(32)
		if err != nil {
			return nil, errors.Wrap(err, "could not generate cookie signing key")
		}

		keyPairs = append(keyPairs, key)
	} else {
		for _, k := range conf.HTTP.Session.Keys {
			keyPairs = append(keyPairs, []byte(k))
		}
	}

	stateStore := sessions.NewCookieStore(keyPairs...)

	if conf.HTTP.Session.Cookie.MaxAge != nil {
		stateStore.MaxAge(int(time.Duration(*conf.HTTP.Session.Cookie.MaxAge) / time.Second))
	}

	stateStore.Options.Path = string(conf.HTTP.Session.Cookie.Path)
	stateStore.Options.HttpOnly = bool(conf.HTTP.Session.Cookie.HTTPOnly)
	stateStore.Options.Secure = bool(conf.HTTP.Session.Cookie.Secure)
	stateStore.Options.SameSite = http.SameSiteLaxMode

	// Configure providers

	opts := []oauth2.OptionFunc{
		oauth2.WithPrefix("/auth"),
	}

	entraID := conf.Auth.Providers.EntraID

	if entraID.Key != "" && entraID.Secret != "" {
		factory := entraid.NewFactory(
			entraid.Config{
				ClientID:       string(entraID.Key),
				ClientSecret:   string(entraID.Secret),
				CallbackURL:    fmt.Sprintf("%s/auth/providers/%s/callback", conf.HTTP.BaseURL, entraid.Name),
				TenantID:       string(entraID.Tenant),
				AuthorizeURL:   string(entraID.AuthorizeURL),
				AccessTokenURL: string(entraID.TokenURL),
				UserInfoURL:    string(entraID.UserInfoURL),
				Scopes:         entraID.Scopes,
			},
			driver.WithStateStore(stateStore),
		)

		opts = append(opts, oauth2.WithProvider(entraid.Name, string(entraID.Label), string(entraID.Icon), factory))
	} else {
		slog.WarnContext(ctx, "entraid provider disabled, key or secret missing")
	}

	return oauth2.NewHandler(opts...), nil
}

func getRandomBytes(n int) ([]byte, error) {
	data := make([]byte, n)

	read, err := rand.Read(data)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if read != n {
		return nil, errors.Errorf("could not read %d bytes", n)
	}

	return data, nil
}
