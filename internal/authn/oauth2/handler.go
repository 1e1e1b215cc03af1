package oauth2

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bornholm/entralogin/internal/authn"
	"github.com/bornholm/entralogin/internal/authn/bearer"
	"github.com/bornholm/entralogin/internal/ui"
	"github.com/bornholm/entralogin/pkg/log"
	"github.com/bornholm/entralogin/pkg/oauth2/driver"
	"github.com/pkg/errors"
)

type Provider struct {
	ID    string
	Label string
	Icon  string

	factory driver.AdapterFactory
}

type Handler struct {
	mux       *http.ServeMux
	providers []Provider
	prefix    string
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func NewHandler(funcs ...OptionFunc) *Handler {
	opts := NewOptions(funcs...)
	h := &Handler{
		mux:       http.NewServeMux(),
		providers: opts.Providers,
		prefix:    opts.Prefix,
	}

	withProvider := withContextProvider(h.providers)

	bearerAuth := authn.Chain(
		authn.WithAuthenticators(bearer.NewAuthenticator(bearer.UserResolverFunc(h.resolveBearerUser))),
		authn.WithUnauthorizedHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer.Challenge(w, "", "missing bearer token")
		})),
		authn.WithOnError(h.handleBearerError),
	)

	h.mux.HandleFunc(fmt.Sprintf("GET %s/login", h.prefix), h.getLoginPage)
	h.mux.Handle(fmt.Sprintf("GET %s/providers/{provider}", h.prefix), withProvider(http.HandlerFunc(h.handleProvider)))
	h.mux.Handle(fmt.Sprintf("GET %s/providers/{provider}/callback", h.prefix), withProvider(http.HandlerFunc(h.handleProviderCallback)))
	h.mux.Handle(fmt.Sprintf("GET %s/providers/{provider}/me", h.prefix), withProvider(bearerAuth(http.HandlerFunc(h.handleMe))))

	return h
}

func (h *Handler) handleProvider(w http.ResponseWriter, r *http.Request) {
	adapter, err := newContextAdapter(w, r)
	if err != nil {
		slog.ErrorContext(r.Context(), "could not create provider adapter", log.Error(errors.WithStack(err)))
		renderError(w, r, http.StatusInternalServerError, "The identity provider could not be initialized.")
		return
	}

	if err := adapter.Redirect(); err != nil {
		slog.ErrorContext(r.Context(), "could not redirect to provider", log.Error(errors.WithStack(err)))
		renderError(w, r, http.StatusInternalServerError, "The authorization request could not be started.")
		return
	}
}

func (h *Handler) handleProviderCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	adapter, err := newContextAdapter(w, r)
	if err != nil {
		slog.ErrorContext(ctx, "could not create provider adapter", log.Error(errors.WithStack(err)))
		renderError(w, r, http.StatusInternalServerError, "The identity provider could not be initialized.")
		return
	}

	if adapter.AccessDenied() {
		slog.InfoContext(ctx, "access denied by user", slog.String("provider", adapter.Name()))
		renderError(w, r, http.StatusForbidden, "You refused to grant access to your account.")
		return
	}

	driverUser, err := adapter.User(ctx, nil)
	if err != nil {
		statusCode, message := callbackErrorStatus(err)
		slog.ErrorContext(ctx, "could not complete user auth", slog.Int("status", statusCode), log.ScrubbedURL("url", r.URL.String()), log.Error(errors.WithStack(err)))
		renderError(w, r, statusCode, message)
		return
	}

	user := &User{
		User:     driverUser,
		Provider: adapter.Name(),
	}

	ctx = log.WithAttrs(ctx, slog.String("user", fmt.Sprintf("%s@%s", user.UserSubject(), user.UserProvider())))

	slog.InfoContext(ctx, "authenticated user", slog.String("email", user.Email))

	data := struct {
		ui.HeadTemplateData
		Prefix   string
		Provider string
		User     *driver.User
	}{
		HeadTemplateData: ui.HeadTemplateData{
			PageTitle: "Profile",
		},
		Prefix:   h.prefix,
		Provider: user.Provider,
		User:     user.User,
	}

	render(w, r, http.StatusOK, "profile", data)
}

func callbackErrorStatus(err error) (int, string) {
	var providerErr *driver.ProviderError

	switch {
	case errors.Is(err, driver.ErrAccessDenied):
		return http.StatusForbidden, "You refused to grant access to your account."
	case errors.Is(err, driver.ErrStateMismatch):
		return http.StatusBadRequest, "The authorization response does not match any pending request."
	case errors.Is(err, driver.ErrMissingCode):
		return http.StatusBadRequest, "The authorization response does not contain any code."
	case errors.As(err, &providerErr):
		return http.StatusUnauthorized, fmt.Sprintf("The identity provider returned an error: %s", providerErr.Error())
	default:
		return http.StatusBadGateway, "The identity provider could not be reached."
	}
}

// resolveBearerUser binds the adapter to a token context: the state cookie
// of a pending login is left untouched.
func (h *Handler) resolveBearerUser(r *http.Request, token string) (authn.User, error) {
	provider, err := contextProvider(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	adapter, err := provider.newAdapter(driver.NewTokenContext(r))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	driverUser, err := adapter.UserFromToken(r.Context(), token, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &User{
		User:     driverUser,
		Provider: adapter.Name(),
	}, nil
}

func (h *Handler) handleBearerError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var statusErr *driver.StatusError
	if errors.Is(err, bearer.ErrInvalidToken) || (errors.As(err, &statusErr) && isTokenRejection(statusErr.StatusCode)) {
		slog.WarnContext(ctx, "bearer token rejected", log.Error(err))
		bearer.Challenge(w, "invalid_token", "the access token was rejected by the identity provider")
		return
	}

	slog.ErrorContext(ctx, "could not resolve bearer token user", log.Error(err))
	bearer.WriteError(w, http.StatusBadGateway, "upstream_error", "the identity provider could not be reached")
}

func isTokenRejection(statusCode int) bool {
	return statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authn.ContextUserAs[*User](ctx)
	if err != nil {
		slog.ErrorContext(ctx, "could not retrieve user from context", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(user.User); err != nil {
		slog.ErrorContext(ctx, "could not encode user", log.Error(errors.WithStack(err)))
	}
}

var _ http.Handler = &Handler{}

type contextKey string

const contextKeyProvider contextKey = "provider"

func withContextProvider(providers []Provider) func(http.Handler) http.Handler {
	index := make(map[string]Provider, len(providers))
	for _, p := range providers {
		index[p.ID] = p
	}

	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			provider, exists := index[r.PathValue("provider")]
			if !exists || provider.factory == nil {
				http.NotFound(w, r)
				return
			}

			r = r.WithContext(context.WithValue(r.Context(), contextKeyProvider, provider))
			h.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

func contextProvider(r *http.Request) (Provider, error) {
	provider, ok := r.Context().Value(contextKeyProvider).(Provider)
	if !ok {
		return Provider{}, errors.New("no provider in context")
	}

	return provider, nil
}

func (p Provider) newAdapter(hc driver.HTTPContext) (driver.Adapter, error) {
	adapter, err := p.factory(hc)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create adapter for provider '%s'", p.ID)
	}

	return adapter, nil
}

func newContextAdapter(w http.ResponseWriter, r *http.Request) (driver.Adapter, error) {
	provider, err := contextProvider(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	adapter, err := provider.newAdapter(driver.HTTPContext{Response: w, Request: r})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return adapter, nil
}
