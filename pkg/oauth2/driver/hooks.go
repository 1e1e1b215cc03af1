package driver

import "context"

// RedirectConfigurer is implemented by providers needing to tune the
// authorization redirect (scopes, extra query parameters).
type RedirectConfigurer interface {
	ConfigureRedirectRequest(req *RedirectRequest)
}

type RedirectConfigurerFunc func(req *RedirectRequest)

func (fn RedirectConfigurerFunc) ConfigureRedirectRequest(req *RedirectRequest) {
	fn(req)
}

// AccessDenier tells if the error sent back by the provider means the user
// refused to grant access.
type AccessDenier interface {
	AccessDenied() bool
}

type UserResolver interface {
	User(ctx context.Context, fn RequestConfigFunc) (*User, error)
	UserFromToken(ctx context.Context, accessToken string, fn RequestConfigFunc) (*User, error)
}

// Adapter is the request scoped surface of a provider, as used by HTTP
// handlers.
type Adapter interface {
	RedirectConfigurer
	AccessDenier
	UserResolver

	Name() string
	Redirect() error
}

// AdapterFactory creates a provider adapter bound to the current request.
type AdapterFactory func(hc HTTPContext) (Adapter, error)
