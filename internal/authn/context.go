package authn

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNoUser = errors.New("no user in context")

type contextKey string

const contextKeyUser contextKey = "authnUser"

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, contextKeyUser, user)
}

func ContextUser(ctx context.Context) (User, error) {
	user, ok := ctx.Value(contextKeyUser).(User)
	if !ok {
		return nil, errors.WithStack(ErrNoUser)
	}

	return user, nil
}

// ContextUserAs returns the context user as the concrete type T.
func ContextUserAs[T User](ctx context.Context) (T, error) {
	var zero T

	user, err := ContextUser(ctx)
	if err != nil {
		return zero, errors.WithStack(err)
	}

	typed, ok := user.(T)
	if !ok {
		return zero, errors.Errorf("unexpected context user type '%T'", user)
	}

	return typed, nil
}
