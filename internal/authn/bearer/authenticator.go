package bearer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/bornholm/entralogin/internal/authn"
	"github.com/pkg/errors"
)

// ErrInvalidToken is returned when the resolver does not know the token.
var ErrInvalidToken = errors.New("invalid token")

type UserResolver interface {
	ResolveUser(r *http.Request, token string) (authn.User, error)
}

type UserResolverFunc func(r *http.Request, token string) (authn.User, error)

func (fn UserResolverFunc) ResolveUser(r *http.Request, token string) (authn.User, error) {
	return fn(r, token)
}

// NewAuthenticator authenticates requests carrying an Authorization: Bearer
// header. Requests without it are left to the next authenticator.
func NewAuthenticator(resolver UserResolver) authn.Authenticator {
	return authn.AuthenticateFunc(func(r *http.Request) (authn.User, error) {
		token, ok := Token(r)
		if !ok {
			return nil, nil
		}

		user, err := resolver.ResolveUser(r, token)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		if user == nil {
			return nil, errors.WithStack(ErrInvalidToken)
		}

		return user, nil
	})
}

// Token extracts the bearer token from the Authorization header.
func Token(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}

// Challenge answers 401 with a WWW-Authenticate header. errorCode is empty
// when the request carried no token at all.
func Challenge(w http.ResponseWriter, errorCode string, description string) {
	value := `Bearer realm="restricted"`
	if errorCode != "" {
		value += fmt.Sprintf(`, error="%s"`, errorCode)
	}

	w.Header().Set("WWW-Authenticate", value)

	if errorCode == "" {
		errorCode = "unauthorized"
	}

	WriteError(w, http.StatusUnauthorized, errorCode, description)
}

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteError writes an OAuth2 style JSON error body.
func WriteError(w http.ResponseWriter, statusCode int, errorCode string, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(errorResponse{
		Error:       errorCode,
		Description: description,
	})
}
