package driver

import (
	"net/url"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// RedirectRequest builds the URL the user agent is redirected to in order to
// authorize the client.
type RedirectRequest struct {
	baseURL         string
	scopeParamName  string
	scopesSeparator string
	scopes          []string
	params          url.Values
}

func NewRedirectRequest(baseURL string, scopeParamName string, scopesSeparator string) *RedirectRequest {
	return &RedirectRequest{
		baseURL:         baseURL,
		scopeParamName:  scopeParamName,
		scopesSeparator: scopesSeparator,
		scopes:          make([]string, 0),
		params:          url.Values{},
	}
}

// Scopes replaces the requested scopes.
func (r *RedirectRequest) Scopes(scopes ...string) *RedirectRequest {
	r.scopes = slices.Clone(scopes)
	return r
}

// Param sets a query parameter, replacing any previous value.
func (r *RedirectRequest) Param(name string, value string) *RedirectRequest {
	r.params.Set(name, value)
	return r
}

func (r *RedirectRequest) GetScopes() []string {
	return slices.Clone(r.scopes)
}

func (r *RedirectRequest) GetParam(name string) string {
	return r.params.Get(name)
}

func (r *RedirectRequest) URL() (string, error) {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return "", errors.WithStack(err)
	}

	query := u.Query()

	for name, values := range r.params {
		query[name] = slices.Clone(values)
	}

	if len(r.scopes) > 0 {
		query.Set(r.scopeParamName, strings.Join(r.scopes, r.scopesSeparator))
	}

	u.RawQuery = query.Encode()

	return u.String(), nil
}
