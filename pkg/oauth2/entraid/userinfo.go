package entraid

import (
	"context"
	"reflect"

	"github.com/bornholm/entralogin/pkg/oauth2/driver"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// userInfo gathers the fields of the two payload shapes served by the
// user-info endpoint: the OIDC one (sub, name, email, picture) and the Graph
// one (id, displayName, mail, photo).
type userInfo struct {
	Sub               string `mapstructure:"sub"`
	ID                string `mapstructure:"id"`
	Name              string `mapstructure:"name"`
	GivenName         string `mapstructure:"given_name"`
	FamilyName        string `mapstructure:"family_name"`
	DisplayName       string `mapstructure:"displayName"`
	Email             string `mapstructure:"email"`
	Mail              string `mapstructure:"mail"`
	UserPrincipalName string `mapstructure:"userPrincipalName"`
	Picture           string `mapstructure:"picture"`
	Photo             string `mapstructure:"photo"`
}

func fetchUserInfo(ctx context.Context, req *driver.APIRequest, fn driver.RequestConfigFunc) (map[string]any, error) {
	if fn != nil {
		fn(req)
	}

	res, err := req.Get(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	data, err := driver.DecodeObject(res.Body())
	if err != nil {
		return nil, errors.Wrap(err, "could not parse user info")
	}

	if data == nil {
		data = map[string]any{}
	}

	return data, nil
}

func decodeUserInfo(data map[string]any) (*userInfo, error) {
	var info userInfo

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       ignoreComposites,
		Result:           &info,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := decoder.Decode(data); err != nil {
		return nil, errors.Wrap(err, "could not decode user info")
	}

	return &info, nil
}

// ignoreComposites drops objects and arrays found where a string is expected,
// e.g. a photo metadata object.
func ignoreComposites(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}

	switch from.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return "", nil
	default:
		return data, nil
	}
}

func (i *userInfo) subject() string {
	if i.Sub != "" {
		return i.Sub
	}

	return i.ID
}

// authorizationCodeUser maps the payload returned after a code exchange.
func (i *userInfo) authorizationCodeUser(original map[string]any, token driver.AccessToken) *driver.User {
	email := i.Email
	if email == "" {
		email = i.UserPrincipalName
	}

	return &driver.User{
		ID:                     i.subject(),
		NickName:               i.Name,
		Name:                   i.Name,
		Email:                  email,
		AvatarURL:              i.Picture,
		EmailVerificationState: driver.EmailVerified,
		Original:               original,
		Token:                  token,
	}
}

// accessTokenUser maps the payload returned for a token obtained out of band.
func (i *userInfo) accessTokenUser(original map[string]any, token driver.AccessToken) *driver.User {
	email := i.Mail
	if email == "" {
		email = i.UserPrincipalName
	}

	return &driver.User{
		ID:                     i.subject(),
		NickName:               i.DisplayName,
		Name:                   i.DisplayName,
		Email:                  email,
		AvatarURL:              i.Photo,
		EmailVerificationState: driver.EmailVerified,
		Original:               original,
		Token:                  token,
	}
}
