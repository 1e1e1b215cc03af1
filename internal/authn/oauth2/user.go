package oauth2

import (
	"github.com/bornholm/entralogin/internal/authn"
	"github.com/bornholm/entralogin/pkg/oauth2/driver"
)

type User struct {
	*driver.User
	Provider string
}

// UserProvider implements authn.User.
func (u *User) UserProvider() string {
	return u.Provider
}

// UserSubject implements authn.User.
func (u *User) UserSubject() string {
	return u.ID
}

var _ authn.User = &User{}
