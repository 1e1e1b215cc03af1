package driver

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

const stateValueKey = "state"

func loadState(store sessions.Store, name string, w http.ResponseWriter, r *http.Request) (string, error) {
	// A session that cannot be decoded (expired keys, tampered cookie) is
	// returned empty along with the error: the state is considered absent.
	sess, _ := store.Get(r, name)
	if sess == nil || sess.IsNew {
		return "", nil
	}

	state, _ := sess.Values[stateValueKey].(string)

	sess.Options.MaxAge = -1
	delete(sess.Values, stateValueKey)

	if err := sess.Save(r, w); err != nil {
		return "", errors.WithStack(err)
	}

	return state, nil
}

// storeState starts from a new session with the store default options, the
// one cached for the request may carry the deletion set by loadState.
func storeState(store sessions.Store, name string, state string, w http.ResponseWriter, r *http.Request) error {
	sess, _ := store.New(r, name)
	if sess == nil {
		sess = sessions.NewSession(store, name)
	}

	sess.Values[stateValueKey] = state

	if err := sess.Save(r, w); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func generateState() (string, error) {
	data := make([]byte, 32)

	read, err := rand.Read(data)
	if err != nil {
		return "", errors.WithStack(err)
	}

	if read != len(data) {
		return "", errors.Errorf("could not read %d bytes", len(data))
	}

	return base64.RawURLEncoding.EncodeToString(data), nil
}
