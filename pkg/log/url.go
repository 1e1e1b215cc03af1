package log

import (
	"log/slog"
	"net/url"
)

var sensitiveParams = []string{"code", "state", "access_token", "id_token", "client_secret"}

// ScrubbedURL returns an attribute holding the given URL with its credentials
// and sensitive OAuth2 query parameters masked.
func ScrubbedURL(name string, rawURL string) slog.Attr {
	u, err := url.Parse(rawURL)
	if err != nil {
		return slog.String(name, rawURL)
	}

	scrubbed := u.JoinPath()

	if u.User != nil {
		scrubbed.User = url.UserPassword("xxx", "xxx")
	}

	query := scrubbed.Query()
	changed := false
	for _, param := range sensitiveParams {
		if query.Has(param) {
			query.Set(param, "xxx")
			changed = true
		}
	}

	if changed {
		scrubbed.RawQuery = query.Encode()
	}

	return slog.String(name, scrubbed.String())
}
