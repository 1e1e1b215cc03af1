package driver

import (
	"net/url"
	"testing"

	"github.com/pkg/errors"
)

func TestRedirectRequest(t *testing.T) {
	req := NewRedirectRequest("https://idp.example.com/authorize?prompt=login", "scope", " ")

	req.Scopes("a", "b").Scopes("c", "d").
		Param("response_type", "token").
		Param("response_type", "code")

	rawURL, err := req.URL()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	query := u.Query()

	if e, g := "c d", query.Get("scope"); e != g {
		t.Errorf("query.Get(\"scope\"): expected '%v', got '%v'", e, g)
	}

	if e, g := []string{"code"}, query["response_type"]; len(g) != 1 || e[0] != g[0] {
		t.Errorf("query[\"response_type\"]: expected '%v', got '%v'", e, g)
	}

	if e, g := "login", query.Get("prompt"); e != g {
		t.Errorf("query.Get(\"prompt\"): expected '%v', got '%v'", e, g)
	}
}

func TestRedirectRequestWithoutScopes(t *testing.T) {
	rawURL, err := NewRedirectRequest("https://idp.example.com/authorize", "scope", " ").URL()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "https://idp.example.com/authorize", rawURL; e != g {
		t.Errorf("rawURL: expected '%v', got '%v'", e, g)
	}
}
