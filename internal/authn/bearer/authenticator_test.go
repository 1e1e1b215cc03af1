package bearer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bornholm/entralogin/internal/authn"
	"github.com/pkg/errors"
)

type testUser struct {
	subject string
}

func (u *testUser) UserSubject() string  { return u.subject }
func (u *testUser) UserProvider() string { return "test" }

func TestAuthenticator(t *testing.T) {
	errUpstream := errors.New("upstream failure")

	resolver := UserResolverFunc(func(r *http.Request, token string) (authn.User, error) {
		switch token {
		case "valid":
			return &testUser{subject: token}, nil
		case "upstream":
			return nil, errUpstream
		default:
			return nil, nil
		}
	})

	authenticator := NewAuthenticator(resolver)

	type testCase struct {
		Name            string
		Authorization   string
		ExpectedSubject string
		ExpectedErr     error
	}

	testCases := []testCase{
		{
			Name:            "valid token",
			Authorization:   "Bearer valid",
			ExpectedSubject: "valid",
		},
		{
			Name:            "lowercase scheme",
			Authorization:   "bearer valid",
			ExpectedSubject: "valid",
		},
		{
			Name:          "missing header",
			Authorization: "",
		},
		{
			Name:          "basic scheme",
			Authorization: "Basic Zm9vOmJhcg==",
		},
		{
			Name:          "empty token",
			Authorization: "Bearer  ",
		},
		{
			Name:          "unknown token",
			Authorization: "Bearer unknown",
			ExpectedErr:   ErrInvalidToken,
		},
		{
			Name:          "resolver failure",
			Authorization: "Bearer upstream",
			ExpectedErr:   errUpstream,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.Authorization != "" {
				req.Header.Set("Authorization", tc.Authorization)
			}

			user, err := authenticator.Authenticate(req)

			if tc.ExpectedErr != nil {
				if !errors.Is(err, tc.ExpectedErr) {
					t.Errorf("err: expected '%v', got '%+v'", tc.ExpectedErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if tc.ExpectedSubject == "" {
				if user != nil {
					t.Errorf("user: expected nil, got '%v'", user)
				}

				return
			}

			if user == nil {
				t.Fatalf("user: expected non nil user")
			}

			if e, g := tc.ExpectedSubject, user.UserSubject(); e != g {
				t.Errorf("user.UserSubject(): expected '%v', got '%v'", e, g)
			}
		})
	}
}

func TestChallenge(t *testing.T) {
	type testCase struct {
		ErrorCode             string
		ExpectedAuthenticate  string
		ExpectedResponseError string
	}

	testCases := []testCase{
		{
			ErrorCode:             "",
			ExpectedAuthenticate:  `Bearer realm="restricted"`,
			ExpectedResponseError: "unauthorized",
		},
		{
			ErrorCode:             "invalid_token",
			ExpectedAuthenticate:  `Bearer realm="restricted", error="invalid_token"`,
			ExpectedResponseError: "invalid_token",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.ExpectedResponseError, func(t *testing.T) {
			rec := httptest.NewRecorder()

			Challenge(rec, tc.ErrorCode, "description")

			if e, g := http.StatusUnauthorized, rec.Code; e != g {
				t.Errorf("rec.Code: expected '%v', got '%v'", e, g)
			}

			if e, g := tc.ExpectedAuthenticate, rec.Header().Get("WWW-Authenticate"); e != g {
				t.Errorf("WWW-Authenticate: expected '%v', got '%v'", e, g)
			}

			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if e, g := tc.ExpectedResponseError, body.Error; e != g {
				t.Errorf("body.Error: expected '%v', got '%v'", e, g)
			}

			if e, g := "description", body.Description; e != g {
				t.Errorf("body.Description: expected '%v', got '%v'", e, g)
			}
		})
	}
}
