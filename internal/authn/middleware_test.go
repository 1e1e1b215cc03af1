package authn

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
)

type testUser struct {
	subject string
}

func (u *testUser) UserSubject() string  { return u.subject }
func (u *testUser) UserProvider() string { return "test" }

type otherUser struct{}

func (otherUser) UserSubject() string  { return "other" }
func (otherUser) UserProvider() string { return "other" }

func TestChain(t *testing.T) {
	errBoom := errors.New("boom")

	skip := AuthenticateFunc(func(r *http.Request) (User, error) {
		return nil, nil
	})

	byHeader := AuthenticateFunc(func(r *http.Request) (User, error) {
		switch r.Header.Get("X-User") {
		case "":
			return nil, nil
		case "fail":
			return nil, errBoom
		default:
			return &testUser{subject: r.Header.Get("X-User")}, nil
		}
	})

	var onErrorErr error

	middleware := Chain(
		WithAuthenticators(skip, byHeader),
		WithUnauthorizedHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})),
		WithOnError(func(w http.ResponseWriter, r *http.Request, err error) {
			onErrorErr = err
			w.WriteHeader(http.StatusBadGateway)
		}),
	)

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := ContextUserAs[*testUser](r.Context())
		if err != nil {
			t.Errorf("%+v", errors.WithStack(err))
			return
		}

		if _, err := ContextUserAs[otherUser](r.Context()); err == nil {
			t.Errorf("ContextUserAs[otherUser](): expected error")
		}

		w.Write([]byte(user.subject))
	}))

	type testCase struct {
		Name               string
		User               string
		ExpectedStatusCode int
		ExpectedBody       string
	}

	testCases := []testCase{
		{
			Name:               "authenticated",
			User:               "jane",
			ExpectedStatusCode: http.StatusOK,
			ExpectedBody:       "jane",
		},
		{
			Name:               "unauthenticated",
			ExpectedStatusCode: http.StatusTeapot,
		},
		{
			Name:               "authenticator error",
			User:               "fail",
			ExpectedStatusCode: http.StatusBadGateway,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			onErrorErr = nil

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.User != "" {
				req.Header.Set("X-User", tc.User)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if e, g := tc.ExpectedStatusCode, rec.Code; e != g {
				t.Errorf("rec.Code: expected '%v', got '%v'", e, g)
			}

			if e, g := tc.ExpectedBody, rec.Body.String(); tc.ExpectedBody != "" && e != g {
				t.Errorf("rec.Body: expected '%v', got '%v'", e, g)
			}

			if tc.ExpectedStatusCode == http.StatusBadGateway && !errors.Is(onErrorErr, errBoom) {
				t.Errorf("onErrorErr: expected errBoom, got '%+v'", onErrorErr)
			}
		})
	}
}

func TestContextUserWithoutUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, err := ContextUser(req.Context()); !errors.Is(err, ErrNoUser) {
		t.Errorf("ContextUser(): expected ErrNoUser, got '%+v'", err)
	}
}
