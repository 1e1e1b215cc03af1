package setup

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bornholm/entralogin/internal/config"
	"github.com/bornholm/entralogin/internal/ratelimit"
	"github.com/bornholm/entralogin/pkg/log"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"golang.org/x/time/rate"

	sloghttp "github.com/samber/slog-http"
)

func NewHandlerFromConfig(ctx context.Context, conf *config.Config) (http.Handler, error) {
	mux := &http.ServeMux{}

	slogMiddleware := sloghttp.NewWithConfig(slog.Default(), sloghttp.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    false,
	})

	oauth2Handler, err := NewOAuth2HandlerFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var authHandler http.Handler = oauth2Handler

	if conf.HTTP.RateLimit.Enabled {
		interval := time.Second
		if conf.HTTP.RateLimit.Interval != nil {
			interval = time.Duration(*conf.HTTP.RateLimit.Interval)
		}

		rateLimiter := ratelimit.New(rate.Every(interval), int(conf.HTTP.RateLimit.Burst))
		authHandler = rateLimiter.Middleware(ratelimit.RemoteAddr)(authHandler)
	}

	mux.Handle("/auth/", slogMiddleware(withRequestID(authHandler)))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/auth/login", http.StatusTemporaryRedirect)
	})

	return mux, nil
}

const requestIDHeader = "X-Request-Id"

// withRequestID tags the response and every log record of the request with a
// new identifier. It must be wrapped by the access log middleware.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := xid.New().String()

		w.Header().Set(requestIDHeader, requestID)

		ctx := log.WithAttrs(r.Context(), slog.String("requestId", requestID))
		sloghttp.AddCustomAttributes(r, slog.String("requestId", requestID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
