package config

import (
	"time"

	"github.com/goccy/go-yaml"
)

type HTTP struct {
	Address InterpolatedString `yaml:"address"`
	BaseURL   InterpolatedString `yaml:"baseUrl"`
	Session   Session            `yaml:"session"`
	RateLimit RateLimit          `yaml:"rateLimit"`
}

type RateLimit struct {
	Enabled  InterpolatedBool      `yaml:"enabled"`
	Interval *InterpolatedDuration `yaml:"interval"`
	Burst    InterpolatedInt       `yaml:"burst"`
}

type Session struct {
	Keys   InterpolatedStringSlice `yaml:"keys"`
	Cookie Cookie                  `yaml:"cookie"`
}

type Cookie struct {
	Path     InterpolatedString    `yaml:"path"`
	HTTPOnly InterpolatedBool      `yaml:"httpOnly"`
	Secure   InterpolatedBool      `yaml:"secure"`
	MaxAge   *InterpolatedDuration `yaml:"maxAge"`
}

func NewDefaultHTTPConfig() HTTP {
	return HTTP{
		Address: "${ENTRALOGIN_HTTP_ADDRESS:-:8080}",
		BaseURL: "${ENTRALOGIN_HTTP_BASE_URL:-http://localhost:8080}",
		Session: Session{
			Keys: InterpolatedStringSlice{},
			Cookie: Cookie{
				Path:     "/",
				HTTPOnly: true,
				Secure:   false,
				MaxAge:   NewInterpolatedDuration(10 * time.Minute),
			},
		},
		RateLimit: RateLimit{
			Enabled:  true,
			Interval: NewInterpolatedDuration(time.Second),
			Burst:    10,
		},
	}
}

func NewHTTPConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":                         []*yaml.Comment{yaml.HeadComment(" Webserver configuration")},
		".address":                 []*yaml.Comment{yaml.HeadComment(" Webserver's listening address")},
		".baseUrl":                 []*yaml.Comment{yaml.HeadComment(" Public base URL, used to build the OAuth2 callback URL")},
		".session":                 []*yaml.Comment{yaml.HeadComment(" OAuth2 state cookie configuration")},
		".session.keys":            []*yaml.Comment{yaml.HeadComment(" Cookie signing keys", " A random key is generated at startup if empty")},
		".session.cookie.maxAge":   []*yaml.Comment{yaml.HeadComment(" Maximum duration between the redirect and the callback")},
		".session.cookie.secure":   []*yaml.Comment{yaml.HeadComment(" Only send the state cookie over HTTPS")},
		".session.cookie.httpOnly": []*yaml.Comment{yaml.HeadComment(" Hide the state cookie from scripts")},
		".rateLimit":               []*yaml.Comment{yaml.HeadComment(" Per client IP rate limiting of the provider endpoints")},
		".rateLimit.interval":      []*yaml.Comment{yaml.HeadComment(" Minimum interval between two requests, once the burst is consumed")},
	}
}
