package oauth2

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/bornholm/entralogin/internal/ui"
	"github.com/bornholm/entralogin/pkg/log"
	"github.com/pkg/errors"
)

//go:embed templates/**/*.gohtml
var fs embed.FS

var templates *template.Template

func init() {
	t, err := ui.Templates(nil, fs)
	if err != nil {
		panic(errors.WithStack(err))
	}
	templates = t
}

func render(w http.ResponseWriter, r *http.Request, statusCode int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "could not render template", slog.String("template", name), log.Error(errors.WithStack(err)))
	}
}

type errorPageData struct {
	ui.HeadTemplateData
	Title   string
	Message string
}

func renderError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	render(w, r, statusCode, "error", errorPageData{
		HeadTemplateData: ui.HeadTemplateData{
			PageTitle: http.StatusText(statusCode),
		},
		Title:   http.StatusText(statusCode),
		Message: message,
	})
}
