package oauth2

import (
	"net/http"

	"github.com/bornholm/entralogin/internal/ui"
)

func (h *Handler) getLoginPage(w http.ResponseWriter, r *http.Request) {
	data := struct {
		ui.HeadTemplateData
		Prefix    string
		Providers []Provider
	}{
		HeadTemplateData: ui.HeadTemplateData{
			PageTitle: "Authentication",
		},
		Prefix:    h.prefix,
		Providers: h.providers,
	}

	render(w, r, http.StatusOK, "login", data)
}
