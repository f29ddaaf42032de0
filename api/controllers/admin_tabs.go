package controllers

import (
	"net/http"

	"github.com/sparklegiftshop/gateway/api/responses"
	"github.com/sparklegiftshop/gateway/api/validators"
	"github.com/sparklegiftshop/gateway/internal/session"
	"github.com/sparklegiftshop/gateway/pkg/enums"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/logger"
)

// AdminGetLastTab returns the tab to restore when the dashboard reopens.
func AdminGetLastTab(sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"tab": sessions.LastTab().String()})
	}
}

type setTabRequest struct {
	Tab string `json:"tab" validate:"required"`
}

// AdminSetLastTab remembers the active dashboard tab.
func AdminSetLastTab(sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload setTabRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tab, err := enums.ParseDashboardTab(payload.Tab)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown dashboard tab"))
			return
		}

		if err := sessions.SetLastTab(tab); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"tab": tab.String()})
	}
}
