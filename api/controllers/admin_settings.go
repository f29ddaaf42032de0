package controllers

import (
	"context"
	"net/http"

	"github.com/sparklegiftshop/gateway/api/responses"
	"github.com/sparklegiftshop/gateway/api/validators"
	"github.com/sparklegiftshop/gateway/internal/localstore"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// SettingsEditor is the slice of the backend client the settings panel needs.
type SettingsEditor interface {
	UpdateSettings(ctx context.Context, settings types.Settings) (*types.Settings, error)
}

type settingsRequest struct {
	StoreName      string `json:"store_name" validate:"required,min=2"`
	LogoURL        string `json:"logo_url,omitempty" validate:"omitempty,url"`
	WhatsAppNumber string `json:"whatsapp_number,omitempty" validate:"omitempty,len=10,numeric"`
	UPIID          string `json:"upi_id,omitempty"`
	QRCodeURL      string `json:"qr_code_url,omitempty" validate:"omitempty,url"`
}

// AdminUpdateSettings saves the store settings and refreshes the local cache
// so the storefront picks the change up without a backend round trip.
func AdminUpdateSettings(svc SettingsEditor, store *localstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		var payload settingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateSettings(r.Context(), types.Settings{
			StoreName:      payload.StoreName,
			LogoURL:        payload.LogoURL,
			WhatsAppNumber: payload.WhatsAppNumber,
			UPIID:          payload.UPIID,
			QRCodeURL:      payload.QRCodeURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if store != nil {
			if err := store.Set(localstore.KeySettingsCache, updated); err != nil {
				logg.Warn(r.Context(), "refresh settings cache failed")
			}
		}

		responses.WriteSuccess(w, updated)
	}
}
