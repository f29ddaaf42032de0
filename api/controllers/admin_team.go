package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sparklegiftshop/gateway/api/responses"
	"github.com/sparklegiftshop/gateway/api/validators"
	"github.com/sparklegiftshop/gateway/pkg/enums"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// TeamEditor is the slice of the backend client the team panel needs.
type TeamEditor interface {
	ListAdmins(ctx context.Context) ([]types.AdminAccount, error)
	CreateAdmin(ctx context.Context, account types.AdminAccount) (*types.AdminAccount, error)
	DeleteAdmin(ctx context.Context, adminID string) error
}

// AdminListTeam serves the team panel.
func AdminListTeam(svc TeamEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "team service unavailable"))
			return
		}

		admins, err := svc.ListAdmins(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, admins)
	}
}

type createAdminRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	AccessLevel string `json:"access_level" validate:"required"`
}

// AdminCreateTeamMember adds a dashboard account. The password rides the
// create request only; responses never echo it.
func AdminCreateTeamMember(svc TeamEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "team service unavailable"))
			return
		}

		var payload createAdminRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		level, err := enums.ParseAccessLevel(payload.AccessLevel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown access level"))
			return
		}

		created, err := svc.CreateAdmin(r.Context(), types.AdminAccount{
			Name:        payload.Name,
			Email:       payload.Email,
			Password:    payload.Password,
			AccessLevel: level,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminDeleteTeamMember removes a dashboard account.
func AdminDeleteTeamMember(svc TeamEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "team service unavailable"))
			return
		}

		adminID := strings.TrimSpace(chi.URLParam(r, "adminId"))
		if adminID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "admin id is required"))
			return
		}

		if err := svc.DeleteAdmin(r.Context(), adminID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
