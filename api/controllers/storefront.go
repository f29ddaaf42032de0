package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sparklegiftshop/gateway/api/responses"
	"github.com/sparklegiftshop/gateway/api/validators"
	"github.com/sparklegiftshop/gateway/internal/backend"
	"github.com/sparklegiftshop/gateway/internal/localstore"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/pagination"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// Catalog is the slice of the backend client the storefront views need.
type Catalog interface {
	ListProducts(ctx context.Context, params backend.ListProductsParams) (*backend.ProductList, error)
	GetProduct(ctx context.Context, productID string) (*types.Product, error)
}

// SettingsReader fetches the store-wide settings singleton.
type SettingsReader interface {
	GetSettings(ctx context.Context) (*types.Settings, error)
}

// ListProducts serves the catalog grid with search, category filter, and
// cursor pagination passed straight through to the backend.
func ListProducts(svc Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := backend.ListProductsParams{
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Page: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}

		list, err := svc.ListProducts(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// GetProduct serves the product detail view.
func GetProduct(svc Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// GetSettings serves the store branding and payment settings. A fresh copy
// is cached in the local store on every successful fetch; when the backend
// is down the cached copy keeps the storefront rendering.
func GetSettings(svc SettingsReader, store *localstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings unavailable"))
			return
		}

		settings, err := svc.GetSettings(r.Context())
		if err != nil {
			if cached, ok := cachedSettings(store); ok {
				logg.Warn(r.Context(), "serving cached settings, backend fetch failed")
				responses.WriteSuccess(w, cached)
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if store != nil {
			if err := store.Set(localstore.KeySettingsCache, settings); err != nil {
				logg.Warn(r.Context(), "persist settings cache failed")
			}
		}
		responses.WriteSuccess(w, settings)
	}
}

func cachedSettings(store *localstore.Store) (*types.Settings, bool) {
	if store == nil {
		return nil, false
	}
	var settings types.Settings
	ok, err := store.Get(localstore.KeySettingsCache, &settings)
	if err != nil || !ok {
		return nil, false
	}
	return &settings, true
}
