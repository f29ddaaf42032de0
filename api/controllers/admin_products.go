package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sparklegiftshop/gateway/api/responses"
	"github.com/sparklegiftshop/gateway/api/validators"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// ProductEditor is the slice of the backend client the product panel needs.
type ProductEditor interface {
	CreateProduct(ctx context.Context, product types.Product) (*types.Product, error)
	UpdateProduct(ctx context.Context, productID string, product types.Product) (*types.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

type variantRequest struct {
	Size          string           `json:"size,omitempty"`
	Color         string           `json:"color,omitempty"`
	Price         decimal.Decimal  `json:"price" validate:"required"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	ImageURL      string           `json:"image_url,omitempty" validate:"omitempty,url"`
}

type productRequest struct {
	Name          string           `json:"name" validate:"required,min=2"`
	Price         decimal.Decimal  `json:"price" validate:"required"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Category      string           `json:"category,omitempty"`
	ImageURL      string           `json:"image_url,omitempty" validate:"omitempty,url"`
	Description   string           `json:"description,omitempty"`
	Variants      []variantRequest `json:"variants,omitempty" validate:"omitempty,dive"`
}

func (p productRequest) toProduct() (types.Product, error) {
	if p.Price.IsNegative() {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	product := types.Product{
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Category:      p.Category,
		ImageURL:      p.ImageURL,
		Description:   p.Description,
	}
	for _, v := range p.Variants {
		if v.Price.IsNegative() {
			return types.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "variant price cannot be negative")
		}
		product.Variants = append(product.Variants, types.Variant{
			Size:          v.Size,
			Color:         v.Color,
			Price:         v.Price,
			OriginalPrice: v.OriginalPrice,
			ImageURL:      v.ImageURL,
		})
	}
	return product, nil
}

// AdminCreateProduct handles product creation from the dashboard.
func AdminCreateProduct(svc ProductEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := payload.toProduct()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateProduct(r.Context(), product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminUpdateProduct replaces a product's editable fields.
func AdminUpdateProduct(svc ProductEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := payload.toProduct()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateProduct(r.Context(), productID, product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// AdminDeleteProduct removes a product from the catalog.
func AdminDeleteProduct(svc ProductEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
