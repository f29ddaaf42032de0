package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/pagination"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// ListProductsParams carry the storefront's search/filter/pagination inputs.
type ListProductsParams struct {
	Search   string
	Category string
	Page     pagination.Params
}

// ProductList is one catalog page plus the cursor for the next one.
type ProductList struct {
	Products   []types.Product `json:"products"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func (c *Client) ListProducts(ctx context.Context, params ListProductsParams) (*ProductList, error) {
	query := url.Values{}
	if s := strings.TrimSpace(params.Search); s != "" {
		query.Set("search", s)
	}
	if cat := strings.TrimSpace(params.Category); cat != "" {
		query.Set("category", cat)
	}
	query.Set("limit", strconv.Itoa(pagination.NormalizeLimit(params.Page.Limit)))
	if params.Page.Cursor != "" {
		query.Set("cursor", params.Page.Cursor)
	}

	var list ProductList
	err := c.do(ctx, request{
		resource: "products",
		method:   http.MethodGet,
		path:     "/products",
		query:    query,
		public:   true,
	}, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetProduct(ctx context.Context, productID string) (*types.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var product types.Product
	err := c.do(ctx, request{
		resource: "products",
		method:   http.MethodGet,
		path:     "/products/" + url.PathEscape(productID),
		public:   true,
	}, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, product types.Product) (*types.Product, error) {
	var created types.Product
	err := c.do(ctx, request{
		resource: "products",
		method:   http.MethodPost,
		path:     "/products",
		body:     product,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, productID string, product types.Product) (*types.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var updated types.Product
	err := c.do(ctx, request{
		resource: "products",
		method:   http.MethodPut,
		path:     "/products/" + url.PathEscape(productID),
		body:     product,
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	return c.do(ctx, request{
		resource: "products",
		method:   http.MethodDelete,
		path:     "/products/" + url.PathEscape(productID),
	}, nil)
}
