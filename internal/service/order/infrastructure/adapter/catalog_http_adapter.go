package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/pkg/constants"
	"storefront/internal/pkg/httpclient"
	"storefront/internal/service/order/domain"
)

// CatalogHTTPAdapter 实现了 port.CatalogService 接口。
type CatalogHTTPAdapter struct {
	client *httpclient.Client
}

// NewCatalogHTTPAdapter 创建一个新的目录服务适配器。
func NewCatalogHTTPAdapter(client *httpclient.Client) *CatalogHTTPAdapter {
	return &CatalogHTTPAdapter{client: client}
}

type productResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

// GetProduct 查询商品信息。
func (a *CatalogHTTPAdapter) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	path := fmt.Sprintf(constants.CatalogProductPathFmt, productID)
	var resp productResponse
	if err := a.client.DoJSON(ctx, http.MethodGet, constants.CatalogService, path, nil, nil, &resp); err != nil {
		return nil, translateCollaboratorError(constants.CatalogService, err,
			domain.NewNotFound("product not found: %d", productID))
	}
	return &domain.Product{
		ID:        resp.ID,
		Name:      resp.Name,
		Price:     resp.Price,
		Available: resp.Available,
	}, nil
}

// AdjustStock 调整库存，delta 为负表示扣减。
func (a *CatalogHTTPAdapter) AdjustStock(ctx context.Context, productID int64, delta int) error {
	path := fmt.Sprintf(constants.CatalogProductPathFmt, productID)
	params := url.Values{}
	params.Set("quantity", strconv.Itoa(delta))
	if err := a.client.DoJSON(ctx, http.MethodPut, constants.CatalogService, path, params, nil, nil); err != nil {
		return translateCollaboratorError(constants.CatalogService, err,
			domain.NewNotFound("product not found: %d", productID))
	}
	return nil
}
