package port

import (
	"context"

	"storefront/internal/service/order/domain"
)

// CatalogService 是目录/库存协作方的出站端口。
type CatalogService interface {
	// GetProduct 获取商品信息，商品不存在时返回 NotFoundError
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)

	// AdjustStock 调整库存，delta 为负表示扣减，为正表示回补
	AdjustStock(ctx context.Context, productID int64, delta int) error
}
