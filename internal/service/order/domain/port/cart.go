package port

import (
	"context"

	"storefront/internal/service/order/domain"
)

// CartService 是购物车协作方的出站端口。
type CartService interface {
	// GetCart 获取用户购物车快照，用户不存在时返回 NotFoundError
	GetCart(ctx context.Context, userID int64) (*domain.Cart, error)

	// ClearCart 清空用户购物车
	ClearCart(ctx context.Context, userID int64) error
}
