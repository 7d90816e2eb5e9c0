package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"storefront/internal/pkg/constants"
	"storefront/internal/pkg/httpclient"
	"storefront/internal/service/order/domain"
)

// CartHTTPAdapter 实现了 port.CartService 接口。
type CartHTTPAdapter struct {
	client *httpclient.Client
}

// NewCartHTTPAdapter 创建一个新的购物车服务适配器。
func NewCartHTTPAdapter(client *httpclient.Client) *CartHTTPAdapter {
	return &CartHTTPAdapter{client: client}
}

type cartResponse struct {
	UserID      int64              `json:"userId"`
	Username    string             `json:"username"`
	TotalAmount float64            `json:"totalAmount"`
	Items       []cartItemResponse `json:"items"`
}

type cartItemResponse struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// GetCart 拉取用户购物车快照。
func (a *CartHTTPAdapter) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	path := fmt.Sprintf(constants.CartByUserPathFmt, userID)
	var resp cartResponse
	if err := a.client.DoJSON(ctx, http.MethodGet, constants.CartService, path, nil, nil, &resp); err != nil {
		return nil, translateCollaboratorError(constants.CartService, err,
			domain.NewNotFound("cart not found for user: %d", userID))
	}
	items := make([]domain.CartItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, domain.CartItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}
	return &domain.Cart{
		UserID:      resp.UserID,
		Username:    resp.Username,
		TotalAmount: resp.TotalAmount,
		Items:       items,
	}, nil
}

// ClearCart 清空用户购物车。
func (a *CartHTTPAdapter) ClearCart(ctx context.Context, userID int64) error {
	path := fmt.Sprintf(constants.CartByUserPathFmt, userID)
	if err := a.client.DoJSON(ctx, http.MethodDelete, constants.CartService, path, nil, nil, nil); err != nil {
		return translateCollaboratorError(constants.CartService, err, nil)
	}
	return nil
}

// translateCollaboratorError 把传输层错误翻译成领域错误。
// 404 映射为 notFound 指定的业务错误；其余一律视为协作方不可用。
func translateCollaboratorError(service string, err error, notFound error) error {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound && notFound != nil {
		return notFound
	}
	return domain.NewUnavailable(service, errors.Wrapf(err, "call to %s failed", service))
}
