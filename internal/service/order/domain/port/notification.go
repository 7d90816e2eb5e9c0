package port

import (
	"context"

	"storefront/internal/service/order/domain"
)

// NotificationProducer 是通知协作方的出站端口，发送即忘。
type NotificationProducer interface {
	// SendOrderEvent 发布一条订单事件通知
	SendOrderEvent(ctx context.Context, event *domain.OrderNotification) error
}
