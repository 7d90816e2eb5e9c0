package domain

import "time"

// 通知事件类型
const (
	EventOrderCreated   = "ORDER_CREATED"
	EventStatusUpdated  = "STATUS_UPDATED"
	EventOrderCancelled = "ORDER_CANCELLED"
)

// OrderNotification 是发往通知协作方的订单事件载体
type OrderNotification struct {
	EventID     string    `json:"eventId"`
	OrderID     int64     `json:"orderId"`
	UserID      int64     `json:"userId"`
	Username    string    `json:"username"`
	OrderStatus Status    `json:"orderStatus"`
	TotalAmount float64   `json:"totalAmount"`
	EventType   string    `json:"eventType"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// NewOrderNotification 从订单构建一个通知事件
func NewOrderNotification(eventID string, order *Order, eventType string) *OrderNotification {
	return &OrderNotification{
		EventID:     eventID,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Username:    order.Username,
		OrderStatus: order.Status,
		TotalAmount: order.TotalAmount,
		EventType:   eventType,
		OccurredAt:  time.Now(),
	}
}
