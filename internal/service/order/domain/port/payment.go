package port

import (
	"context"

	"storefront/internal/service/order/domain"
)

// PaymentService 是支付协作方的出站端口。
type PaymentService interface {
	// ProcessPayment 发起一笔支付
	ProcessPayment(ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentResult, error)

	// CancelPayment 取消一笔支付
	CancelPayment(ctx context.Context, paymentID int64) error

	// RefundPayment 对一笔支付发起退款，成功时应答状态必须为 REFUNDED
	RefundPayment(ctx context.Context, paymentID int64, reason string) (*domain.PaymentResult, error)

	// GetPaymentStatus 查询支付状态
	GetPaymentStatus(ctx context.Context, paymentID int64) (*domain.PaymentResult, error)
}
