package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"storefront/internal/pkg/breaker"
	"storefront/internal/service/order/domain"
	"storefront/internal/service/order/domain/port"
)

// ResilienceGateway 把所有对远端协作方的调用包在按协作方维度的
// 熔断器里，每个操作配一个固定的兜底策略，保证任何单个协作方
// 不可用时编排层都能得到可预期的降级结果而不是裸错误。
//
// 业务错误（NotFound 等）不属于协作方故障，不计入熔断统计，
// 也不会被兜底吞掉，一律原样上抛。
type ResilienceGateway struct {
	cart     port.CartService
	catalog  port.CatalogService
	payment  port.PaymentService
	notifier port.NotificationProducer

	cartBreaker    *breaker.Breaker
	catalogBreaker *breaker.Breaker
	paymentBreaker *breaker.Breaker
	notifyBreaker  *breaker.Breaker
}

// NewResilienceGateway 为每个协作方创建一个独立的熔断器
func NewResilienceGateway(
	cart port.CartService,
	catalog port.CatalogService,
	payment port.PaymentService,
	notifier port.NotificationProducer,
	cfg breaker.Config,
) *ResilienceGateway {
	return &ResilienceGateway{
		cart:           cart,
		catalog:        catalog,
		payment:        payment,
		notifier:       notifier,
		cartBreaker:    breaker.New("cart-service", cfg, domain.IsDomainError),
		catalogBreaker: breaker.New("catalog-service", cfg, domain.IsDomainError),
		paymentBreaker: breaker.New("payment-service", cfg, domain.IsDomainError),
		notifyBreaker:  breaker.New("notification-service", cfg, domain.IsDomainError),
	}
}

// GetUserCart 获取用户购物车。
// 兜底：返回一个合成的空购物车，编排层会把空购物车当作"无法下单"处理。
func (g *ResilienceGateway) GetUserCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	value, outcome, err := g.cartBreaker.Do(
		func() (any, error) { return g.cart.GetCart(ctx, userID) },
		func(cause error) (any, error) {
			return &domain.Cart{UserID: userID, Username: "Unknown", TotalAmount: 0}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	if outcome == breaker.OutcomeFallback {
		log.Warn().Int64("user_id", userID).Msg("cart service unavailable, returning empty synthetic cart")
	}
	return value.(*domain.Cart), nil
}

// ClearUserCart 清空用户购物车。
// 兜底：空操作，只记日志，下单流程继续。
func (g *ResilienceGateway) ClearUserCart(ctx context.Context, userID int64) error {
	_, _, err := g.cartBreaker.Do(
		func() (any, error) { return nil, g.cart.ClearCart(ctx, userID) },
		func(cause error) (any, error) {
			log.Warn().Err(cause).Int64("user_id", userID).Msg("cart service unavailable, cart not cleared")
			return nil, nil
		},
	)
	return err
}

// IsProductAvailable 检查商品是否可售。
// 兜底：fail-open，检查本身不可用时按"可售"处理，宁可成单不阻断销售。
// 商品不存在是业务错误，原样上抛。
func (g *ResilienceGateway) IsProductAvailable(ctx context.Context, productID int64) (bool, error) {
	value, outcome, err := g.catalogBreaker.Do(
		func() (any, error) {
			product, err := g.catalog.GetProduct(ctx, productID)
			if err != nil {
				return nil, err
			}
			return product.Available, nil
		},
		func(cause error) (any, error) { return true, nil },
	)
	if err != nil {
		return false, err
	}
	if outcome == breaker.OutcomeFallback {
		log.Warn().Int64("product_id", productID).Msg("catalog service unavailable, assuming product is available")
	}
	return value.(bool), nil
}

// ReduceStock 扣减库存。
// 没有静默兜底：扣库存是防止超卖的底线，失败必须让下单失败。
func (g *ResilienceGateway) ReduceStock(ctx context.Context, productID int64, quantity int) error {
	_, _, err := g.catalogBreaker.Do(
		func() (any, error) { return nil, g.catalog.AdjustStock(ctx, productID, -quantity) },
		func(cause error) (any, error) { return nil, cause },
	)
	return err
}

// IncreaseStock 回补库存（取消订单时使用）。
// 兜底：空操作，只记日志，逐个商品独立处理，互不影响。
func (g *ResilienceGateway) IncreaseStock(ctx context.Context, productID int64, quantity int) error {
	_, _, err := g.catalogBreaker.Do(
		func() (any, error) { return nil, g.catalog.AdjustStock(ctx, productID, quantity) },
		func(cause error) (any, error) {
			log.Error().Err(cause).
				Int64("product_id", productID).
				Int("quantity", quantity).
				Msg("catalog service unavailable, stock not restored")
			return nil, nil
		},
	)
	return err
}

// ProcessPayment 发起支付。
// 兜底：返回合成的 PENDING 应答，paymentId 取 -orderId 作为占位，
// 订单保持可支付状态而不是直接失败。
func (g *ResilienceGateway) ProcessPayment(ctx context.Context, order *domain.Order, req *domain.PaymentRequest) (*domain.PaymentResult, error) {
	value, _, err := g.paymentBreaker.Do(
		func() (any, error) { return g.payment.ProcessPayment(ctx, req) },
		func(cause error) (any, error) {
			log.Error().Err(cause).Int64("order_id", order.ID).Msg("payment service unavailable, payment deferred")
			return &domain.PaymentResult{
				PaymentID: -order.ID,
				Status:    domain.PaymentStatusPending,
				Message:   "Payment service is currently unavailable. Payment will be processed later.",
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return value.(*domain.PaymentResult), nil
}

// CancelPayment 取消支付。
// 兜底：空操作记警告，调用方不得把兜底当作取消成功。
func (g *ResilienceGateway) CancelPayment(ctx context.Context, paymentID int64) error {
	_, _, err := g.paymentBreaker.Do(
		func() (any, error) { return nil, g.payment.CancelPayment(ctx, paymentID) },
		func(cause error) (any, error) {
			log.Warn().Err(cause).
				Int64("payment_id", paymentID).
				Msg("payment service unavailable, payment cancellation will be retried later")
			return nil, nil
		},
	)
	return err
}

// RefundPayment 退款。
// 退款不允许静默兜底：钱不能无声消失，协作方不可用时升级为支付处理错误。
func (g *ResilienceGateway) RefundPayment(ctx context.Context, paymentID int64, reason string) (*domain.PaymentResult, error) {
	value, _, err := g.paymentBreaker.Do(
		func() (any, error) { return g.payment.RefundPayment(ctx, paymentID, reason) },
		func(cause error) (any, error) {
			return nil, domain.NewPaymentProcessing(
				"payment service is currently unavailable, refund for payment %d will be processed later", paymentID)
		},
	)
	if err != nil {
		return nil, err
	}
	return value.(*domain.PaymentResult), nil
}

// GetPaymentStatus 查询支付状态。
// 查询没有可信的兜底值，协作方不可用时升级为支付处理错误。
func (g *ResilienceGateway) GetPaymentStatus(ctx context.Context, paymentID int64) (*domain.PaymentResult, error) {
	value, _, err := g.paymentBreaker.Do(
		func() (any, error) { return g.payment.GetPaymentStatus(ctx, paymentID) },
		func(cause error) (any, error) {
			return nil, domain.NewPaymentProcessing(
				"payment service is currently unavailable, status of payment %d is unknown", paymentID)
		},
	)
	if err != nil {
		return nil, err
	}
	return value.(*domain.PaymentResult), nil
}

// SendOrderNotification 发送订单事件通知。
// 兜底：空操作，通知永远是尽力而为，不阻塞订单变更。
func (g *ResilienceGateway) SendOrderNotification(ctx context.Context, order *domain.Order, eventType string) error {
	event := domain.NewOrderNotification(uuid.NewString(), order, eventType)
	_, _, err := g.notifyBreaker.Do(
		func() (any, error) { return nil, g.notifier.SendOrderEvent(ctx, event) },
		func(cause error) (any, error) {
			log.Warn().Err(cause).
				Int64("order_id", order.ID).
				Str("event_type", eventType).
				Msg("notification service unavailable, notification dropped")
			return nil, nil
		},
	)
	return err
}
