package application

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/service/order/domain"
	"storefront/internal/service/order/domain/port"
)

// OrderApplicationService 是订单 Saga 的编排器。
// 它按固定顺序驱动多个协作方的副作用，通过熔断网关调用远端，
// 用状态机把关每一次生命周期流转，并负责失败时的补偿决策。
type OrderApplicationService struct {
	repo    domain.OrderRepository
	gateway *ResilienceGateway
	locker  port.OrderLocker
	tracer  trace.Tracer
}

func NewOrderApplicationService(repo domain.OrderRepository, gateway *ResilienceGateway, locker port.OrderLocker, tracer trace.Tracer) *OrderApplicationService {
	return &OrderApplicationService{
		repo:    repo,
		gateway: gateway,
		locker:  locker,
		tracer:  tracer,
	}
}

// CreateOrder 执行下单 Saga。
// 失败策略：取购物车、验货、扣库存是 fail-fast，任何一步失败则下单失败；
// 清购物车、支付、通知是 fail-soft，失败只记日志，不回滚已创建的订单。
func (s *OrderApplicationService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", req.UserID))

	log.Info().Int64("user_id", req.UserID).Msg("creating new order")

	// 1. 经网关获取购物车快照；空购物车（真实的或兜底合成的）都不可下单
	cart, err := s.gateway.GetUserCart(ctx, req.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(cart.Items) == 0 {
		err := domain.NewInvalidState("cart is empty, nothing to order")
		span.RecordError(err)
		return nil, err
	}

	// 2. 以购物车快照构建 CREATED 状态的订单
	order, err := domain.NewOrder(req.UserID, cart, req.ShippingAddress, req.BillingAddress, req.PaymentMethod, req.Notes)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// 3. 逐条目验货并扣库存。
	// 验货 fail-open（检查不可用按可售处理），但明确不可售直接终止下单。
	// 扣库存失败是致命的：这是防超卖的底线。前面条目已扣掉的库存此处
	// 不做回滚补偿，与上游系统保持同样的补偿缺口。
	for _, cartItem := range cart.Items {
		available, err := s.gateway.IsProductAvailable(ctx, cartItem.ProductID)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if !available {
			err := domain.NewInvalidState("product is not available: " + cartItem.ProductName)
			span.RecordError(err)
			return nil, err
		}

		item, err := domain.NewOrderItem(cartItem)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		order.AddItem(item)

		if err := s.gateway.ReduceStock(ctx, cartItem.ProductID, cartItem.Quantity); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "stock reduction failed")
			log.Error().Err(err).
				Int64("user_id", req.UserID).
				Int64("product_id", cartItem.ProductID).
				Msg("stock reduction failed, aborting order creation")
			return nil, err
		}
	}

	// 4. 持久化订单，ID 由存储分配
	if err := s.repo.Create(ctx, order); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("order.id", order.ID))
	log.Info().Int64("order_id", order.ID).Int64("user_id", order.UserID).Msg("order created")

	// 5. 清空购物车，尽力而为，失败不回滚订单
	_ = s.gateway.ClearUserCart(ctx, req.UserID)

	// 6. 支付流程。非货到付款发起支付；货到付款直接转 PENDING。
	s.processOrderPayment(ctx, order, req)

	// 7. 发送创建通知，尽力而为
	_ = s.gateway.SendOrderNotification(ctx, order, domain.EventOrderCreated)

	return order, nil
}

// processOrderPayment 处理下单后的支付环节。
// 支付没有最终完成不算下单失败：订单留在 CREATED，之后可以补付。
func (s *OrderApplicationService) processOrderPayment(ctx context.Context, order *domain.Order, req *CreateOrderRequest) {
	if order.PaymentMethod == domain.PaymentMethodCash {
		// 货到付款不调支付协作方，直接进入等待支付
		if err := order.TransitionTo(domain.StatusPending); err != nil {
			log.Error().Err(err).Int64("order_id", order.ID).Msg("unexpected transition failure for cash order")
			return
		}
		if err := s.repo.Update(ctx, order); err != nil {
			log.Error().Err(err).Int64("order_id", order.ID).Msg("failed to persist pending cash order")
		}
		return
	}

	result, err := s.gateway.ProcessPayment(ctx, order, buildPaymentRequest(order, req))
	if err != nil {
		// 支付错误就地消化，订单保持 CREATED，之后可以重试支付
		log.Error().Err(err).Int64("order_id", order.ID).Msg("payment processing failed, order left payable")
		return
	}

	if result.Status == domain.PaymentStatusCompleted {
		if err := order.TransitionTo(domain.StatusPaid); err != nil {
			log.Error().Err(err).Int64("order_id", order.ID).Msg("unexpected transition failure after completed payment")
		} else {
			log.Info().
				Int64("order_id", order.ID).
				Str("transaction_id", result.TransactionID).
				Msg("payment completed")
		}
	} else {
		log.Warn().
			Int64("order_id", order.ID).
			Str("payment_status", result.Status).
			Msg("payment not completed, order left in CREATED")
	}

	// 无论支付结果如何，支付ID都要落库以便后续追溯
	order.AttachPayment(result.PaymentID)
	if err := s.repo.Update(ctx, order); err != nil {
		log.Error().Err(err).Int64("order_id", order.ID).Msg("failed to persist payment outcome")
	}
}

// UpdateOrderStatus 执行一次状态流转。
// 转入 REFUNDED 且存在支付记录时发起退款；退款失败会上抛，
// 但状态变更仍然落库——这是对上游系统既有行为的刻意保留，
// 避免订单卡在流转中途。
func (s *OrderApplicationService) UpdateOrderStatus(ctx context.Context, orderID int64, req *StatusUpdateRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateOrderStatus")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("order.id", orderID),
		attribute.String("order.next_status", string(req.Status)),
	)

	var order *domain.Order
	var refundErr error

	err := s.locker.WithLock(ctx, orderID, func() error {
		var err error
		order, err = s.repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		oldStatus := order.Status
		if err := order.TransitionTo(req.Status); err != nil {
			return err
		}
		order.AppendNote(req.Notes)
		order.SetTrackingNumber(req.TrackingNumber)

		if req.Status == domain.StatusRefunded && order.PaymentID != nil {
			if _, err := s.gateway.RefundPayment(ctx, *order.PaymentID, req.Notes); err != nil {
				log.Error().Err(err).Int64("order_id", orderID).Msg("refund failed, status change persisted anyway")
				refundErr = err
			}
		}

		if err := s.repo.Update(ctx, order); err != nil {
			return err
		}
		log.Info().
			Int64("order_id", orderID).
			Str("from", string(oldStatus)).
			Str("to", string(order.Status)).
			Msg("order status updated")
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	_ = s.gateway.SendOrderNotification(ctx, order, domain.EventStatusUpdated)

	if refundErr != nil {
		span.RecordError(refundErr)
		return order, refundErr
	}
	return order, nil
}

// CancelOrder 取消订单并补偿已占用的资源：
// 取消支付（尽力而为）、逐条目回补库存（逐个独立，失败不中断）、发通知。
func (s *OrderApplicationService) CancelOrder(ctx context.Context, orderID int64, reason string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.CancelOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", orderID))

	var order *domain.Order

	err := s.locker.WithLock(ctx, orderID, func() error {
		var err error
		order, err = s.repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if !domain.CanBeCancelled(order.Status) {
			return domain.NewInvalidState("cannot cancel order in status: " + string(order.Status))
		}

		oldStatus := order.Status
		if err := order.TransitionTo(domain.StatusCancelled); err != nil {
			return err
		}
		if reason != "" {
			order.AppendNote("Cancel reason: " + reason)
		}

		if order.PaymentID != nil {
			if err := s.gateway.CancelPayment(ctx, *order.PaymentID); err != nil {
				// 取消支付是尽力而为，失败只记日志
				log.Warn().Err(err).Int64("order_id", orderID).Msg("payment cancellation failed")
			}
		}

		if err := s.repo.Update(ctx, order); err != nil {
			return err
		}
		log.Info().
			Int64("order_id", orderID).
			Str("previous_status", string(oldStatus)).
			Msg("order cancelled")
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// 回补库存，每个条目独立调用，单个失败不影响其余条目
	for _, item := range order.Items {
		_ = s.gateway.IncreaseStock(ctx, item.ProductID, item.Quantity)
	}

	_ = s.gateway.SendOrderNotification(ctx, order, domain.EventOrderCancelled)

	return order, nil
}

// GetOrderPaymentStatus 查询订单关联支付的当前状态。
// 占位支付（负数ID，支付服务不可用时写入）不查协作方，直接按 PENDING 应答。
func (s *OrderApplicationService) GetOrderPaymentStatus(ctx context.Context, orderID int64) (*domain.PaymentResult, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetOrderPaymentStatus")
	defer span.End()

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentID == nil {
		return nil, domain.NewNotFound("no payment recorded for order: %d", orderID)
	}
	if *order.PaymentID < 0 {
		return &domain.PaymentResult{
			PaymentID: *order.PaymentID,
			Status:    domain.PaymentStatusPending,
			Message:   "Payment is deferred and has not been processed yet.",
		}, nil
	}
	return s.gateway.GetPaymentStatus(ctx, *order.PaymentID)
}

// GetOrderByID 查询单个订单，未命中返回 NotFoundError
func (s *OrderApplicationService) GetOrderByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetOrderByID")
	defer span.End()
	return s.repo.FindByID(ctx, orderID)
}

// GetOrdersByUserID 查询某个用户的全部订单
func (s *OrderApplicationService) GetOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetOrdersByUserID")
	defer span.End()
	return s.repo.FindByUserID(ctx, userID)
}

// GetOrdersByStatus 按状态分页查询，按下单时间倒序
func (s *OrderApplicationService) GetOrdersByStatus(ctx context.Context, status domain.Status, page, size int) ([]*domain.Order, int64, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetOrdersByStatus")
	defer span.End()
	return s.repo.FindByStatus(ctx, status, page, size)
}

// GetOrdersByDateRange 查询下单时间区间内的订单
func (s *OrderApplicationService) GetOrdersByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetOrdersByDateRange")
	defer span.End()
	return s.repo.FindByDateRange(ctx, start, end)
}
