package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"storefront/internal/service/order/domain"
)

type serviceFixture struct {
	repo     *fakeRepo
	cart     *fakeCart
	catalog  *fakeCatalog
	payment  *fakePayment
	notifier *fakeNotifier
	locker   *fakeLocker
	service  *OrderApplicationService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo: newFakeRepo(),
		cart: &fakeCart{cart: &domain.Cart{
			UserID:      42,
			Username:    "alice",
			TotalAmount: 250,
			Items: []domain.CartItem{
				{ProductID: 1, ProductName: "Keyboard", Price: 100, Quantity: 2},
				{ProductID: 2, ProductName: "Mouse", Price: 50, Quantity: 1},
			},
		}},
		catalog: &fakeCatalog{products: map[int64]*domain.Product{
			1: {ID: 1, Name: "Keyboard", Price: 100, Available: true},
			2: {ID: 2, Name: "Mouse", Price: 50, Available: true},
		}},
		payment:  &fakePayment{result: &domain.PaymentResult{PaymentID: 77, Status: domain.PaymentStatusCompleted, TransactionID: "tx-1"}},
		notifier: &fakeNotifier{},
		locker:   &fakeLocker{},
	}
	gateway := newTestGateway(f.cart, f.catalog, f.payment, f.notifier)
	f.service = NewOrderApplicationService(f.repo, gateway, f.locker, noop.NewTracerProvider().Tracer("test"))
	return f
}

func cardRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		UserID:          42,
		ShippingAddress: "1 Main St",
		BillingAddress:  "2 Billing Rd",
		PaymentMethod:   domain.PaymentMethodCard,
		CardNumber:      "4111111111111111",
		CardHolderName:  "Alice",
		ExpiryDate:      "12/30",
		CVV:             "123",
	}
}

func TestCreateOrder_HappyPathCardPayment(t *testing.T) {
	f := newServiceFixture()

	order, err := f.service.CreateOrder(context.Background(), cardRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPaid, order.Status)
	assert.Equal(t, 250.0, order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 200.0, order.Items[0].Subtotal)
	assert.Equal(t, 50.0, order.Items[1].Subtotal)
	require.NotNil(t, order.PaymentID)
	assert.Equal(t, int64(77), *order.PaymentID)

	// 库存按条目数量扣减
	assert.Equal(t, []stockAdjustment{{productID: 1, delta: -2}, {productID: 2, delta: -1}}, f.catalog.adjustments)
	// 购物车已清空
	assert.Equal(t, 1, f.cart.cleared)
	// 支付请求携带卡凭据和协作方编码
	require.Len(t, f.payment.processed, 1)
	assert.Equal(t, domain.PaymentCodeCreditCard, f.payment.processed[0].PaymentMethod)
	assert.Equal(t, "4111111111111111", f.payment.processed[0].CardNumber)
	// 创建事件已发出
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, domain.EventOrderCreated, f.notifier.events[0].EventType)

	// 订单已落库且状态为 PAID
	stored, err := f.repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, stored.Status)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	f := newServiceFixture()
	f.cart.cart = &domain.Cart{UserID: 42, Username: "alice"}

	_, err := f.service.CreateOrder(context.Background(), cardRequest())

	require.Error(t, err)
	assert.True(t, domain.IsInvalidState(err))
	assert.Empty(t, f.repo.orders, "nothing must be persisted")
	assert.Empty(t, f.catalog.adjustments, "no stock must be touched")
}

func TestCreateOrder_CartServiceDownYieldsEmptyCart(t *testing.T) {
	f := newServiceFixture()
	f.cart.getErr = errDown

	_, err := f.service.CreateOrder(context.Background(), cardRequest())

	// 网关兜底返回合成空购物车，编排层按空购物车拒单
	require.Error(t, err)
	assert.True(t, domain.IsInvalidState(err))
	assert.Empty(t, f.repo.orders)
}

func TestCreateOrder_CashOnDeliveryGoesPending(t *testing.T) {
	f := newServiceFixture()
	req := cardRequest()
	req.PaymentMethod = domain.PaymentMethodCash

	order, err := f.service.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Nil(t, order.PaymentID)
	assert.Empty(t, f.payment.processed, "cash on delivery must not call the payment collaborator")
}

func TestCreateOrder_PaymentServiceDownLeavesOrderPayable(t *testing.T) {
	f := newServiceFixture()
	f.payment.processErr = errDown

	order, err := f.service.CreateOrder(context.Background(), cardRequest())
	require.NoError(t, err, "payment outage must not fail order creation")

	assert.Equal(t, domain.StatusCreated, order.Status)
	require.NotNil(t, order.PaymentID)
	assert.Equal(t, -order.ID, *order.PaymentID, "placeholder payment id is the negated order id")
	require.Len(t, f.notifier.events, 1)
}

func TestCreateOrder_IncompletePaymentLeavesCreated(t *testing.T) {
	f := newServiceFixture()
	f.payment.result = &domain.PaymentResult{PaymentID: 77, Status: domain.PaymentStatusFailed}

	order, err := f.service.CreateOrder(context.Background(), cardRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCreated, order.Status)
	require.NotNil(t, order.PaymentID)
	assert.Equal(t, int64(77), *order.PaymentID)
}

func TestCreateOrder_UnavailableProductAborts(t *testing.T) {
	f := newServiceFixture()
	f.catalog.products[1].Available = false

	_, err := f.service.CreateOrder(context.Background(), cardRequest())

	require.Error(t, err)
	assert.True(t, domain.IsInvalidState(err))
	assert.Contains(t, err.Error(), "Keyboard")
	assert.Empty(t, f.repo.orders)
}

func TestCreateOrder_StockReductionFailureAbortsWithoutCompensation(t *testing.T) {
	f := newServiceFixture()
	f.catalog.adjustErrFor = map[int64]error{2: errDown}

	_, err := f.service.CreateOrder(context.Background(), cardRequest())

	require.Error(t, err)
	assert.Empty(t, f.repo.orders, "order must not be persisted")
	// 第一个条目的库存已经扣掉，而且不会被回补
	assert.Equal(t, []stockAdjustment{{productID: 1, delta: -2}}, f.catalog.adjustments)
}

func createPaidOrder(t *testing.T, f *serviceFixture) *domain.Order {
	t.Helper()
	order, err := f.service.CreateOrder(context.Background(), cardRequest())
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaid, order.Status)
	f.notifier.events = nil
	f.catalog.adjustments = nil
	return order
}

func TestUpdateOrderStatus_ValidTransition(t *testing.T) {
	f := newServiceFixture()
	order := createPaidOrder(t, f)

	updated, err := f.service.UpdateOrderStatus(context.Background(), order.ID, &StatusUpdateRequest{
		Status:         domain.StatusProcessing,
		Notes:          "packed",
		TrackingNumber: "TRACK-9",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusProcessing, updated.Status)
	assert.Contains(t, updated.Notes, "packed")
	assert.Equal(t, "TRACK-9", updated.TrackingNumber)
	assert.Equal(t, []int64{order.ID}, f.locker.locked, "status change must run under the order lock")

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, domain.EventStatusUpdated, f.notifier.events[0].EventType)

	stored, err := f.repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, stored.Status)
}

func TestUpdateOrderStatus_InvalidTransition(t *testing.T) {
	f := newServiceFixture()
	order := createPaidOrder(t, f)

	_, err := f.service.UpdateOrderStatus(context.Background(), order.ID, &StatusUpdateRequest{Status: domain.StatusDelivered})

	require.Error(t, err)
	assert.True(t, domain.IsInvalidState(err))
	assert.Empty(t, f.notifier.events, "no event for a rejected transition")

	stored, err := f.repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, stored.Status, "status must stay unchanged")
}

func TestUpdateOrderStatus_UnknownOrder(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.UpdateOrderStatus(context.Background(), 999, &StatusUpdateRequest{Status: domain.StatusPaid})

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestUpdateOrderStatus_RefundTriggersPaymentRefund(t *testing.T) {
	f := newServiceFixture()
	order := createPaidOrder(t, f)

	updated, err := f.service.UpdateOrderStatus(context.Background(), order.ID, &StatusUpdateRequest{
		Status: domain.StatusRefunded,
		Notes:  "damaged goods",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRefunded, updated.Status)
	assert.Equal(t, []int64{77}, f.payment.refunded)
}

func TestUpdateOrderStatus_RefundFailureStillPersistsStatus(t *testing.T) {
	f := newServiceFixture()
	order := createPaidOrder(t, f)
	f.payment.refundErr = errDown

	updated, err := f.service.UpdateOrderStatus(context.Background(), order.ID, &StatusUpdateRequest{
		Status: domain.StatusRefunded,
	})

	// 退款失败上抛，但状态变更必须已经落库
	require.Error(t, err)
	assert.True(t, domain.IsPaymentProcessing(err))
	require.NotNil(t, updated)
	assert.Equal(t, domain.StatusRefunded, updated.Status)

	stored, findErr := f.repo.FindByID(context.Background(), order.ID)
	require.NoError(t, findErr)
	assert.Equal(t, domain.StatusRefunded, stored.Status)
}

func TestCancelOrder_RestoresStockAndCancelsPayment(t *testing.T) {
	f := newServiceFixture()
	order := createPaidOrder(t, f)

	cancelled, err := f.service.CancelOrder(context.Background(), order.ID, "changed my mind")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Contains(t, cancelled.Notes, "Cancel reason: changed my mind")
	assert.Equal(t, []int64{77}, f.payment.cancelled)
	// 每个条目各回补一次库存
	assert.Equal(t, []stockAdjustment{{productID: 1, delta: 2}, {productID: 2, delta: 1}}, f.catalog.adjustments)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, domain.EventOrderCancelled, f.notifier.events[0].EventType)
}

func TestCancelOrder_PaymentCancellationFailureDoesNotBlock(t *testing.T) {
	f := newServiceFixture()
	order := createPaidOrder(t, f)
	f.payment.cancelErr = errDown

	cancelled, err := f.service.CancelOrder(context.Background(), order.ID, "late delivery")
	require.NoError(t, err, "payment cancellation is best effort")

	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	// 库存回补不受支付取消失败影响
	assert.Equal(t, []stockAdjustment{{productID: 1, delta: 2}, {productID: 2, delta: 1}}, f.catalog.adjustments)
}

func TestCancelOrder_RejectedAfterShipping(t *testing.T) {
	f := newServiceFixture()
	order := createPaidOrder(t, f)
	for _, status := range []domain.Status{domain.StatusProcessing, domain.StatusShipping, domain.StatusDelivered} {
		_, err := f.service.UpdateOrderStatus(context.Background(), order.ID, &StatusUpdateRequest{Status: status})
		require.NoError(t, err)
	}
	f.catalog.adjustments = nil

	_, err := f.service.CancelOrder(context.Background(), order.ID, "too late")

	require.Error(t, err)
	assert.True(t, domain.IsInvalidState(err))
	assert.Empty(t, f.catalog.adjustments, "no stock movement for a rejected cancellation")
	assert.Empty(t, f.payment.cancelled)
}

func TestCancelOrder_WithoutReasonSkipsNote(t *testing.T) {
	f := newServiceFixture()
	order := createPaidOrder(t, f)

	cancelled, err := f.service.CancelOrder(context.Background(), order.ID, "")
	require.NoError(t, err)
	assert.NotContains(t, cancelled.Notes, "Cancel reason:")
}

func TestGetOrderPaymentStatus(t *testing.T) {
	f := newServiceFixture()
	order := createPaidOrder(t, f)

	result, err := f.service.GetOrderPaymentStatus(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, result.Status)
}

func TestGetOrderPaymentStatus_NoPayment(t *testing.T) {
	f := newServiceFixture()
	req := cardRequest()
	req.PaymentMethod = domain.PaymentMethodCash
	order, err := f.service.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	_, err = f.service.GetOrderPaymentStatus(context.Background(), order.ID)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestGetOrderPaymentStatus_PlaceholderPaymentIsPending(t *testing.T) {
	f := newServiceFixture()
	f.payment.processErr = errDown
	order, err := f.service.CreateOrder(context.Background(), cardRequest())
	require.NoError(t, err)
	require.NotNil(t, order.PaymentID)
	require.Negative(t, *order.PaymentID)

	result, err := f.service.GetOrderPaymentStatus(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, result.Status)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.GetOrderByID(context.Background(), 404)

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}
