package application

import (
	"context"
	"time"

	"storefront/internal/service/order/domain"
)

// fakeRepo 是内存版的 OrderRepository
type fakeRepo struct {
	orders    map[int64]*domain.Order
	nextID    int64
	createErr error
	updateErr error
	updated   []domain.Status // 每次 Update 时的订单状态，按调用顺序
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: map[int64]*domain.Order{}, nextID: 1}
}

func (r *fakeRepo) Create(_ context.Context, order *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	order.ID = r.nextID
	r.nextID++
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.NewOrderNotFound(id)
	}
	clone := *order
	return &clone, nil
}

func (r *fakeRepo) Update(_ context.Context, order *domain.Order) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.orders[order.ID]; !ok {
		return domain.NewOrderNotFound(order.ID)
	}
	clone := *order
	r.orders[order.ID] = &clone
	r.updated = append(r.updated, order.Status)
	return nil
}

func (r *fakeRepo) FindByUserID(_ context.Context, userID int64) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindByStatus(_ context.Context, status domain.Status, page, size int) ([]*domain.Order, int64, error) {
	var out []*domain.Order
	for _, order := range r.orders {
		if order.Status == status {
			out = append(out, order)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) FindByDateRange(_ context.Context, start, end time.Time) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range r.orders {
		if !order.OrderDate.Before(start) && !order.OrderDate.After(end) {
			out = append(out, order)
		}
	}
	return out, nil
}

// fakeCart 可配置的购物车协作方
type fakeCart struct {
	cart      *domain.Cart
	getErr    error
	clearErr  error
	cleared   int
	getCalled int
}

func (c *fakeCart) GetCart(_ context.Context, userID int64) (*domain.Cart, error) {
	c.getCalled++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.cart, nil
}

func (c *fakeCart) ClearCart(_ context.Context, userID int64) error {
	c.cleared++
	return c.clearErr
}

// fakeCatalog 可配置的目录/库存协作方
type fakeCatalog struct {
	products     map[int64]*domain.Product
	getErr       error
	adjustErr    error
	adjustErrFor map[int64]error // 按商品定制的调库存错误
	adjustments  []stockAdjustment
}

type stockAdjustment struct {
	productID int64
	delta     int
}

func (c *fakeCatalog) GetProduct(_ context.Context, productID int64) (*domain.Product, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	product, ok := c.products[productID]
	if !ok {
		return nil, domain.NewNotFound("product not found: %d", productID)
	}
	return product, nil
}

func (c *fakeCatalog) AdjustStock(_ context.Context, productID int64, delta int) error {
	if c.adjustErr != nil {
		return c.adjustErr
	}
	if err, ok := c.adjustErrFor[productID]; ok {
		return err
	}
	c.adjustments = append(c.adjustments, stockAdjustment{productID: productID, delta: delta})
	return nil
}

// fakePayment 可配置的支付协作方
type fakePayment struct {
	result     *domain.PaymentResult
	processErr error
	cancelErr  error
	refundErr  error
	cancelled  []int64
	refunded   []int64
	processed  []*domain.PaymentRequest
}

func (p *fakePayment) ProcessPayment(_ context.Context, req *domain.PaymentRequest) (*domain.PaymentResult, error) {
	p.processed = append(p.processed, req)
	if p.processErr != nil {
		return nil, p.processErr
	}
	return p.result, nil
}

func (p *fakePayment) CancelPayment(_ context.Context, paymentID int64) error {
	if p.cancelErr != nil {
		return p.cancelErr
	}
	p.cancelled = append(p.cancelled, paymentID)
	return nil
}

func (p *fakePayment) RefundPayment(_ context.Context, paymentID int64, reason string) (*domain.PaymentResult, error) {
	if p.refundErr != nil {
		return nil, p.refundErr
	}
	p.refunded = append(p.refunded, paymentID)
	return &domain.PaymentResult{PaymentID: paymentID, Status: domain.PaymentStatusRefunded}, nil
}

func (p *fakePayment) GetPaymentStatus(_ context.Context, paymentID int64) (*domain.PaymentResult, error) {
	return &domain.PaymentResult{PaymentID: paymentID, Status: domain.PaymentStatusCompleted}, nil
}

// fakeNotifier 记录发出的事件
type fakeNotifier struct {
	sendErr error
	events  []*domain.OrderNotification
}

func (n *fakeNotifier) SendOrderEvent(_ context.Context, event *domain.OrderNotification) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.events = append(n.events, event)
	return nil
}

// fakeLocker 直接执行，记录加锁次数
type fakeLocker struct {
	locked []int64
}

func (l *fakeLocker) WithLock(_ context.Context, orderID int64, fn func() error) error {
	l.locked = append(l.locked, orderID)
	return fn()
}
