package domain

import (
	"strings"
	"time"
)

// Order 是订单聚合的根实体。
// 创建之后条目不再增删，只有状态、备注、运单号和支付ID会变化。
type Order struct {
	ID              int64
	UserID          int64
	Username        string // 下单时从购物车快照的用户名
	OrderDate       time.Time
	Status          Status
	TotalAmount     float64 // 创建时按条目小计求和，之后不再重算
	ShippingAddress string
	BillingAddress  string
	PaymentMethod   PaymentMethod
	TrackingNumber  string
	Items           []OrderItem
	Notes           string // 追加式的人类可读备注，换行分隔
	LastUpdated     time.Time
	PaymentID       *int64 // 外部支付记录引用；负数表示支付服务不可用时的占位
}

// OrderItem 是订单条目值对象，生命周期完全归属于所在订单。
// 价格与名称都是下单时刻的快照。
type OrderItem struct {
	ID          int64
	ProductID   int64
	ProductName string
	Price       float64
	Quantity    int
	Subtotal    float64
}

// NewOrder 工厂函数，从购物车快照构建一个 CREATED 状态的新订单
func NewOrder(userID int64, cart *Cart, shippingAddress, billingAddress string, method PaymentMethod, notes string) (*Order, error) {
	if len(cart.Items) == 0 {
		return nil, NewInvalidState("cart is empty, nothing to order")
	}
	now := time.Now()
	return &Order{
		UserID:          userID,
		Username:        cart.Username,
		OrderDate:       now,
		Status:          StatusCreated,
		TotalAmount:     cart.TotalAmount,
		ShippingAddress: shippingAddress,
		BillingAddress:  billingAddress,
		PaymentMethod:   method,
		Notes:           notes,
		LastUpdated:     now,
	}, nil
}

// NewOrderItem 从购物车条目创建订单条目快照，数量必须为正
func NewOrderItem(item CartItem) (OrderItem, error) {
	if item.Quantity <= 0 {
		return OrderItem{}, NewInvalidState("item quantity must be positive")
	}
	return OrderItem{
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Price:       item.Price,
		Quantity:    item.Quantity,
		Subtotal:    item.Price * float64(item.Quantity),
	}, nil
}

// AddItem 将条目挂到订单上
func (o *Order) AddItem(item OrderItem) {
	o.Items = append(o.Items, item)
	o.touch()
}

// TransitionTo 执行一次经过状态机校验的状态流转
func (o *Order) TransitionTo(next Status) error {
	if err := ValidateTransition(o.Status, next); err != nil {
		return err
	}
	o.Status = next
	o.touch()
	return nil
}

// AppendNote 追加一条备注，空串忽略
func (o *Order) AppendNote(note string) {
	if strings.TrimSpace(note) == "" {
		return
	}
	if o.Notes == "" {
		o.Notes = note
	} else {
		o.Notes = o.Notes + "\n" + note
	}
	o.touch()
}

// SetTrackingNumber 设置运单号，空串忽略
func (o *Order) SetTrackingNumber(trackingNumber string) {
	if trackingNumber == "" {
		return
	}
	o.TrackingNumber = trackingNumber
	o.touch()
}

// AttachPayment 记录外部支付ID
func (o *Order) AttachPayment(paymentID int64) {
	o.PaymentID = &paymentID
	o.touch()
}

func (o *Order) touch() {
	o.LastUpdated = time.Now()
}

// Cart 是购物车协作方返回的快照
type Cart struct {
	UserID      int64
	Username    string
	TotalAmount float64
	Items       []CartItem
}

// CartItem 是购物车中的一个条目
type CartItem struct {
	ProductID   int64
	ProductName string
	Price       float64
	Quantity    int
}

// Product 是目录协作方返回的商品信息
type Product struct {
	ID        int64
	Name      string
	Price     float64
	Available bool
}
