package infrastructure

import (
	"time"
)

// OrderModel 对应数据库中的 orders 表
type OrderModel struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	UserID          int64  `gorm:"index"`
	Username        string `gorm:"size:64"`
	OrderDate       time.Time
	Status          string  `gorm:"size:32;index"`
	TotalAmount     float64 `gorm:"type:decimal(10,2)"`
	ShippingAddress string  `gorm:"size:255"`
	BillingAddress  string  `gorm:"size:255"`
	PaymentMethod   string  `gorm:"size:32"`
	TrackingNumber  string  `gorm:"size:64"`
	Notes           string  `gorm:"type:text"`
	LastUpdated     time.Time
	PaymentID       *int64
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName 指定 GORM 应该使用的表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel 对应数据库中的 order_items 表
type OrderItemModel struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	OrderID     int64 `gorm:"index"`
	ProductID   int64
	ProductName string  `gorm:"size:128"`
	Price       float64 `gorm:"type:decimal(10,2)"`
	Quantity    int
	Subtotal    float64 `gorm:"type:decimal(10,2)"`
}

// TableName 指定 GORM 应该使用的表名
func (OrderItemModel) TableName() string {
	return "order_items"
}
