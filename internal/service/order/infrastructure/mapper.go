package infrastructure

import (
	"storefront/internal/service/order/domain"
)

// ToDomainOrder 将数据库模型转换为领域模型
func ToDomainOrder(model *OrderModel) *domain.Order {
	if model == nil {
		return nil
	}
	items := make([]domain.OrderItem, 0, len(model.Items))
	for i := range model.Items {
		items = append(items, ToDomainOrderItem(&model.Items[i]))
	}
	return &domain.Order{
		ID:              model.ID,
		UserID:          model.UserID,
		Username:        model.Username,
		OrderDate:       model.OrderDate,
		Status:          domain.Status(model.Status),
		TotalAmount:     model.TotalAmount,
		ShippingAddress: model.ShippingAddress,
		BillingAddress:  model.BillingAddress,
		PaymentMethod:   domain.PaymentMethod(model.PaymentMethod),
		TrackingNumber:  model.TrackingNumber,
		Items:           items,
		Notes:           model.Notes,
		LastUpdated:     model.LastUpdated,
		PaymentID:       model.PaymentID,
	}
}

// ToDomainOrderItem 将数据库模型转换为领域模型
func ToDomainOrderItem(model *OrderItemModel) domain.OrderItem {
	return domain.OrderItem{
		ID:          model.ID,
		ProductID:   model.ProductID,
		ProductName: model.ProductName,
		Price:       model.Price,
		Quantity:    model.Quantity,
		Subtotal:    model.Subtotal,
	}
}

// FromDomainOrder 将领域模型转换为数据库模型 (用于插入)
func FromDomainOrder(order *domain.Order) *OrderModel {
	if order == nil {
		return nil
	}
	items := make([]OrderItemModel, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemModel{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}
	return &OrderModel{
		ID:              order.ID,
		UserID:          order.UserID,
		Username:        order.Username,
		OrderDate:       order.OrderDate,
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		PaymentMethod:   string(order.PaymentMethod),
		TrackingNumber:  order.TrackingNumber,
		Notes:           order.Notes,
		LastUpdated:     order.LastUpdated,
		PaymentID:       order.PaymentID,
		Items:           items,
	}
}
