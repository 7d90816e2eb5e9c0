package application

import "storefront/internal/service/order/domain"

// CreateOrderRequest 是创建订单用例的输入数据。
// 支付凭据按支付方式选填，构造支付请求时只取匹配的字段。
type CreateOrderRequest struct {
	UserID          int64
	ShippingAddress string
	BillingAddress  string
	PaymentMethod   domain.PaymentMethod
	Notes           string

	CardNumber     string
	CardHolderName string
	ExpiryDate     string
	CVV            string

	WalletID string
}

// StatusUpdateRequest 是更新订单状态用例的输入数据
type StatusUpdateRequest struct {
	Status         domain.Status
	Notes          string
	TrackingNumber string
}

// buildPaymentRequest 把订单和下单请求组装成支付协作方的请求。
// 方式编码来自全量映射表，凭据字段按编码挑选。
func buildPaymentRequest(order *domain.Order, req *CreateOrderRequest) *domain.PaymentRequest {
	code := order.PaymentMethod.ServiceCode()
	payment := &domain.PaymentRequest{
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		PaymentMethod: code,
	}
	switch code {
	case domain.PaymentCodeCreditCard, domain.PaymentCodeDebitCard:
		payment.CardNumber = req.CardNumber
		payment.CardHolderName = req.CardHolderName
		payment.ExpiryDate = req.ExpiryDate
		payment.CVV = req.CVV
	case domain.PaymentCodeElectronicWallet:
		payment.WalletID = req.WalletID
	}
	return payment
}
