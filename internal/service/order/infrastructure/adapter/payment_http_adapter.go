package adapter

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/pkg/constants"
	"storefront/internal/pkg/httpclient"
	"storefront/internal/service/order/domain"
)

// PaymentHTTPAdapter 实现了 port.PaymentService 接口。
type PaymentHTTPAdapter struct {
	client *httpclient.Client
}

// NewPaymentHTTPAdapter 创建一个新的支付服务适配器。
func NewPaymentHTTPAdapter(client *httpclient.Client) *PaymentHTTPAdapter {
	return &PaymentHTTPAdapter{client: client}
}

type paymentRequest struct {
	OrderID        int64   `json:"orderId"`
	Amount         float64 `json:"amount"`
	PaymentMethod  string  `json:"paymentMethod"`
	CardNumber     string  `json:"cardNumber,omitempty"`
	CardHolderName string  `json:"cardHolderName,omitempty"`
	ExpiryDate     string  `json:"expiryDate,omitempty"`
	CVV            string  `json:"cvv,omitempty"`
	WalletID       string  `json:"walletId,omitempty"`
}

type refundRequest struct {
	PaymentID int64  `json:"paymentId"`
	Reason    string `json:"reason"`
}

type paymentResponse struct {
	ID            int64  `json:"id"`
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
	Message       string `json:"message"`
}

// ProcessPayment 发起一笔支付。
func (a *PaymentHTTPAdapter) ProcessPayment(ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentResult, error) {
	body := &paymentRequest{
		OrderID:        req.OrderID,
		Amount:         req.Amount,
		PaymentMethod:  req.PaymentMethod,
		CardNumber:     req.CardNumber,
		CardHolderName: req.CardHolderName,
		ExpiryDate:     req.ExpiryDate,
		CVV:            req.CVV,
		WalletID:       req.WalletID,
	}
	var resp paymentResponse
	if err := a.client.DoJSON(ctx, http.MethodPost, constants.PaymentService, constants.PaymentsPath, nil, body, &resp); err != nil {
		return nil, translateCollaboratorError(constants.PaymentService, err, nil)
	}
	return toPaymentResult(&resp), nil
}

// CancelPayment 取消一笔支付。
func (a *PaymentHTTPAdapter) CancelPayment(ctx context.Context, paymentID int64) error {
	path := fmt.Sprintf(constants.PaymentByIDPathFmt, paymentID)
	if err := a.client.DoJSON(ctx, http.MethodDelete, constants.PaymentService, path, nil, nil, nil); err != nil {
		return translateCollaboratorError(constants.PaymentService, err,
			domain.NewNotFound("payment not found: %d", paymentID))
	}
	return nil
}

// RefundPayment 对一笔支付发起退款。
// 协作方应答状态不是 REFUNDED 时按退款失败处理。
func (a *PaymentHTTPAdapter) RefundPayment(ctx context.Context, paymentID int64, reason string) (*domain.PaymentResult, error) {
	body := &refundRequest{PaymentID: paymentID, Reason: reason}
	var resp paymentResponse
	if err := a.client.DoJSON(ctx, http.MethodPost, constants.PaymentService, constants.PaymentRefundPath, nil, body, &resp); err != nil {
		return nil, translateCollaboratorError(constants.PaymentService, err,
			domain.NewNotFound("payment not found: %d", paymentID))
	}
	if resp.Status != domain.PaymentStatusRefunded {
		return nil, domain.NewPaymentProcessing(
			"refund for payment %d was not accepted, status: %s", paymentID, resp.Status)
	}
	return toPaymentResult(&resp), nil
}

// GetPaymentStatus 查询支付状态。
func (a *PaymentHTTPAdapter) GetPaymentStatus(ctx context.Context, paymentID int64) (*domain.PaymentResult, error) {
	path := fmt.Sprintf(constants.PaymentByIDPathFmt, paymentID)
	var resp paymentResponse
	if err := a.client.DoJSON(ctx, http.MethodGet, constants.PaymentService, path, nil, nil, &resp); err != nil {
		return nil, translateCollaboratorError(constants.PaymentService, err,
			domain.NewNotFound("payment not found: %d", paymentID))
	}
	return toPaymentResult(&resp), nil
}

func toPaymentResult(resp *paymentResponse) *domain.PaymentResult {
	return &domain.PaymentResult{
		PaymentID:     resp.ID,
		Status:        resp.Status,
		TransactionID: resp.TransactionID,
		Message:       resp.Message,
	}
}
