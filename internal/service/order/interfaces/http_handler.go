package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/service/order/application"
	"storefront/internal/service/order/domain"
)

const serviceName = "order-service"

// OrderService 是 HTTP 层对应用服务的依赖。
type OrderService interface {
	CreateOrder(ctx context.Context, req *application.CreateOrderRequest) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, req *application.StatusUpdateRequest) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID int64, reason string) (*domain.Order, error)
	GetOrderByID(ctx context.Context, orderID int64) (*domain.Order, error)
	GetOrderPaymentStatus(ctx context.Context, orderID int64) (*domain.PaymentResult, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error)
	GetOrdersByStatus(ctx context.Context, status domain.Status, page, size int) ([]*domain.Order, int64, error)
	GetOrdersByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error)
}

// OrderHandler 封装了订单服务的 HTTP 处理器
type OrderHandler struct {
	service OrderService
}

// NewOrderHandler 创建一个新的 HTTP 处理器实例
func NewOrderHandler(service OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("GET /api/orders/{orderId}", h.getOrder)
	mux.HandleFunc("GET /api/orders/user/{userId}", h.getOrdersByUser)
	mux.HandleFunc("GET /api/orders/status/{status}", h.getOrdersByStatus)
	mux.HandleFunc("GET /api/orders/date-range", h.getOrdersByDateRange)
	mux.HandleFunc("GET /api/orders/{orderId}/payment", h.getOrderPaymentStatus)
	mux.HandleFunc("PUT /api/orders/{orderId}/status", h.updateOrderStatus)
	mux.HandleFunc("PUT /api/orders/{orderId}/cancel", h.cancelOrder)
}

type createOrderRequest struct {
	UserID          int64  `json:"userId"`
	ShippingAddress string `json:"shippingAddress"`
	BillingAddress  string `json:"billingAddress"`
	PaymentMethod   string `json:"paymentMethod"`
	Notes           string `json:"notes"`
	CardNumber      string `json:"cardNumber"`
	CardHolderName  string `json:"cardHolderName"`
	ExpiryDate      string `json:"expiryDate"`
	CVV             string `json:"cvv"`
	WalletID        string `json:"walletId"`
}

type statusUpdateRequest struct {
	Status         string `json:"status"`
	Notes          string `json:"notes"`
	TrackingNumber string `json:"trackingNumber"`
}

type orderItemResponse struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

type orderResponse struct {
	ID              int64               `json:"id"`
	UserID          int64               `json:"userId"`
	Username        string              `json:"username"`
	OrderDate       time.Time           `json:"orderDate"`
	Status          string              `json:"status"`
	TotalAmount     float64             `json:"totalAmount"`
	ShippingAddress string              `json:"shippingAddress"`
	BillingAddress  string              `json:"billingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	TrackingNumber  string              `json:"trackingNumber,omitempty"`
	Items           []orderItemResponse `json:"items"`
	Notes           string              `json:"notes,omitempty"`
	LastUpdated     time.Time           `json:"lastUpdated"`
	PaymentID       *int64              `json:"paymentId,omitempty"`
}

type paymentStatusResponse struct {
	PaymentID     int64  `json:"paymentId"`
	Status        string `json:"status"`
	TransactionID string `json:"transactionId,omitempty"`
	Message       string `json:"message,omitempty"`
}

type pagedOrdersResponse struct {
	Orders []*orderResponse `json:"orders"`
	Total  int64            `json:"total"`
	Page   int              `json:"page"`
	Size   int              `json:"size"`
}

func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "order.CreateOrder")
	defer span.End()

	var body createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	method, err := domain.ParsePaymentMethod(body.PaymentMethod)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.service.CreateOrder(ctx, &application.CreateOrderRequest{
		UserID:          body.UserID,
		ShippingAddress: body.ShippingAddress,
		BillingAddress:  body.BillingAddress,
		PaymentMethod:   method,
		Notes:           body.Notes,
		CardNumber:      body.CardNumber,
		CardHolderName:  body.CardHolderName,
		ExpiryDate:      body.ExpiryDate,
		CVV:             body.CVV,
		WalletID:        body.WalletID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "order.GetOrder")
	defer span.End()

	orderID, ok := pathInt64(w, r, "orderId")
	if !ok {
		return
	}
	order, err := h.service.GetOrderByID(ctx, orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) getOrdersByUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "order.GetOrdersByUser")
	defer span.End()

	userID, ok := pathInt64(w, r, "userId")
	if !ok {
		return
	}
	orders, err := h.service.GetOrdersByUserID(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) getOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "order.GetOrdersByStatus")
	defer span.End()

	status, err := domain.ParseStatus(r.PathValue("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 {
		size = 10
	}

	orders, total, err := h.service.GetOrdersByStatus(ctx, status, page, size)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &pagedOrdersResponse{
		Orders: toOrderResponses(orders),
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

func (h *OrderHandler) getOrdersByDateRange(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "order.GetOrdersByDateRange")
	defer span.End()

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("startDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate, expected RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("endDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate, expected RFC3339")
		return
	}

	orders, err := h.service.GetOrdersByDateRange(ctx, start, end)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) getOrderPaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "order.GetOrderPaymentStatus")
	defer span.End()

	orderID, ok := pathInt64(w, r, "orderId")
	if !ok {
		return
	}
	result, err := h.service.GetOrderPaymentStatus(ctx, orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &paymentStatusResponse{
		PaymentID:     result.PaymentID,
		Status:        result.Status,
		TransactionID: result.TransactionID,
		Message:       result.Message,
	})
}

func (h *OrderHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "order.UpdateOrderStatus")
	defer span.End()

	orderID, ok := pathInt64(w, r, "orderId")
	if !ok {
		return
	}
	var body statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status, err := domain.ParseStatus(body.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.service.UpdateOrderStatus(ctx, orderID, &application.StatusUpdateRequest{
		Status:         status,
		Notes:          body.Notes,
		TrackingNumber: body.TrackingNumber,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "order.CancelOrder")
	defer span.End()

	orderID, ok := pathInt64(w, r, "orderId")
	if !ok {
		return
	}
	reason := r.URL.Query().Get("reason")

	order, err := h.service.CancelOrder(ctx, orderID, reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// startSpan 提取上游链路上下文并开启本服务的 span
func startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	tracer := otel.Tracer(serviceName)
	return tracer.Start(ctx, name)
}

func pathInt64(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	value, err := strconv.ParseInt(r.PathValue(key), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+key)
		return 0, false
	}
	return value, true
}

func toOrderResponse(order *domain.Order) *orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}
	return &orderResponse{
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
		Items:           items,
		Notes:           order.Notes,
		LastUpdated:     order.LastUpdated,
		PaymentID:       order.PaymentID,
	}
}

func toOrderResponses(orders []*domain.Order) []*orderResponse {
	out := make([]*orderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError 把领域错误翻译成 HTTP 状态码。
// 支付处理中的错误返回 502，提示客户端稍后查询订单状态。
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case domain.IsInvalidState(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case domain.IsPaymentProcessing(err):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		log.Error().Err(err).Msg("unhandled error in http layer")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
