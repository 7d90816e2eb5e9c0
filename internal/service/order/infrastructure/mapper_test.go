package infrastructure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/service/order/domain"
)

func TestOrderMapper_RoundTrip(t *testing.T) {
	paymentID := int64(77)
	now := time.Now().Truncate(time.Second)
	order := &domain.Order{
		ID:              9,
		UserID:          42,
		Username:        "alice",
		OrderDate:       now,
		Status:          domain.StatusPaid,
		TotalAmount:     250,
		ShippingAddress: "1 Main St",
		BillingAddress:  "2 Billing Rd",
		PaymentMethod:   domain.PaymentMethodCard,
		TrackingNumber:  "TRACK-9",
		Notes:           "first\nsecond",
		LastUpdated:     now,
		PaymentID:       &paymentID,
		Items: []domain.OrderItem{
			{ID: 1, ProductID: 1, ProductName: "Keyboard", Price: 100, Quantity: 2, Subtotal: 200},
			{ID: 2, ProductID: 2, ProductName: "Mouse", Price: 50, Quantity: 1, Subtotal: 50},
		},
	}

	model := FromDomainOrder(order)
	require.Len(t, model.Items, 2)
	assert.Equal(t, "PAID", model.Status)
	assert.Equal(t, "CARD", model.PaymentMethod)

	back := ToDomainOrder(model)
	assert.Equal(t, order, back)
}

func TestOrderMapper_NilSafe(t *testing.T) {
	assert.Nil(t, ToDomainOrder(nil))
	assert.Nil(t, FromDomainOrder(nil))
}
