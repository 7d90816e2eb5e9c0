package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCart() *Cart {
	return &Cart{
		UserID:      42,
		Username:    "alice",
		TotalAmount: 250,
		Items: []CartItem{
			{ProductID: 1, ProductName: "Keyboard", Price: 100, Quantity: 2},
			{ProductID: 2, ProductName: "Mouse", Price: 50, Quantity: 1},
		},
	}
}

func TestNewOrder(t *testing.T) {
	order, err := NewOrder(42, testCart(), "1 Main St", "2 Billing Rd", PaymentMethodCard, "gift wrap")
	require.NoError(t, err)

	assert.Equal(t, StatusCreated, order.Status)
	assert.Equal(t, int64(42), order.UserID)
	assert.Equal(t, "alice", order.Username)
	assert.Equal(t, 250.0, order.TotalAmount)
	assert.Equal(t, "gift wrap", order.Notes)
	assert.Nil(t, order.PaymentID)
	assert.False(t, order.OrderDate.IsZero())
}

func TestNewOrder_EmptyCart(t *testing.T) {
	_, err := NewOrder(42, &Cart{UserID: 42}, "", "", PaymentMethodCash, "")
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))
}

func TestNewOrderItem_Subtotal(t *testing.T) {
	item, err := NewOrderItem(CartItem{ProductID: 1, ProductName: "Keyboard", Price: 100, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 200.0, item.Subtotal)

	item, err = NewOrderItem(CartItem{ProductID: 2, ProductName: "Mouse", Price: 50, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 50.0, item.Subtotal)
}

func TestNewOrderItem_RejectsNonPositiveQuantity(t *testing.T) {
	_, err := NewOrderItem(CartItem{ProductID: 1, Price: 100, Quantity: 0})
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))

	_, err = NewOrderItem(CartItem{ProductID: 1, Price: 100, Quantity: -3})
	assert.Error(t, err)
}

func TestOrder_TransitionTo(t *testing.T) {
	order, err := NewOrder(42, testCart(), "", "", PaymentMethodCard, "")
	require.NoError(t, err)

	require.NoError(t, order.TransitionTo(StatusPaid))
	assert.Equal(t, StatusPaid, order.Status)

	err = order.TransitionTo(StatusDelivered)
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))
	assert.Equal(t, StatusPaid, order.Status, "failed transition must not change the status")
}

func TestOrder_AppendNote(t *testing.T) {
	order, err := NewOrder(42, testCart(), "", "", PaymentMethodCard, "")
	require.NoError(t, err)

	order.AppendNote("first")
	order.AppendNote("")
	order.AppendNote("  ")
	order.AppendNote("second")
	assert.Equal(t, "first\nsecond", order.Notes)
}

func TestOrder_SetTrackingNumber(t *testing.T) {
	order, err := NewOrder(42, testCart(), "", "", PaymentMethodCard, "")
	require.NoError(t, err)

	order.SetTrackingNumber("TRACK-1")
	order.SetTrackingNumber("")
	assert.Equal(t, "TRACK-1", order.TrackingNumber)
}

func TestOrder_AttachPayment(t *testing.T) {
	order, err := NewOrder(42, testCart(), "", "", PaymentMethodCard, "")
	require.NoError(t, err)

	order.AttachPayment(-7)
	require.NotNil(t, order.PaymentID)
	assert.Equal(t, int64(-7), *order.PaymentID)
}
