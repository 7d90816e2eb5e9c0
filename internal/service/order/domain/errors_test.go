package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewOrderNotFound(7)))
	assert.True(t, IsInvalidState(NewInvalidState("bad")))
	assert.True(t, IsPaymentProcessing(NewPaymentProcessing("refund failed")))
	assert.True(t, IsUnavailable(NewUnavailable("cart-service", errors.New("timeout"))))

	plain := errors.New("boom")
	assert.False(t, IsNotFound(plain))
	assert.False(t, IsInvalidState(plain))
	assert.False(t, IsPaymentProcessing(plain))
	assert.False(t, IsUnavailable(plain))
}

func TestIsDomainError(t *testing.T) {
	assert.True(t, IsDomainError(NewOrderNotFound(7)))
	assert.True(t, IsDomainError(NewInvalidState("bad")))
	assert.True(t, IsDomainError(NewPaymentProcessing("refund failed")))

	// 协作方不可用是基础设施故障，要走熔断和兜底
	assert.False(t, IsDomainError(NewUnavailable("cart-service", errors.New("timeout"))))
	assert.False(t, IsDomainError(errors.New("boom")))
}

func TestUnavailableError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUnavailable("payment-service", cause)
	assert.ErrorIs(t, err, cause)
}
