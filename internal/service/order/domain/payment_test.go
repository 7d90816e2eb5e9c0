package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMethod_ServiceCode(t *testing.T) {
	assert.Equal(t, PaymentCodeCreditCard, PaymentMethodCard.ServiceCode())
	assert.Equal(t, PaymentCodeElectronicWallet, PaymentMethodFPS.ServiceCode())
	assert.Equal(t, PaymentCodeCashOnDelivery, PaymentMethodCash.ServiceCode())
}

func TestPaymentMethod_MappingIsTotal(t *testing.T) {
	for _, method := range AllPaymentMethods {
		assert.NotEmpty(t, method.ServiceCode(), "method %s has no collaborator code", method)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	method, err := ParsePaymentMethod("FPS")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodFPS, method)

	_, err = ParsePaymentMethod("BITCOIN")
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))
}
