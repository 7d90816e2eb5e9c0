package domain

import "fmt"

// PaymentMethod 是订单侧的支付方式枚举
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "CARD" // 银行卡
	PaymentMethodFPS  PaymentMethod = "FPS"  // 快捷支付/电子钱包
	PaymentMethodCash PaymentMethod = "CASH" // 货到付款
)

// AllPaymentMethods 列出全部支付方式，供映射表做完整性检查
var AllPaymentMethods = []PaymentMethod{PaymentMethodCard, PaymentMethodFPS, PaymentMethodCash}

// 支付协作方使用的方式编码
const (
	PaymentCodeCreditCard       = "CREDIT_CARD"
	PaymentCodeDebitCard        = "DEBIT_CARD"
	PaymentCodeElectronicWallet = "ELECTRONIC_WALLET"
	PaymentCodeCashOnDelivery   = "CASH_ON_DELIVERY"
)

// 支付协作方返回的支付状态
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusRefunded  = "REFUNDED"
	PaymentStatusCancelled = "CANCELLED"
)

// paymentMethodCodes 是订单支付方式到协作方编码的全量映射表
var paymentMethodCodes = map[PaymentMethod]string{
	PaymentMethodCard: PaymentCodeCreditCard,
	PaymentMethodFPS:  PaymentCodeElectronicWallet,
	PaymentMethodCash: PaymentCodeCashOnDelivery,
}

// 映射表在包加载时做一次完整性检查，漏掉任何支付方式都直接失败
func init() {
	for _, method := range AllPaymentMethods {
		if _, ok := paymentMethodCodes[method]; !ok {
			panic(fmt.Sprintf("payment method %s has no collaborator code mapping", method))
		}
	}
}

// ParsePaymentMethod 将外部传入的字符串转换为 PaymentMethod
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for _, method := range AllPaymentMethods {
		if string(method) == s {
			return method, nil
		}
	}
	return "", NewInvalidState("unknown payment method: " + s)
}

// ServiceCode 返回支付协作方所使用的方式编码
func (m PaymentMethod) ServiceCode() string {
	return paymentMethodCodes[m]
}

// PaymentRequest 是发给支付协作方的请求。
// 凭据字段按支付方式选填：卡类走卡字段，电子钱包走 WalletID。
type PaymentRequest struct {
	OrderID       int64
	Amount        float64
	PaymentMethod string // 协作方编码，见 ServiceCode

	CardNumber     string
	CardHolderName string
	ExpiryDate     string
	CVV            string

	WalletID string
}

// PaymentResult 是支付协作方的应答
type PaymentResult struct {
	PaymentID     int64
	Status        string
	TransactionID string
	Message       string
}
