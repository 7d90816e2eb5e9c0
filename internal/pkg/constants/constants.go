package constants

// 协作方在注册中心里的服务名
const (
	CartService    = "cart-service"
	CatalogService = "catalog-service"
	PaymentService = "payment-service"
)

// 购物车协作方的路径
const (
	CartByUserPathFmt = "/api/carts/user/%d"
)

// 目录协作方的路径
const (
	CatalogProductPathFmt = "/api/catalog/%d"
)

// 支付协作方的路径
const (
	PaymentsPath       = "/api/payments"
	PaymentByIDPathFmt = "/api/payments/%d"
	PaymentRefundPath  = "/api/payments/refund"
)
