package domain

// Status 定义了订单的生命周期状态
type Status string

const (
	StatusCreated    Status = "CREATED"    // 订单已创建，尚未支付
	StatusPending    Status = "PENDING"    // 等待支付（货到付款走此状态）
	StatusPaid       Status = "PAID"       // 已支付
	StatusProcessing Status = "PROCESSING" // 处理中
	StatusShipping   Status = "SHIPPING"   // 已发货
	StatusDelivered  Status = "DELIVERED"  // 已送达
	StatusCompleted  Status = "COMPLETED"  // 已完成
	StatusCancelled  Status = "CANCELLED"  // 已取消
	StatusRefunded   Status = "REFUNDED"   // 已退款，终态
)

// AllStatuses 用于校验外部输入的状态值
var AllStatuses = []Status{
	StatusCreated, StatusPending, StatusPaid, StatusProcessing,
	StatusShipping, StatusDelivered, StatusCompleted, StatusCancelled, StatusRefunded,
}

// statusTransitions 是固定的状态流转表。
// 不在表中的流转一律非法；REFUNDED 是终态，不允许任何流出。
var statusTransitions = map[Status][]Status{
	StatusCreated:    {StatusPending, StatusCancelled, StatusPaid},
	StatusPending:    {StatusPaid, StatusCancelled},
	StatusPaid:       {StatusProcessing, StatusCancelled, StatusRefunded},
	StatusProcessing: {StatusShipping, StatusCancelled, StatusRefunded},
	StatusShipping:   {StatusDelivered, StatusRefunded},
	StatusDelivered:  {StatusCompleted, StatusRefunded},
	StatusCompleted:  {StatusRefunded},
	StatusCancelled:  {StatusRefunded},
	StatusRefunded:   {},
}

// ParseStatus 将外部传入的字符串转换为 Status
func ParseStatus(s string) (Status, error) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", NewInvalidState("unknown order status: " + s)
}

// ValidateTransition 校验从 current 到 next 的状态流转是否合法。
// 同状态视为空操作，直接放行。纯函数，无任何副作用。
func ValidateTransition(current, next Status) error {
	if current == next {
		return nil
	}

	allowed, ok := statusTransitions[current]
	if !ok {
		return NewInvalidState("unknown order status: " + string(current))
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return NewInvalidState("cannot change status from " + string(current) + " to " + string(next))
}

// CanBeCancelled 判断当前状态下订单是否还允许取消。
// 已发货之后（SHIPPING/DELIVERED/COMPLETED）以及已退款的订单不可取消。
func CanBeCancelled(status Status) bool {
	switch status {
	case StatusShipping, StatusDelivered, StatusCompleted, StatusRefunded:
		return false
	default:
		return true
	}
}
