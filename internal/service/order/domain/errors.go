package domain

import (
	"errors"
	"fmt"
)

// 订单核心的错误分类。边界层按类型映射 HTTP 状态码：
// NotFound -> 404, InvalidState -> 400, PaymentProcessing -> 502。
// Unavailable 只在网关内部流转，除退款外不会穿透到编排层之上。

// NotFoundError 表示订单、商品、用户或支付记录不存在
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

func NewNotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

// NewOrderNotFound 构造订单不存在错误
func NewOrderNotFound(orderID int64) *NotFoundError {
	return NewNotFound("order not found with ID: %d", orderID)
}

// InvalidStateError 表示非法的状态流转、空购物车、商品不可用等业务规则冲突
type InvalidStateError struct {
	msg string
}

func (e *InvalidStateError) Error() string { return e.msg }

func NewInvalidState(msg string) *InvalidStateError {
	return &InvalidStateError{msg: msg}
}

// PaymentProcessingError 表示支付执行失败（含网关兜底后仍然失败的退款）
type PaymentProcessingError struct {
	msg string
}

func (e *PaymentProcessingError) Error() string { return e.msg }

func NewPaymentProcessing(format string, args ...any) *PaymentProcessingError {
	return &PaymentProcessingError{msg: fmt.Sprintf(format, args...)}
}

// UnavailableError 表示协作方不可达（超时、连接失败、5xx）。
// 由各个门面在传输层错误上包装产生，交给熔断网关做兜底处理。
type UnavailableError struct {
	Collaborator string
	Cause        error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("collaborator %s unavailable: %v", e.Collaborator, e.Cause)
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

func NewUnavailable(collaborator string, cause error) *UnavailableError {
	return &UnavailableError{Collaborator: collaborator, Cause: cause}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}

func IsPaymentProcessing(err error) bool {
	var target *PaymentProcessingError
	return errors.As(err, &target)
}

func IsUnavailable(err error) bool {
	var target *UnavailableError
	return errors.As(err, &target)
}

// IsDomainError 判断是否为业务错误。业务错误不计入熔断统计，
// 也不会触发任何兜底逻辑，必须原样上抛。
func IsDomainError(err error) bool {
	return IsNotFound(err) || IsInvalidState(err) || IsPaymentProcessing(err)
}
