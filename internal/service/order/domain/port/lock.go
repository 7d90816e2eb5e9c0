package port

import "context"

// OrderLocker 对同一订单上的并发变更做串行化。
// 状态校验到持久化之间横跨多次远程调用，不是原子的，
// 必须由一把按订单ID粒度的锁保护。
type OrderLocker interface {
	// WithLock 在持有 orderID 对应的锁期间执行 fn
	WithLock(ctx context.Context, orderID int64, fn func() error) error
}
