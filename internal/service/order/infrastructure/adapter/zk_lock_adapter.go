package adapter

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"storefront/internal/pkg/zookeeper"
)

// ZkOrderLocker 基于 ZooKeeper 临时顺序节点实现 port.OrderLocker。
type ZkOrderLocker struct {
	conn *zookeeper.Conn
}

// NewZkOrderLocker 创建一个订单锁适配器。
func NewZkOrderLocker(conn *zookeeper.Conn) *ZkOrderLocker {
	return &ZkOrderLocker{conn: conn}
}

// WithLock 在持有订单级分布式锁期间执行 fn。
func (l *ZkOrderLocker) WithLock(ctx context.Context, orderID int64, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock, err := zookeeper.NewDistributedLock(l.conn, fmt.Sprintf("order-%d", orderID))
	if err != nil {
		return errors.Wrap(err, "failed to prepare order lock")
	}
	if err := lock.Lock(); err != nil {
		return errors.Wrapf(err, "failed to acquire lock for order %d", orderID)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn().Err(err).Int64("order_id", orderID).Msg("failed to release order lock")
		}
	}()
	return fn()
}
