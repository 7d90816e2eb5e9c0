package domain

import (
	"context"
	"time"
)

// OrderRepository 定义了订单聚合的持久化接口。
// 它位于领域层，由基础设施层实现。单条查询未命中返回 NotFoundError，
// 集合查询未命中返回空集合而不是错误。
type OrderRepository interface {
	// Create 持久化一个新订单并回填存储分配的ID
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单聚合（含条目）
	FindByID(ctx context.Context, id int64) (*Order, error)

	// Update 保存订单的可变部分（状态、备注、运单号、支付ID）。
	// 条目在创建后不再变化，不参与更新。
	Update(ctx context.Context, order *Order) error

	// FindByUserID 查找某个用户的全部订单
	FindByUserID(ctx context.Context, userID int64) ([]*Order, error)

	// FindByStatus 按状态分页查找，按下单时间倒序。返回当页数据和总条数。
	FindByStatus(ctx context.Context, status Status, page, size int) ([]*Order, int64, error)

	// FindByDateRange 查找下单时间落在 [start, end] 区间内的订单
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*Order, error)
}
