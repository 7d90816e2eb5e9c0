package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"storefront/internal/pkg/redis"
	"storefront/internal/service/order/domain"
)

const orderCacheTTL = 5 * time.Minute

// CachedOrderRepository 在仓储之上增加一层 Redis 读缓存。
// 只缓存按主键的单条查询，写路径负责失效；缓存故障时退化为直查数据库。
type CachedOrderRepository struct {
	inner domain.OrderRepository
	cache *redis.Client
}

// NewCachedOrderRepository 包装一个仓储实例
func NewCachedOrderRepository(inner domain.OrderRepository, cache *redis.Client) *CachedOrderRepository {
	return &CachedOrderRepository{inner: inner, cache: cache}
}

func orderCacheKey(id int64) string {
	return fmt.Sprintf("order:%d", id)
}

// Create 透传创建请求，主键生成后预热缓存
func (r *CachedOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := r.inner.Create(ctx, order); err != nil {
		return err
	}
	r.put(ctx, order)
	return nil
}

// FindByID 先查缓存，未命中回源并写回
func (r *CachedOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	key := orderCacheKey(id)
	data, err := r.cache.Get(ctx, key)
	if err == nil {
		var order domain.Order
		if err := json.Unmarshal(data, &order); err == nil {
			return &order, nil
		}
		// 缓存内容损坏，删除后回源
		_ = r.cache.Del(ctx, key)
	} else if err != redis.ErrCacheMiss {
		log.Warn().Err(err).Int64("order_id", id).Msg("order cache read failed, falling back to db")
	}

	order, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.put(ctx, order)
	return order, nil
}

// Update 先落库再失效缓存，避免读到旧状态
func (r *CachedOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	if err := r.inner.Update(ctx, order); err != nil {
		return err
	}
	if err := r.cache.Del(ctx, orderCacheKey(order.ID)); err != nil {
		log.Warn().Err(err).Int64("order_id", order.ID).Msg("order cache invalidation failed")
	}
	return nil
}

// FindByUserID 集合查询不走缓存
func (r *CachedOrderRepository) FindByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return r.inner.FindByUserID(ctx, userID)
}

// FindByStatus 集合查询不走缓存
func (r *CachedOrderRepository) FindByStatus(ctx context.Context, status domain.Status, page, size int) ([]*domain.Order, int64, error) {
	return r.inner.FindByStatus(ctx, status, page, size)
}

// FindByDateRange 集合查询不走缓存
func (r *CachedOrderRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	return r.inner.FindByDateRange(ctx, start, end)
}

func (r *CachedOrderRepository) put(ctx context.Context, order *domain.Order) {
	data, err := json.Marshal(order)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, orderCacheKey(order.ID), data, orderCacheTTL); err != nil {
		log.Warn().Err(err).Int64("order_id", order.ID).Msg("order cache write failed")
	}
}
