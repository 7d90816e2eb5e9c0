package infrastructure

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"storefront/internal/service/order/domain"
)

// GormOrderRepository 是 OrderRepository 的 GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository 创建一个新的 GORM 仓储实例
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create 插入订单及其条目，并把数据库生成的主键回写到领域模型
func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	model := FromDomainOrder(order)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	order.ID = model.ID
	for i := range model.Items {
		order.Items[i].ID = model.Items[i].ID
	}
	return nil
}

// FindByID 按主键查找订单，预加载条目
func (r *GormOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).Preload("Items").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewOrderNotFound(id)
		}
		return nil, err
	}
	return ToDomainOrder(&model), nil
}

// Update 持久化订单的可变字段，条目在创建之后不再变化
func (r *GormOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	updateData := map[string]interface{}{
		"status":          string(order.Status),
		"tracking_number": order.TrackingNumber,
		"notes":           order.Notes,
		"last_updated":    order.LastUpdated,
		"payment_id":      order.PaymentID,
	}
	result := r.db.WithContext(ctx).Model(&OrderModel{}).Where("id = ?", order.ID).Updates(updateData)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewOrderNotFound(order.ID)
	}
	return nil
}

// FindByUserID 返回某个用户的全部订单，按下单时间倒序
func (r *GormOrderRepository) FindByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainOrders(models), nil
}

// FindByStatus 按状态分页查询，page 从 0 开始
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status domain.Status, page, size int) ([]*domain.Order, int64, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}
	var total int64
	query := r.db.WithContext(ctx).Model(&OrderModel{}).Where("status = ?", string(status))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var models []OrderModel
	err := r.db.WithContext(ctx).Preload("Items").
		Where("status = ?", string(status)).
		Order("order_date DESC").
		Offset(page * size).
		Limit(size).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}
	return toDomainOrders(models), total, nil
}

// FindByDateRange 返回下单时间落在区间内的订单
func (r *GormOrderRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).Preload("Items").
		Where("order_date BETWEEN ? AND ?", start, end).
		Order("order_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainOrders(models), nil
}

func toDomainOrders(models []OrderModel) []*domain.Order {
	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		orders = append(orders, ToDomainOrder(&models[i]))
	}
	return orders
}
