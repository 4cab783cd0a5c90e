package maintenance

import (
	"context"
	"errors"
	"time"

	maintdomain "family-hub-go/internal/domain/maintenance"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListEquipment(ctx context.Context, familyIDs []string, equipmentType string) ([]maintdomain.Equipment, error) {
	query := r.db.WithContext(ctx).Where("family_id IN ?", familyIDs)
	if equipmentType != "" {
		query = query.Where("type = ?", equipmentType)
	}
	var equipment []maintdomain.Equipment
	if err := query.Order("created_at desc").Find(&equipment).Error; err != nil {
		return nil, err
	}
	return equipment, nil
}

func (r *PostgresRepository) GetEquipment(ctx context.Context, familyIDs []string, equipmentID string) (*maintdomain.Equipment, error) {
	var equipment maintdomain.Equipment
	err := r.db.WithContext(ctx).
		Where("id = ? AND family_id IN ?", equipmentID, familyIDs).
		First(&equipment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, maintdomain.ErrEquipmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (r *PostgresRepository) CreateEquipment(ctx context.Context, equipment *maintdomain.Equipment) error {
	return r.db.WithContext(ctx).Create(equipment).Error
}

func (r *PostgresRepository) UpdateEquipment(ctx context.Context, equipment *maintdomain.Equipment) error {
	return r.db.WithContext(ctx).Save(equipment).Error
}

func (r *PostgresRepository) DeleteEquipment(ctx context.Context, equipmentID string) error {
	return r.db.WithContext(ctx).Delete(&maintdomain.Equipment{}, "id = ?", equipmentID).Error
}

// equipmentScoped joins orders to equipment so orders inherit the family
// scope of their equipment.
func equipmentScoped(db *gorm.DB, familyIDs []string) *gorm.DB {
	return db.
		Joins("join equipment on equipment.id = maintenance_orders.equipment_id").
		Where("equipment.family_id IN ?", familyIDs)
}

func (r *PostgresRepository) ListOrders(ctx context.Context, familyIDs []string, equipmentID, status string) ([]maintdomain.MaintenanceOrder, error) {
	query := equipmentScoped(r.db.WithContext(ctx).Model(&maintdomain.MaintenanceOrder{}), familyIDs)
	if equipmentID != "" {
		query = query.Where("maintenance_orders.equipment_id = ?", equipmentID)
	}
	if status != "" {
		query = query.Where("maintenance_orders.status = ?", status)
	}
	var orders []maintdomain.MaintenanceOrder
	if err := query.Order("maintenance_orders.completion_date desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) GetOrder(ctx context.Context, familyIDs []string, orderID string) (*maintdomain.MaintenanceOrder, error) {
	var order maintdomain.MaintenanceOrder
	err := equipmentScoped(r.db.WithContext(ctx).Model(&maintdomain.MaintenanceOrder{}), familyIDs).
		Where("maintenance_orders.id = ?", orderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, maintdomain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *maintdomain.MaintenanceOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *PostgresRepository) UpdateOrder(ctx context.Context, order *maintdomain.MaintenanceOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *PostgresRepository) DeleteOrder(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Delete(&maintdomain.MaintenanceOrder{}, "id = ?", orderID).Error
}

func (r *PostgresRepository) CountEquipment(ctx context.Context, familyIDs []string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&maintdomain.Equipment{}).
		Where("family_id IN ?", familyIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CountOrders(ctx context.Context, familyIDs []string, status string) (int64, error) {
	query := equipmentScoped(r.db.WithContext(ctx).Model(&maintdomain.MaintenanceOrder{}), familyIDs)
	if status != "" {
		query = query.Where("maintenance_orders.status = ?", status)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) SumOrderCostSince(ctx context.Context, familyIDs []string, since time.Time) (float64, error) {
	var total *float64
	err := equipmentScoped(r.db.WithContext(ctx).Model(&maintdomain.MaintenanceOrder{}), familyIDs).
		Where("maintenance_orders.created_at >= ?", since).
		Select("sum(maintenance_orders.cost)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *PostgresRepository) CountEquipmentByType(ctx context.Context, familyIDs []string) ([]maintdomain.TypeCount, error) {
	var counts []maintdomain.TypeCount
	if err := r.db.WithContext(ctx).Model(&maintdomain.Equipment{}).
		Select("type, count(*) as count").
		Where("family_id IN ?", familyIDs).
		Group("type").
		Order("count desc").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
