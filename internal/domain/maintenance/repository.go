package maintenance

import (
	"context"
	"time"
)

type Repository interface {
	ListEquipment(ctx context.Context, familyIDs []string, equipmentType string) ([]Equipment, error)
	GetEquipment(ctx context.Context, familyIDs []string, equipmentID string) (*Equipment, error)
	CreateEquipment(ctx context.Context, equipment *Equipment) error
	UpdateEquipment(ctx context.Context, equipment *Equipment) error
	DeleteEquipment(ctx context.Context, equipmentID string) error

	ListOrders(ctx context.Context, familyIDs []string, equipmentID, status string) ([]MaintenanceOrder, error)
	GetOrder(ctx context.Context, familyIDs []string, orderID string) (*MaintenanceOrder, error)
	CreateOrder(ctx context.Context, order *MaintenanceOrder) error
	UpdateOrder(ctx context.Context, order *MaintenanceOrder) error
	DeleteOrder(ctx context.Context, orderID string) error

	CountEquipment(ctx context.Context, familyIDs []string) (int64, error)
	CountOrders(ctx context.Context, familyIDs []string, status string) (int64, error)
	SumOrderCostSince(ctx context.Context, familyIDs []string, since time.Time) (float64, error)
	CountEquipmentByType(ctx context.Context, familyIDs []string) ([]TypeCount, error)
}
