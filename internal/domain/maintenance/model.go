package maintenance

import "time"

// Equipment statuses mirror the labels the household UI shows.
const (
	StatusOperational = "OPERACIONAL"
	StatusInRepair    = "EM_MANUTENCAO"
	StatusRetired     = "FORA_DE_USO"
	StatusSpare       = "RESERVA"
)

// Maintenance order statuses and priorities.
const (
	OrderPending    = "PENDENTE"
	OrderInProgress = "EM_ANDAMENTO"
	OrderDone       = "CONCLUIDA"
	OrderCancelled  = "CANCELADA"

	PriorityLow    = "BAIXA"
	PriorityMedium = "MEDIA"
	PriorityHigh   = "ALTA"
	PriorityUrgent = "URGENTE"
)

type Equipment struct {
	ID              string     `gorm:"type:uuid;primaryKey"`
	FamilyID        string     `gorm:"type:uuid;not null;index"`
	OwnerID         *string    `gorm:"type:uuid;index"`
	Name            string     `gorm:"size:100;not null"`
	Type            *string    `gorm:"size:50"` // eletronico, eletrodomestico, movel, veiculo, outro
	Brand           *string    `gorm:"size:100"`
	Model           *string    `gorm:"size:100"`
	SerialNumber    *string    `gorm:"size:100"`
	PurchaseDate    *time.Time `gorm:"type:date"`
	WarrantyExpiry  *time.Time `gorm:"type:date"`
	ServiceProvider string     `gorm:"size:200;not null;default:''"`
	Status          string     `gorm:"size:20;not null;default:'OPERACIONAL'"`
	Notes           string     `gorm:"type:text;not null;default:''"`
	Documents       *string    `gorm:"type:text"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
}

func (Equipment) TableName() string { return "equipment" }

type MaintenanceOrder struct {
	ID                 string     `gorm:"type:uuid;primaryKey"`
	EquipmentID        string     `gorm:"type:uuid;not null;index"`
	CreatedByID        string     `gorm:"type:uuid;not null"`
	Title              string     `gorm:"size:200;not null"`
	Description        string     `gorm:"type:text;not null"`
	Status             string     `gorm:"size:20;not null;default:'PENDENTE'"`
	Priority           string     `gorm:"size:20;not null;default:'MEDIA'"`
	ServiceProvider    string     `gorm:"size:200;not null;default:''"`
	CompletionDate     *time.Time `gorm:"type:date"`
	Cost               *float64   `gorm:"type:numeric(10,2)"`
	WarrantyExpiration *time.Time `gorm:"type:date"`
	WarrantyTerms      string     `gorm:"type:text;not null;default:''"`
	InvoiceNumber      string     `gorm:"size:50;not null;default:''"`
	Notes              string     `gorm:"type:text;not null;default:''"`
	Documents          *string    `gorm:"type:text"`
	CreatedAt          time.Time  `gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime"`
}

// Stats is the maintenance dashboard aggregate.
type Stats struct {
	TotalEquipment   int64            `json:"total_equipment"`
	TotalOrders      int64            `json:"total_orders"`
	PendingOrders    int64            `json:"pending_orders"`
	InProgressOrders int64            `json:"in_progress_orders"`
	RecentCost       float64          `json:"recent_cost"`
	EquipmentByType  []TypeCount      `json:"equipment_by_type"`
}

type TypeCount struct {
	Type  *string `json:"type"`
	Count int64   `json:"count"`
}
