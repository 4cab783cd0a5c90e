package dashboard

import "time"

// Preference stores the per-user dashboard widget toggles.
type Preference struct {
	UserID                  string    `gorm:"type:uuid;primaryKey"`
	ShowPendingMaintenance  bool      `gorm:"not null;default:true"`
	ShowEquipmentStats      bool      `gorm:"not null;default:true"`
	ShowCostAnalysis        bool      `gorm:"not null;default:true"`
	ShowUpcomingMaintenance bool      `gorm:"not null;default:true"`
	DaysToAlert             int       `gorm:"not null;default:7"`
	CreatedAt               time.Time `gorm:"autoCreateTime"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime"`
}

func (Preference) TableName() string { return "dashboard_preferences" }

type PreferenceUpdate struct {
	ShowPendingMaintenance  *bool
	ShowEquipmentStats      *bool
	ShowCostAnalysis        *bool
	ShowUpcomingMaintenance *bool
	DaysToAlert             *int
}

// Summary aggregates the headline numbers across the resolved scope.
type Summary struct {
	TotalMembers         int64 `json:"total_members"`
	UpcomingAppointments int64 `json:"upcoming_appointments"`
	TotalEquipment       int64 `json:"total_equipment"`
	ActiveMedications    int64 `json:"active_medications"`
	TotalOrders          int64 `json:"total_orders"`
}
