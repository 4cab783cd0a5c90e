package family

import "time"

const joinCodeLength = 8

// Family is the tenancy boundary: every domain record belongs to exactly
// one family, and all reads and writes are scoped by it.
type Family struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:200;not null"`
	Code      string    `gorm:"size:8;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Principal is the request-scoped view of the authenticated user that the
// tenancy resolver operates on. Admin principals may act across several
// families; staff and normal principals have at most one.
type Principal struct {
	UserID      string
	DisplayName string
	Admin       bool
	Staff       bool
	FamilyID    *string
}
