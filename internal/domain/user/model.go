package user

import (
	"strings"
	"time"

	"family-hub-go/internal/domain/family"
)

type User struct {
	ID           string     `gorm:"type:uuid;primaryKey"`
	Username     string     `gorm:"size:150;not null;uniqueIndex"`
	Email        string     `gorm:"size:254;not null;default:''"`
	PasswordHash string     `gorm:"size:128;not null"`
	FirstName    string     `gorm:"size:150;not null;default:''"`
	LastName     string     `gorm:"size:150;not null;default:''"`
	IsStaff      bool       `gorm:"not null;default:false"`
	IsAdmin      bool       `gorm:"not null;default:false"`
	IsActive     bool       `gorm:"not null;default:true"`
	LastLogin    *time.Time `gorm:""`
	DateJoined   time.Time  `gorm:"autoCreateTime"`
	FamilyID     *string    `gorm:"type:uuid;index"`

	// Families holds the many-to-many links admins use to act across
	// several families. FamilyID stays the primary family for everyone.
	Families []family.Family `gorm:"many2many:user_families"`
}

type Profile struct {
	UserID    string    `gorm:"type:uuid;primaryKey"`
	Phone     string    `gorm:"size:20;not null;default:''"`
	Address   string    `gorm:"size:200;not null;default:''"`
	City      string    `gorm:"size:100;not null;default:''"`
	State     string    `gorm:"size:50;not null;default:''"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string { return "user_profiles" }

// DisplayName is the name used when a family is provisioned for the user.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName); name != "" {
		return name
	}
	return u.Username
}

// Principal builds the tenancy view the family resolver consumes.
func (u *User) Principal() family.Principal {
	return family.Principal{
		UserID:      u.ID,
		DisplayName: u.DisplayName(),
		Admin:       u.IsAdmin,
		Staff:       u.IsStaff,
		FamilyID:    u.FamilyID,
	}
}
