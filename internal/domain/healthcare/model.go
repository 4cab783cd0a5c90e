package healthcare

import "time"

// FamilyMember is a person whose health records the family tracks. Members
// are shared by every user of the family; the display order drives the
// member list on the frontend.
type FamilyMember struct {
	ID                string     `gorm:"type:uuid;primaryKey"`
	FamilyID          string     `gorm:"type:uuid;not null;index"`
	Name              string     `gorm:"size:100;not null"`
	Photo             *string    `gorm:"type:text"`
	BirthDate         time.Time  `gorm:"type:date;not null"`
	Gender            *string    `gorm:"size:1"`
	Relationship      *string    `gorm:"size:50"`
	BloodType         string     `gorm:"size:5;not null;default:''"`
	Allergies         string     `gorm:"type:text;not null;default:''"`
	ChronicConditions string     `gorm:"type:text;not null;default:''"`
	EmergencyContact  *string    `gorm:"size:100"`
	EmergencyPhone    *string    `gorm:"size:20"`
	Notes             string     `gorm:"type:text;not null;default:''"`
	DisplayOrder      int        `gorm:"column:display_order;not null;default:0"`
	CreatedAt         time.Time  `gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime"`
}

type MedicalAppointment struct {
	ID              string     `gorm:"type:uuid;primaryKey"`
	FamilyMemberID  string     `gorm:"type:uuid;not null;index"`
	DoctorName      string     `gorm:"size:100;not null"`
	Specialty       string     `gorm:"size:100;not null"`
	AppointmentDate time.Time  `gorm:"not null"`
	Location        string     `gorm:"size:200;not null;default:''"`
	Reason          string     `gorm:"type:text;not null"`
	Diagnosis       string     `gorm:"type:text;not null;default:''"`
	Prescription    string     `gorm:"type:text;not null;default:''"`
	NextAppointment *time.Time `gorm:""`
	Notes           string     `gorm:"type:text;not null;default:''"`
	Documents       *string    `gorm:"type:text"` // JSON array of base64 documents
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
}

type MedicalProcedure struct {
	ID                string     `gorm:"type:uuid;primaryKey"`
	FamilyMemberID    string     `gorm:"type:uuid;not null;index"`
	ProcedureName     string     `gorm:"size:200;not null"`
	ProcedureDate     time.Time  `gorm:"not null"`
	DoctorName        string     `gorm:"size:100;not null"`
	Location          string     `gorm:"size:200;not null"`
	Description       string     `gorm:"type:text;not null"`
	Results           string     `gorm:"type:text;not null;default:''"`
	FollowUpNotes     string     `gorm:"type:text;not null;default:''"`
	NextProcedureDate *time.Time `gorm:""`
	Documents         *string    `gorm:"type:text"`
	CreatedAt         time.Time  `gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime"`
}

type Medication struct {
	ID                 string     `gorm:"type:uuid;primaryKey"`
	FamilyMemberID     string     `gorm:"type:uuid;not null;index"`
	Name               string     `gorm:"size:100;not null"`
	Dosage             string     `gorm:"size:50;not null"`
	Frequency          string     `gorm:"size:20;not null"`
	StartDate          time.Time  `gorm:"type:date;not null"`
	EndDate            *time.Time `gorm:"type:date"`
	PrescribedBy       string     `gorm:"size:100;not null;default:''"`
	PrescriptionNumber string     `gorm:"size:50;not null;default:''"`
	Instructions       string     `gorm:"type:text;not null;default:''"`
	SideEffects        string     `gorm:"type:text;not null;default:''"`
	Notes              string     `gorm:"type:text;not null;default:''"`
	Documents          *string    `gorm:"type:text"`
	CreatedAt          time.Time  `gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime"`
}

// MemberOrderItem is one entry of a batch member reorder.
type MemberOrderItem struct {
	ID    string
	Order int
}
