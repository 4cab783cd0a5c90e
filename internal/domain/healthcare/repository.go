package healthcare

import "context"

// Repository scopes every query by the family ids of the resolved tenancy
// scope. Appointments, procedures and medications are scoped through their
// member's family.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListMembers(ctx context.Context, familyIDs []string) ([]FamilyMember, error)
	GetMember(ctx context.Context, familyIDs []string, memberID string) (*FamilyMember, error)
	CreateMember(ctx context.Context, member *FamilyMember) error
	UpdateMember(ctx context.Context, member *FamilyMember) error
	DeleteMember(ctx context.Context, memberID string) error
	SetMemberOrder(ctx context.Context, familyIDs []string, memberID string, order int) error

	ListAppointments(ctx context.Context, familyIDs []string, memberID string) ([]MedicalAppointment, error)
	GetAppointment(ctx context.Context, familyIDs []string, appointmentID string) (*MedicalAppointment, error)
	CreateAppointment(ctx context.Context, appointment *MedicalAppointment) error
	UpdateAppointment(ctx context.Context, appointment *MedicalAppointment) error
	DeleteAppointment(ctx context.Context, appointmentID string) error

	ListProcedures(ctx context.Context, familyIDs []string, memberID string) ([]MedicalProcedure, error)
	GetProcedure(ctx context.Context, familyIDs []string, procedureID string) (*MedicalProcedure, error)
	CreateProcedure(ctx context.Context, procedure *MedicalProcedure) error
	UpdateProcedure(ctx context.Context, procedure *MedicalProcedure) error
	DeleteProcedure(ctx context.Context, procedureID string) error

	ListMedications(ctx context.Context, familyIDs []string, memberID string, activeOnly bool) ([]Medication, error)
	GetMedication(ctx context.Context, familyIDs []string, medicationID string) (*Medication, error)
	CreateMedication(ctx context.Context, medication *Medication) error
	UpdateMedication(ctx context.Context, medication *Medication) error
	DeleteMedication(ctx context.Context, medicationID string) error
}
