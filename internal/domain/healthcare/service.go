package healthcare

import (
	"context"
	"fmt"
	"strings"
	"time"

	"family-hub-go/internal/domain/family"
	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type MemberInput struct {
	Name              string
	Photo             *string
	BirthDate         time.Time
	Gender            *string
	Relationship      *string
	BloodType         string
	Allergies         string
	ChronicConditions string
	EmergencyContact  *string
	EmergencyPhone    *string
	Notes             string
	DisplayOrder      int
}

type MemberUpdate struct {
	Name              *string
	Photo             *string
	BirthDate         *time.Time
	Gender            *string
	Relationship      *string
	BloodType         *string
	Allergies         *string
	ChronicConditions *string
	EmergencyContact  *string
	EmergencyPhone    *string
	Notes             *string
	DisplayOrder      *int
}

type AppointmentInput struct {
	FamilyMemberID  string
	DoctorName      string
	Specialty       string
	AppointmentDate time.Time
	Location        string
	Reason          string
	Diagnosis       string
	Prescription    string
	NextAppointment *time.Time
	Notes           string
	Documents       *string
}

type AppointmentUpdate struct {
	DoctorName      *string
	Specialty       *string
	AppointmentDate *time.Time
	Location        *string
	Reason          *string
	Diagnosis       *string
	Prescription    *string
	NextAppointment *time.Time
	Notes           *string
	Documents       *string
}

type ProcedureInput struct {
	FamilyMemberID    string
	ProcedureName     string
	ProcedureDate     time.Time
	DoctorName        string
	Location          string
	Description       string
	Results           string
	FollowUpNotes     string
	NextProcedureDate *time.Time
	Documents         *string
}

type ProcedureUpdate struct {
	ProcedureName     *string
	ProcedureDate     *time.Time
	DoctorName        *string
	Location          *string
	Description       *string
	Results           *string
	FollowUpNotes     *string
	NextProcedureDate *time.Time
	Documents         *string
}

type MedicationInput struct {
	FamilyMemberID     string
	Name               string
	Dosage             string
	Frequency          string
	StartDate          time.Time
	EndDate            *time.Time
	PrescribedBy       string
	PrescriptionNumber string
	Instructions       string
	SideEffects        string
	Notes              string
	Documents          *string
}

type MedicationUpdate struct {
	Name               *string
	Dosage             *string
	Frequency          *string
	StartDate          *time.Time
	EndDate            *time.Time
	PrescribedBy       *string
	PrescriptionNumber *string
	Instructions       *string
	SideEffects        *string
	Notes              *string
	Documents          *string
}

// ===== members =====

func (s *Service) ListMembers(ctx context.Context, scope family.Scope) ([]FamilyMember, error) {
	if scope.IsEmpty() {
		return []FamilyMember{}, nil
	}
	return s.repo.ListMembers(ctx, scope.FamilyIDs())
}

func (s *Service) GetMember(ctx context.Context, scope family.Scope, memberID string) (*FamilyMember, error) {
	if scope.IsEmpty() {
		return nil, ErrMemberNotFound
	}
	return s.repo.GetMember(ctx, scope.FamilyIDs(), memberID)
}

func (s *Service) CreateMember(ctx context.Context, familyID string, input MemberInput) (*FamilyMember, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if input.BirthDate.IsZero() {
		return nil, fmt.Errorf("birth_date is required")
	}

	member := FamilyMember{
		ID:                uuid.NewString(),
		FamilyID:          familyID,
		Name:              input.Name,
		Photo:             input.Photo,
		BirthDate:         input.BirthDate,
		Gender:            input.Gender,
		Relationship:      input.Relationship,
		BloodType:         input.BloodType,
		Allergies:         input.Allergies,
		ChronicConditions: input.ChronicConditions,
		EmergencyContact:  input.EmergencyContact,
		EmergencyPhone:    input.EmergencyPhone,
		Notes:             input.Notes,
		DisplayOrder:      input.DisplayOrder,
	}
	if err := s.repo.CreateMember(ctx, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *Service) UpdateMember(ctx context.Context, scope family.Scope, memberID string, update MemberUpdate) (*FamilyMember, error) {
	member, err := s.GetMember(ctx, scope, memberID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		member.Name = strings.TrimSpace(*update.Name)
	}
	if update.Photo != nil {
		member.Photo = update.Photo
	}
	if update.BirthDate != nil {
		member.BirthDate = *update.BirthDate
	}
	if update.Gender != nil {
		member.Gender = update.Gender
	}
	if update.Relationship != nil {
		member.Relationship = update.Relationship
	}
	if update.BloodType != nil {
		member.BloodType = *update.BloodType
	}
	if update.Allergies != nil {
		member.Allergies = *update.Allergies
	}
	if update.ChronicConditions != nil {
		member.ChronicConditions = *update.ChronicConditions
	}
	if update.EmergencyContact != nil {
		member.EmergencyContact = update.EmergencyContact
	}
	if update.EmergencyPhone != nil {
		member.EmergencyPhone = update.EmergencyPhone
	}
	if update.Notes != nil {
		member.Notes = *update.Notes
	}
	if update.DisplayOrder != nil {
		member.DisplayOrder = *update.DisplayOrder
	}

	if err := s.repo.UpdateMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *Service) DeleteMember(ctx context.Context, scope family.Scope, memberID string) error {
	if _, err := s.GetMember(ctx, scope, memberID); err != nil {
		return err
	}
	return s.repo.DeleteMember(ctx, memberID)
}

// ReorderMembers applies a batch of display order updates in one
// transaction. Members outside the scope are skipped silently.
func (s *Service) ReorderMembers(ctx context.Context, scope family.Scope, items []MemberOrderItem) error {
	if scope.IsEmpty() || len(items) == 0 {
		return nil
	}
	return s.repo.Transaction(ctx, func(tx Repository) error {
		for _, item := range items {
			if err := tx.SetMemberOrder(ctx, scope.FamilyIDs(), item.ID, item.Order); err != nil {
				return err
			}
		}
		return nil
	})
}

// ===== appointments =====

func (s *Service) ListAppointments(ctx context.Context, scope family.Scope, memberID string) ([]MedicalAppointment, error) {
	if scope.IsEmpty() {
		return []MedicalAppointment{}, nil
	}
	return s.repo.ListAppointments(ctx, scope.FamilyIDs(), memberID)
}

func (s *Service) CreateAppointment(ctx context.Context, scope family.Scope, input AppointmentInput) (*MedicalAppointment, error) {
	if _, err := s.GetMember(ctx, scope, input.FamilyMemberID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.DoctorName) == "" {
		return nil, fmt.Errorf("doctor_name is required")
	}

	appointment := MedicalAppointment{
		ID:              uuid.NewString(),
		FamilyMemberID:  input.FamilyMemberID,
		DoctorName:      input.DoctorName,
		Specialty:       input.Specialty,
		AppointmentDate: input.AppointmentDate,
		Location:        input.Location,
		Reason:          input.Reason,
		Diagnosis:       input.Diagnosis,
		Prescription:    input.Prescription,
		NextAppointment: input.NextAppointment,
		Notes:           input.Notes,
		Documents:       input.Documents,
	}
	if err := s.repo.CreateAppointment(ctx, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, scope family.Scope, appointmentID string, update AppointmentUpdate) (*MedicalAppointment, error) {
	if scope.IsEmpty() {
		return nil, ErrAppointmentNotFound
	}
	appointment, err := s.repo.GetAppointment(ctx, scope.FamilyIDs(), appointmentID)
	if err != nil {
		return nil, err
	}

	if update.DoctorName != nil {
		appointment.DoctorName = *update.DoctorName
	}
	if update.Specialty != nil {
		appointment.Specialty = *update.Specialty
	}
	if update.AppointmentDate != nil {
		appointment.AppointmentDate = *update.AppointmentDate
	}
	if update.Location != nil {
		appointment.Location = *update.Location
	}
	if update.Reason != nil {
		appointment.Reason = *update.Reason
	}
	if update.Diagnosis != nil {
		appointment.Diagnosis = *update.Diagnosis
	}
	if update.Prescription != nil {
		appointment.Prescription = *update.Prescription
	}
	if update.NextAppointment != nil {
		appointment.NextAppointment = update.NextAppointment
	}
	if update.Notes != nil {
		appointment.Notes = *update.Notes
	}
	if update.Documents != nil {
		appointment.Documents = update.Documents
	}

	if err := s.repo.UpdateAppointment(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, scope family.Scope, appointmentID string) error {
	if scope.IsEmpty() {
		return ErrAppointmentNotFound
	}
	if _, err := s.repo.GetAppointment(ctx, scope.FamilyIDs(), appointmentID); err != nil {
		return err
	}
	return s.repo.DeleteAppointment(ctx, appointmentID)
}

// ===== procedures =====

func (s *Service) ListProcedures(ctx context.Context, scope family.Scope, memberID string) ([]MedicalProcedure, error) {
	if scope.IsEmpty() {
		return []MedicalProcedure{}, nil
	}
	return s.repo.ListProcedures(ctx, scope.FamilyIDs(), memberID)
}

func (s *Service) CreateProcedure(ctx context.Context, scope family.Scope, input ProcedureInput) (*MedicalProcedure, error) {
	if _, err := s.GetMember(ctx, scope, input.FamilyMemberID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ProcedureName) == "" {
		return nil, fmt.Errorf("procedure_name is required")
	}

	procedure := MedicalProcedure{
		ID:                uuid.NewString(),
		FamilyMemberID:    input.FamilyMemberID,
		ProcedureName:     input.ProcedureName,
		ProcedureDate:     input.ProcedureDate,
		DoctorName:        input.DoctorName,
		Location:          input.Location,
		Description:       input.Description,
		Results:           input.Results,
		FollowUpNotes:     input.FollowUpNotes,
		NextProcedureDate: input.NextProcedureDate,
		Documents:         input.Documents,
	}
	if err := s.repo.CreateProcedure(ctx, &procedure); err != nil {
		return nil, err
	}
	return &procedure, nil
}

func (s *Service) UpdateProcedure(ctx context.Context, scope family.Scope, procedureID string, update ProcedureUpdate) (*MedicalProcedure, error) {
	if scope.IsEmpty() {
		return nil, ErrProcedureNotFound
	}
	procedure, err := s.repo.GetProcedure(ctx, scope.FamilyIDs(), procedureID)
	if err != nil {
		return nil, err
	}

	if update.ProcedureName != nil {
		procedure.ProcedureName = *update.ProcedureName
	}
	if update.ProcedureDate != nil {
		procedure.ProcedureDate = *update.ProcedureDate
	}
	if update.DoctorName != nil {
		procedure.DoctorName = *update.DoctorName
	}
	if update.Location != nil {
		procedure.Location = *update.Location
	}
	if update.Description != nil {
		procedure.Description = *update.Description
	}
	if update.Results != nil {
		procedure.Results = *update.Results
	}
	if update.FollowUpNotes != nil {
		procedure.FollowUpNotes = *update.FollowUpNotes
	}
	if update.NextProcedureDate != nil {
		procedure.NextProcedureDate = update.NextProcedureDate
	}
	if update.Documents != nil {
		procedure.Documents = update.Documents
	}

	if err := s.repo.UpdateProcedure(ctx, procedure); err != nil {
		return nil, err
	}
	return procedure, nil
}

func (s *Service) DeleteProcedure(ctx context.Context, scope family.Scope, procedureID string) error {
	if scope.IsEmpty() {
		return ErrProcedureNotFound
	}
	if _, err := s.repo.GetProcedure(ctx, scope.FamilyIDs(), procedureID); err != nil {
		return err
	}
	return s.repo.DeleteProcedure(ctx, procedureID)
}

// ===== medications =====

func (s *Service) ListMedications(ctx context.Context, scope family.Scope, memberID string, activeOnly bool) ([]Medication, error) {
	if scope.IsEmpty() {
		return []Medication{}, nil
	}
	return s.repo.ListMedications(ctx, scope.FamilyIDs(), memberID, activeOnly)
}

func (s *Service) CreateMedication(ctx context.Context, scope family.Scope, input MedicationInput) (*Medication, error) {
	if _, err := s.GetMember(ctx, scope, input.FamilyMemberID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	medication := Medication{
		ID:                 uuid.NewString(),
		FamilyMemberID:     input.FamilyMemberID,
		Name:               input.Name,
		Dosage:             input.Dosage,
		Frequency:          input.Frequency,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		PrescribedBy:       input.PrescribedBy,
		PrescriptionNumber: input.PrescriptionNumber,
		Instructions:       input.Instructions,
		SideEffects:        input.SideEffects,
		Notes:              input.Notes,
		Documents:          input.Documents,
	}
	if err := s.repo.CreateMedication(ctx, &medication); err != nil {
		return nil, err
	}
	return &medication, nil
}

func (s *Service) UpdateMedication(ctx context.Context, scope family.Scope, medicationID string, update MedicationUpdate) (*Medication, error) {
	if scope.IsEmpty() {
		return nil, ErrMedicationNotFound
	}
	medication, err := s.repo.GetMedication(ctx, scope.FamilyIDs(), medicationID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		medication.Name = *update.Name
	}
	if update.Dosage != nil {
		medication.Dosage = *update.Dosage
	}
	if update.Frequency != nil {
		medication.Frequency = *update.Frequency
	}
	if update.StartDate != nil {
		medication.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		medication.EndDate = update.EndDate
	}
	if update.PrescribedBy != nil {
		medication.PrescribedBy = *update.PrescribedBy
	}
	if update.PrescriptionNumber != nil {
		medication.PrescriptionNumber = *update.PrescriptionNumber
	}
	if update.Instructions != nil {
		medication.Instructions = *update.Instructions
	}
	if update.SideEffects != nil {
		medication.SideEffects = *update.SideEffects
	}
	if update.Notes != nil {
		medication.Notes = *update.Notes
	}
	if update.Documents != nil {
		medication.Documents = update.Documents
	}

	if err := s.repo.UpdateMedication(ctx, medication); err != nil {
		return nil, err
	}
	return medication, nil
}

func (s *Service) DeleteMedication(ctx context.Context, scope family.Scope, medicationID string) error {
	if scope.IsEmpty() {
		return ErrMedicationNotFound
	}
	if _, err := s.repo.GetMedication(ctx, scope.FamilyIDs(), medicationID); err != nil {
		return err
	}
	return s.repo.DeleteMedication(ctx, medicationID)
}
