package healthcare

import (
	"context"
	"errors"
	"time"

	healthdomain "family-hub-go/internal/domain/healthcare"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(healthdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListMembers(ctx context.Context, familyIDs []string) ([]healthdomain.FamilyMember, error) {
	var members []healthdomain.FamilyMember
	if err := r.db.WithContext(ctx).
		Where("family_id IN ?", familyIDs).
		Order("display_order asc, name asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, familyIDs []string, memberID string) (*healthdomain.FamilyMember, error) {
	var member healthdomain.FamilyMember
	err := r.db.WithContext(ctx).
		Where("id = ? AND family_id IN ?", memberID, familyIDs).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, healthdomain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) CreateMember(ctx context.Context, member *healthdomain.FamilyMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) UpdateMember(ctx context.Context, member *healthdomain.FamilyMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, memberID string) error {
	return r.db.WithContext(ctx).Delete(&healthdomain.FamilyMember{}, "id = ?", memberID).Error
}

func (r *PostgresRepository) SetMemberOrder(ctx context.Context, familyIDs []string, memberID string, order int) error {
	return r.db.WithContext(ctx).Model(&healthdomain.FamilyMember{}).
		Where("id = ? AND family_id IN ?", memberID, familyIDs).
		Update("display_order", order).Error
}

// memberScoped filters a child table down to rows whose member belongs to
// one of the scope's families.
func memberScoped(db *gorm.DB, table string, familyIDs []string) *gorm.DB {
	return db.
		Joins("join family_members on family_members.id = "+table+".family_member_id").
		Where("family_members.family_id IN ?", familyIDs)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *PostgresRepository) ListAppointments(ctx context.Context, familyIDs []string, memberID string) ([]healthdomain.MedicalAppointment, error) {
	query := memberScoped(r.db.WithContext(ctx).Model(&healthdomain.MedicalAppointment{}), "medical_appointments", familyIDs)
	if memberID != "" {
		query = query.Where("medical_appointments.family_member_id = ?", memberID)
	}
	var appointments []healthdomain.MedicalAppointment
	if err := query.Order("medical_appointments.appointment_date desc").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *PostgresRepository) GetAppointment(ctx context.Context, familyIDs []string, appointmentID string) (*healthdomain.MedicalAppointment, error) {
	var appointment healthdomain.MedicalAppointment
	err := memberScoped(r.db.WithContext(ctx).Model(&healthdomain.MedicalAppointment{}), "medical_appointments", familyIDs).
		Where("medical_appointments.id = ?", appointmentID).
		First(&appointment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, healthdomain.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *PostgresRepository) CreateAppointment(ctx context.Context, appointment *healthdomain.MedicalAppointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *PostgresRepository) UpdateAppointment(ctx context.Context, appointment *healthdomain.MedicalAppointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}

func (r *PostgresRepository) DeleteAppointment(ctx context.Context, appointmentID string) error {
	return r.db.WithContext(ctx).Delete(&healthdomain.MedicalAppointment{}, "id = ?", appointmentID).Error
}

func (r *PostgresRepository) ListProcedures(ctx context.Context, familyIDs []string, memberID string) ([]healthdomain.MedicalProcedure, error) {
	query := memberScoped(r.db.WithContext(ctx).Model(&healthdomain.MedicalProcedure{}), "medical_procedures", familyIDs)
	if memberID != "" {
		query = query.Where("medical_procedures.family_member_id = ?", memberID)
	}
	var procedures []healthdomain.MedicalProcedure
	if err := query.Order("medical_procedures.procedure_date desc").Find(&procedures).Error; err != nil {
		return nil, err
	}
	return procedures, nil
}

func (r *PostgresRepository) GetProcedure(ctx context.Context, familyIDs []string, procedureID string) (*healthdomain.MedicalProcedure, error) {
	var procedure healthdomain.MedicalProcedure
	err := memberScoped(r.db.WithContext(ctx).Model(&healthdomain.MedicalProcedure{}), "medical_procedures", familyIDs).
		Where("medical_procedures.id = ?", procedureID).
		First(&procedure).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, healthdomain.ErrProcedureNotFound
	}
	if err != nil {
		return nil, err
	}
	return &procedure, nil
}

func (r *PostgresRepository) CreateProcedure(ctx context.Context, procedure *healthdomain.MedicalProcedure) error {
	return r.db.WithContext(ctx).Create(procedure).Error
}

func (r *PostgresRepository) UpdateProcedure(ctx context.Context, procedure *healthdomain.MedicalProcedure) error {
	return r.db.WithContext(ctx).Save(procedure).Error
}

func (r *PostgresRepository) DeleteProcedure(ctx context.Context, procedureID string) error {
	return r.db.WithContext(ctx).Delete(&healthdomain.MedicalProcedure{}, "id = ?", procedureID).Error
}

func (r *PostgresRepository) ListMedications(ctx context.Context, familyIDs []string, memberID string, activeOnly bool) ([]healthdomain.Medication, error) {
	query := memberScoped(r.db.WithContext(ctx).Model(&healthdomain.Medication{}), "medications", familyIDs)
	if memberID != "" {
		query = query.Where("medications.family_member_id = ?", memberID)
	}
	if activeOnly {
		// Active means already started and not yet ended; both bounds are
		// date columns, so compare against today's date, not a timestamp.
		today := dateOf(time.Now().UTC())
		query = query.Where("medications.start_date <= ? AND (medications.end_date IS NULL OR medications.end_date >= ?)", today, today)
	}
	var medications []healthdomain.Medication
	if err := query.Order("medications.created_at desc").Find(&medications).Error; err != nil {
		return nil, err
	}
	return medications, nil
}

func (r *PostgresRepository) GetMedication(ctx context.Context, familyIDs []string, medicationID string) (*healthdomain.Medication, error) {
	var medication healthdomain.Medication
	err := memberScoped(r.db.WithContext(ctx).Model(&healthdomain.Medication{}), "medications", familyIDs).
		Where("medications.id = ?", medicationID).
		First(&medication).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, healthdomain.ErrMedicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &medication, nil
}

func (r *PostgresRepository) CreateMedication(ctx context.Context, medication *healthdomain.Medication) error {
	return r.db.WithContext(ctx).Create(medication).Error
}

func (r *PostgresRepository) UpdateMedication(ctx context.Context, medication *healthdomain.Medication) error {
	return r.db.WithContext(ctx).Save(medication).Error
}

func (r *PostgresRepository) DeleteMedication(ctx context.Context, medicationID string) error {
	return r.db.WithContext(ctx).Delete(&healthdomain.Medication{}, "id = ?", medicationID).Error
}
