package dashboard

import (
	"context"
	"errors"
	"time"

	dashdomain "family-hub-go/internal/domain/dashboard"
	healthdomain "family-hub-go/internal/domain/healthcare"
	maintdomain "family-hub-go/internal/domain/maintenance"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetPreference(ctx context.Context, userID string) (*dashdomain.Preference, error) {
	var preference dashdomain.Preference
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&preference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dashdomain.ErrPreferenceNotFound
		}
		return nil, err
	}
	return &preference, nil
}

func (r *PostgresRepository) SavePreference(ctx context.Context, preference *dashdomain.Preference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(preference).Error
}

func (r *PostgresRepository) CountMembers(ctx context.Context, familyIDs []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&healthdomain.FamilyMember{}).
		Where("family_id IN ?", familyIDs).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountAppointmentsAfter(ctx context.Context, familyIDs []string, after time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&healthdomain.MedicalAppointment{}).
		Joins("join family_members on family_members.id = medical_appointments.family_member_id").
		Where("family_members.family_id IN ?", familyIDs).
		Where("medical_appointments.appointment_date >= ?", after).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountEquipment(ctx context.Context, familyIDs []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&maintdomain.Equipment{}).
		Where("family_id IN ?", familyIDs).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountActiveMedications(ctx context.Context, familyIDs []string, today time.Time) (int64, error) {
	// Both medication bounds are date columns; compare against the day, not
	// the full timestamp, so a medication ending today still counts.
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	var count int64
	err := r.db.WithContext(ctx).Model(&healthdomain.Medication{}).
		Joins("join family_members on family_members.id = medications.family_member_id").
		Where("family_members.family_id IN ?", familyIDs).
		Where("medications.start_date <= ? AND (medications.end_date IS NULL OR medications.end_date >= ?)", day, day).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountOrders(ctx context.Context, familyIDs []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&maintdomain.MaintenanceOrder{}).
		Joins("join equipment on equipment.id = maintenance_orders.equipment_id").
		Where("equipment.family_id IN ?", familyIDs).
		Count(&count).Error
	return count, err
}
