package family

import (
	"context"
	"errors"

	familydomain "family-hub-go/internal/domain/family"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetFamily(ctx context.Context, familyID string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("id = ?", familyID).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) GetFamilyByCode(ctx context.Context, code string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyCodeNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) ListFamilies(ctx context.Context, offset, limit int) ([]familydomain.Family, error) {
	var families []familydomain.Family
	if err := r.db.WithContext(ctx).
		Order("name asc").
		Offset(offset).
		Limit(limit).
		Find(&families).Error; err != nil {
		return nil, err
	}
	return families, nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *PostgresRepository) UpdateFamilyName(ctx context.Context, familyID, name string) error {
	return r.db.WithContext(ctx).Model(&familydomain.Family{}).Where("id = ?", familyID).Update("name", name).Error
}

func (r *PostgresRepository) DeleteFamily(ctx context.Context, familyID string) error {
	return r.db.WithContext(ctx).Delete(&familydomain.Family{}, "id = ?", familyID).Error
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.Family{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CountFamilyUsers(ctx context.Context, familyID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("users").Where("family_id = ?", familyID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) ListLinkedFamilyIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Table("user_families").
		Where("user_id = ?", userID).
		Order("family_id asc").
		Pluck("family_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GetUserFamilyForUpdate locks the user row so concurrent provisioning for
// the same user serializes on it.
func (r *PostgresRepository) GetUserFamilyForUpdate(ctx context.Context, userID string) (*string, error) {
	var row struct {
		FamilyID *string `gorm:"column:family_id"`
	}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("family_id").
		Where("id = ?", userID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return row.FamilyID, nil
}

func (r *PostgresRepository) SetUserFamily(ctx context.Context, userID, familyID string) error {
	return r.db.WithContext(ctx).Table("users").Where("id = ?", userID).Update("family_id", familyID).Error
}
