package user

import (
	"context"
	"errors"
	"time"

	userdomain "family-hub-go/internal/domain/user"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(userdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetUser(ctx context.Context, userID string) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context, offset, limit int) ([]userdomain.User, error) {
	var users []userdomain.User
	if err := r.db.WithContext(ctx).
		Order("username asc").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *userdomain.User) error {
	return r.db.WithContext(ctx).Omit("Families").Create(user).Error
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *userdomain.User) error {
	return r.db.WithContext(ctx).Omit("Families").Save(user).Error
}

func (r *PostgresRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userdomain.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userdomain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&userdomain.User{}).
		Where("id = ?", userID).
		Update("last_login", time.Now().UTC()).Error
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (*userdomain.Profile, error) {
	var profile userdomain.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, profile *userdomain.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, profile *userdomain.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *PostgresRepository) ListFamilyIDs(ctx context.Context, userID string) ([]string, error) {
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

func (r *PostgresRepository) ReplaceFamilyLinks(ctx context.Context, userID string, familyIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("delete from user_families where user_id = ?", userID).Error; err != nil {
			return err
		}
		for _, familyID := range familyIDs {
			row := map[string]any{"user_id": userID, "family_id": familyID}
			if err := tx.Table("user_families").Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListUsersByFamily returns users whose primary family matches plus users
// linked through the many-to-many table, deduplicated.
func (r *PostgresRepository) ListUsersByFamily(ctx context.Context, familyID string) ([]userdomain.User, error) {
	var users []userdomain.User
	if err := r.db.WithContext(ctx).
		Distinct("users.*").
		Joins("left join user_families on user_families.user_id = users.id").
		Where("users.family_id = ? OR user_families.family_id = ?", familyID, familyID).
		Order("users.username asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
