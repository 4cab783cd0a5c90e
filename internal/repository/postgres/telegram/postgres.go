package telegram

import (
	"context"
	"errors"
	"time"

	tgdomain "family-hub-go/internal/domain/telegram"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetBotConfig(ctx context.Context, familyID string) (*tgdomain.BotConfig, error) {
	var config tgdomain.BotConfig
	if err := r.db.WithContext(ctx).Where("family_id = ?", familyID).First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tgdomain.ErrBotConfigMissing
		}
		return nil, err
	}
	return &config, nil
}

func (r *PostgresRepository) SaveBotConfig(ctx context.Context, config *tgdomain.BotConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

func (r *PostgresRepository) GetAIConfig(ctx context.Context, familyID string) (*tgdomain.AIConfig, error) {
	var config tgdomain.AIConfig
	if err := r.db.WithContext(ctx).Where("family_id = ?", familyID).First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tgdomain.ErrAIConfigMissing
		}
		return nil, err
	}
	return &config, nil
}

func (r *PostgresRepository) SaveAIConfig(ctx context.Context, config *tgdomain.AIConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

func (r *PostgresRepository) GetLinkByUser(ctx context.Context, userID string) (*tgdomain.UserLink, error) {
	var link tgdomain.UserLink
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tgdomain.ErrNotLinked
		}
		return nil, err
	}
	return &link, nil
}

func (r *PostgresRepository) GetLinkByTelegramID(ctx context.Context, telegramUserID int64) (*tgdomain.UserLink, error) {
	var link tgdomain.UserLink
	if err := r.db.WithContext(ctx).Where("telegram_user_id = ?", telegramUserID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tgdomain.ErrNotLinked
		}
		return nil, err
	}
	return &link, nil
}

func (r *PostgresRepository) SaveLink(ctx context.Context, link *tgdomain.UserLink) error {
	return r.db.WithContext(ctx).Save(link).Error
}

func (r *PostgresRepository) DeleteLinkByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&tgdomain.UserLink{}).Error
}

func (r *PostgresRepository) DeleteLinkByTelegramID(ctx context.Context, telegramUserID int64) error {
	return r.db.WithContext(ctx).Where("telegram_user_id = ?", telegramUserID).Delete(&tgdomain.UserLink{}).Error
}

func (r *PostgresRepository) CreateLinkCode(ctx context.Context, code *tgdomain.LinkCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *PostgresRepository) GetValidLinkCode(ctx context.Context, code string, now time.Time) (*tgdomain.LinkCode, error) {
	var linkCode tgdomain.LinkCode
	err := r.db.WithContext(ctx).
		Where("code = ? AND expires_at > ?", code, now).
		First(&linkCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tgdomain.ErrLinkCodeInvalid
	}
	if err != nil {
		return nil, err
	}
	return &linkCode, nil
}

func (r *PostgresRepository) DeleteLinkCode(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&tgdomain.LinkCode{}, "id = ?", id).Error
}

func (r *PostgresRepository) IsLinkCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&tgdomain.LinkCode{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
