package telegram

import (
	"context"
	"time"
)

type Repository interface {
	GetBotConfig(ctx context.Context, familyID string) (*BotConfig, error)
	SaveBotConfig(ctx context.Context, config *BotConfig) error

	GetAIConfig(ctx context.Context, familyID string) (*AIConfig, error)
	SaveAIConfig(ctx context.Context, config *AIConfig) error

	GetLinkByUser(ctx context.Context, userID string) (*UserLink, error)
	GetLinkByTelegramID(ctx context.Context, telegramUserID int64) (*UserLink, error)
	SaveLink(ctx context.Context, link *UserLink) error
	DeleteLinkByUser(ctx context.Context, userID string) error
	DeleteLinkByTelegramID(ctx context.Context, telegramUserID int64) error

	CreateLinkCode(ctx context.Context, code *LinkCode) error
	GetValidLinkCode(ctx context.Context, code string, now time.Time) (*LinkCode, error)
	DeleteLinkCode(ctx context.Context, id string) error
	IsLinkCodeTaken(ctx context.Context, code string) (bool, error)
}
