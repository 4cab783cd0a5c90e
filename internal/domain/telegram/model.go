package telegram

import "time"

// AI providers a family can configure.
const (
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
	ProviderNone   = "none"
)

const defaultOpenAIModel = "gpt-4o-mini"

// BotConfig holds the family's bot token. Each family creates its own bot
// with @BotFather and pastes the token; the username is cached from getMe.
type BotConfig struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	FamilyID      string    `gorm:"type:uuid;not null;uniqueIndex"`
	BotToken      string    `gorm:"size:200;not null"`
	WebhookSecret *string   `gorm:"size:100"`
	BotUsername   *string   `gorm:"size:100"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (BotConfig) TableName() string { return "telegram_bot_configs" }

// AIConfig is the per-family LLM configuration. Keys are stored server side
// and never returned to clients.
type AIConfig struct {
	ID              string    `gorm:"type:uuid;primaryKey"`
	FamilyID        string    `gorm:"type:uuid;not null;uniqueIndex"`
	Enabled         bool      `gorm:"not null;default:true"`
	Provider        string    `gorm:"size:20;not null;default:'openai'"`
	OpenAIAPIKey    *string   `gorm:"column:openai_api_key;type:text"`
	OpenAIModel     string    `gorm:"column:openai_model;size:80;not null;default:'gpt-4o-mini'"`
	AzureEndpoint   *string   `gorm:"size:500"`
	AzureAPIKey     *string   `gorm:"type:text"`
	AzureDeployment *string   `gorm:"size:100"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (AIConfig) TableName() string { return "telegram_ai_configs" }

// UserLink ties an application user to a Telegram account.
type UserLink struct {
	ID               string    `gorm:"type:uuid;primaryKey"`
	UserID           string    `gorm:"type:uuid;not null;uniqueIndex"`
	TelegramUserID   int64     `gorm:"not null;uniqueIndex"`
	TelegramChatID   int64     `gorm:"not null;index"`
	TelegramUsername *string   `gorm:"size:100"`
	UseAI            bool      `gorm:"not null;default:true"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (UserLink) TableName() string { return "telegram_user_links" }

// LinkCode is a short-lived single-use code the user sends the bot via
// "/start CODE" to complete the link.
type LinkCode struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	UserID    string    `gorm:"type:uuid;not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (LinkCode) TableName() string { return "telegram_link_codes" }

type AIConfigUpdate struct {
	Enabled         *bool
	Provider        *string
	OpenAIModel     *string
	OpenAIAPIKey    *string
	AzureEndpoint   *string
	AzureAPIKey     *string
	AzureDeployment *string
}

// BotStatus is what clients see about the family bot. The token stays hidden.
type BotStatus struct {
	Configured  bool    `json:"configured"`
	BotUsername *string `json:"bot_username"`
}

// AIStatus exposes the AI configuration without the keys themselves.
type AIStatus struct {
	Enabled        bool   `json:"enabled"`
	Provider       string `json:"provider"`
	OpenAIModel    string `json:"openai_model"`
	HasOpenAIKey   bool   `json:"has_openai_key"`
	HasAzureConfig bool   `json:"has_azure_config"`
}

type LinkStatus struct {
	Linked           bool    `json:"linked"`
	TelegramUsername *string `json:"telegram_username"`
	UseAI            bool    `json:"use_ai"`
	AIAvailable      bool    `json:"ai_available"`
}

type LinkCodeIssue struct {
	Code        string    `json:"code"`
	ExpiresAt   time.Time `json:"expires_at"`
	BotUsername *string   `json:"bot_username"`
}
