package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"family-hub-go/internal/domain/family"
	"family-hub-go/internal/domain/user"
	"family-hub-go/pkg/logger"
)

const (
	linkCodeLength   = 8
	linkCodeAttempts = 10

	defaultLinkCodeTTL = 10 * time.Minute
)

const fallbackResponse = "Use /ajuda para ver os comandos disponíveis. " +
	"Para respostas com IA, um admin pode configurar a API (OpenAI ou Azure) em Administração > Famílias > Editar família."

const helpText = "Comandos:\n" +
	"/start — vincular conta ou ver status\n" +
	"/ajuda — esta mensagem\n\n" +
	"Você pode perguntar em texto livre sobre: resumo da família, equipamentos, consultas, medicações, ordens de manutenção."

type Service struct {
	repo      Repository
	users     *user.Service
	bots      BotClient
	assistant *Assistant
	log       logger.Logger

	publicURL   string
	linkCodeTTL time.Duration
}

func NewService(repo Repository, users *user.Service, bots BotClient, assistant *Assistant, log logger.Logger, publicURL string, linkCodeTTL time.Duration) *Service {
	if linkCodeTTL <= 0 {
		linkCodeTTL = defaultLinkCodeTTL
	}
	return &Service{
		repo:        repo,
		users:       users,
		bots:        bots,
		assistant:   assistant,
		log:         log,
		publicURL:   strings.TrimRight(publicURL, "/"),
		linkCodeTTL: linkCodeTTL,
	}
}

// BotStatus reports whether the family has a bot configured. The token never
// leaves the server.
func (s *Service) BotStatus(ctx context.Context, familyID string) (*BotStatus, error) {
	config, err := s.repo.GetBotConfig(ctx, familyID)
	if errors.Is(err, ErrBotConfigMissing) {
		return &BotStatus{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &BotStatus{
		Configured:  config.BotToken != "",
		BotUsername: config.BotUsername,
	}, nil
}

// ConfigureBot stores the family's bot token, refreshes the cached bot
// username via getMe and registers the webhook when a public URL is set.
// Telegram API failures are logged but do not fail the save.
func (s *Service) ConfigureBot(ctx context.Context, familyID, botToken string) (*BotStatus, error) {
	botToken = strings.TrimSpace(botToken)
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	config, err := s.repo.GetBotConfig(ctx, familyID)
	if errors.Is(err, ErrBotConfigMissing) {
		config = &BotConfig{ID: uuid.NewString(), FamilyID: familyID}
	} else if err != nil {
		return nil, err
	}
	config.BotToken = botToken
	config.BotUsername = nil

	if username, err := s.bots.Username(botToken); err != nil {
		s.log.Warn("telegram getMe failed", "family_id", familyID, "error", err)
	} else {
		config.BotUsername = &username
	}

	if s.publicURL != "" {
		webhookURL := fmt.Sprintf("%s/api/v1/telegram/webhook/%s", s.publicURL, familyID)
		if err := s.bots.SetWebhook(botToken, webhookURL); err != nil {
			s.log.Warn("telegram webhook registration failed", "family_id", familyID, "error", err)
		}
	}

	if err := s.repo.SaveBotConfig(ctx, config); err != nil {
		return nil, err
	}
	return &BotStatus{Configured: true, BotUsername: config.BotUsername}, nil
}

// AIStatus returns the family AI configuration without the keys.
func (s *Service) AIStatus(ctx context.Context, familyID string) (*AIStatus, error) {
	config, err := s.repo.GetAIConfig(ctx, familyID)
	if errors.Is(err, ErrAIConfigMissing) {
		return &AIStatus{Enabled: true, Provider: ProviderOpenAI, OpenAIModel: defaultOpenAIModel}, nil
	}
	if err != nil {
		return nil, err
	}
	return aiStatusOf(config), nil
}

func (s *Service) UpdateAIConfig(ctx context.Context, familyID string, update AIConfigUpdate) (*AIStatus, error) {
	config, err := s.repo.GetAIConfig(ctx, familyID)
	if errors.Is(err, ErrAIConfigMissing) {
		config = &AIConfig{
			ID:          uuid.NewString(),
			FamilyID:    familyID,
			Enabled:     true,
			Provider:    ProviderOpenAI,
			OpenAIModel: defaultOpenAIModel,
		}
	} else if err != nil {
		return nil, err
	}

	if update.Enabled != nil {
		config.Enabled = *update.Enabled
	}
	if update.Provider != nil {
		config.Provider = *update.Provider
	}
	if update.OpenAIModel != nil && *update.OpenAIModel != "" {
		config.OpenAIModel = *update.OpenAIModel
	}
	if update.OpenAIAPIKey != nil {
		config.OpenAIAPIKey = normalizeSecret(*update.OpenAIAPIKey)
	}
	if update.AzureEndpoint != nil {
		config.AzureEndpoint = normalizeSecret(*update.AzureEndpoint)
	}
	if update.AzureAPIKey != nil {
		config.AzureAPIKey = normalizeSecret(*update.AzureAPIKey)
	}
	if update.AzureDeployment != nil {
		config.AzureDeployment = normalizeSecret(*update.AzureDeployment)
	}

	if err := s.repo.SaveAIConfig(ctx, config); err != nil {
		return nil, err
	}
	return aiStatusOf(config), nil
}

// LinkStatus reports the user's Telegram link and whether the family has a
// usable AI configuration.
func (s *Service) LinkStatus(ctx context.Context, userID, familyID string) (*LinkStatus, error) {
	status := &LinkStatus{UseAI: true, AIAvailable: s.aiAvailable(ctx, familyID)}

	link, err := s.repo.GetLinkByUser(ctx, userID)
	if errors.Is(err, ErrNotLinked) {
		return status, nil
	}
	if err != nil {
		return nil, err
	}
	status.Linked = true
	status.TelegramUsername = link.TelegramUsername
	status.UseAI = link.UseAI
	return status, nil
}

// IssueLinkCode creates a short-lived code the user sends the family bot as
// "/start CODE" to complete the link.
func (s *Service) IssueLinkCode(ctx context.Context, userID, familyID string) (*LinkCodeIssue, error) {
	config, err := s.repo.GetBotConfig(ctx, familyID)
	if errors.Is(err, ErrBotConfigMissing) {
		return nil, ErrBotNotConfigured
	}
	if err != nil {
		return nil, err
	}
	if config.BotToken == "" {
		return nil, ErrBotNotConfigured
	}

	code, err := s.generateLinkCode(ctx)
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().UTC().Add(s.linkCodeTTL)
	if err := s.repo.CreateLinkCode(ctx, &LinkCode{
		ID:        uuid.NewString(),
		Code:      code,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, err
	}

	username := config.BotUsername
	if username == nil {
		if name, err := s.bots.Username(config.BotToken); err == nil {
			username = &name
		}
	}

	return &LinkCodeIssue{Code: code, ExpiresAt: expiresAt, BotUsername: username}, nil
}

// UpdatePreferences flips the user's use_ai preference.
func (s *Service) UpdatePreferences(ctx context.Context, userID, familyID string, useAI bool) (*LinkStatus, error) {
	link, err := s.repo.GetLinkByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	link.UseAI = useAI
	if err := s.repo.SaveLink(ctx, link); err != nil {
		return nil, err
	}
	return &LinkStatus{
		Linked:           true,
		TelegramUsername: link.TelegramUsername,
		UseAI:            link.UseAI,
		AIAvailable:      s.aiAvailable(ctx, familyID),
	}, nil
}

func (s *Service) Unlink(ctx context.Context, userID string) error {
	return s.repo.DeleteLinkByUser(ctx, userID)
}

// HandleWebhook processes one Telegram update for the family's bot. It never
// returns user-facing errors: Telegram retries on failure, so replies go back
// through the bot and the handler swallows the rest.
func (s *Service) HandleWebhook(ctx context.Context, familyID string, update tgbotapi.Update) error {
	config, err := s.repo.GetBotConfig(ctx, familyID)
	if errors.Is(err, ErrBotConfigMissing) {
		return nil
	}
	if err != nil {
		return err
	}
	if config.BotToken == "" {
		return nil
	}

	message := update.Message
	if message == nil {
		message = update.EditedMessage
	}
	if message == nil || message.From == nil || message.Chat == nil {
		return nil
	}

	chatID := message.Chat.ID
	telegramUserID := message.From.ID
	text := strings.TrimSpace(message.Text)

	reply := func(response string) {
		if err := s.bots.SendMessage(config.BotToken, chatID, response); err != nil {
			s.log.InternalError("telegram reply failed", err, "family_id", familyID, "chat_id", chatID)
		}
	}

	if strings.HasPrefix(text, "/start") {
		s.handleStart(ctx, message, text, reply)
		return nil
	}
	if text == "/ajuda" || text == "/help" {
		s.handleHelp(ctx, familyID, telegramUserID, reply)
		return nil
	}

	link, err := s.repo.GetLinkByTelegramID(ctx, telegramUserID)
	if errors.Is(err, ErrNotLinked) {
		reply("Vincule sua conta primeiro. No site: Configurações > Telegram e IA > Vincular. Depois envie /start CODIGO aqui.")
		return nil
	}
	if err != nil {
		return err
	}

	account, err := s.users.GetUser(ctx, link.UserID)
	if err != nil {
		reply("Conta não encontrada. Vincule novamente pelo site.")
		return nil
	}

	// Admins can belong to several families; the message must come through
	// the bot of a family the user is actually in.
	familyIDs, err := s.users.ListFamilyIDs(ctx, account)
	if err != nil {
		return err
	}
	if !containsID(familyIDs, familyID) {
		reply("Sua conta não está nesta família. Use o bot da família em que você está cadastrado.")
		return nil
	}

	if text == "" {
		reply("Envie uma mensagem de texto ou use /ajuda.")
		return nil
	}

	if link.UseAI && s.aiAvailable(ctx, familyID) {
		aiConfig, err := s.repo.GetAIConfig(ctx, familyID)
		if err != nil {
			reply(fallbackResponse)
			return nil
		}
		answer, err := s.assistant.Answer(ctx, family.SingleScope(familyID), aiConfig, text)
		if err != nil {
			s.log.InternalError("telegram ai processing failed", err, "family_id", familyID)
			reply(fmt.Sprintf("Erro ao processar. Tente de novo ou use /ajuda. (%s)", truncate(err.Error(), 80)))
			return nil
		}
		reply(answer)
		return nil
	}

	reply(fallbackResponse)
	return nil
}

func (s *Service) handleStart(ctx context.Context, message *tgbotapi.Message, text string, reply func(string)) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		_, err := s.repo.GetLinkByTelegramID(ctx, message.From.ID)
		if err == nil {
			reply("Você já está vinculado. Envie uma mensagem ou use /ajuda.")
		} else {
			reply("Para vincular sua conta, use no site: Configurações > Telegram e IA > Vincular. Depois envie /start CODIGO aqui.")
		}
		return
	}

	code := strings.ToUpper(strings.TrimSpace(parts[1]))
	linkCode, err := s.repo.GetValidLinkCode(ctx, code, time.Now().UTC())
	if err != nil {
		reply("Código inválido ou expirado. Gere um novo no site em Configurações > Telegram e IA.")
		return
	}

	// A Telegram account relinks cleanly: the old link is dropped first.
	if err := s.repo.DeleteLinkByTelegramID(ctx, message.From.ID); err != nil && !errors.Is(err, ErrNotLinked) {
		s.log.InternalError("telegram relink cleanup failed", err, "telegram_user_id", message.From.ID)
		return
	}

	var username *string
	if message.From.UserName != "" {
		handle := "@" + message.From.UserName
		username = &handle
	}
	link := &UserLink{
		ID:               uuid.NewString(),
		UserID:           linkCode.UserID,
		TelegramUserID:   message.From.ID,
		TelegramChatID:   message.Chat.ID,
		TelegramUsername: username,
		UseAI:            true,
	}
	if err := s.repo.SaveLink(ctx, link); err != nil {
		s.log.InternalError("telegram link save failed", err, "user_id", linkCode.UserID)
		reply("Erro ao vincular. Tente novamente.")
		return
	}
	if err := s.repo.DeleteLinkCode(ctx, linkCode.ID); err != nil {
		s.log.Warn("telegram link code cleanup failed", "error", err)
	}

	reply("Conta vinculada com sucesso. Pode perguntar sobre sua família (equipamentos, consultas, medicações, etc.). Use /ajuda para comandos.")
}

func (s *Service) handleHelp(ctx context.Context, familyID string, telegramUserID int64, reply func(string)) {
	useAI := true
	if link, err := s.repo.GetLinkByTelegramID(ctx, telegramUserID); err == nil {
		useAI = link.UseAI
	}

	response := helpText
	if !(useAI && s.aiAvailable(ctx, familyID)) {
		response += "\n\nPara respostas com IA, ative e configure a API (OpenAI ou Azure) em Administração > Famílias > Editar família."
	}
	reply(response)
}

func (s *Service) aiAvailable(ctx context.Context, familyID string) bool {
	if familyID == "" {
		return false
	}
	config, err := s.repo.GetAIConfig(ctx, familyID)
	if err != nil {
		return false
	}
	if !config.Enabled || config.Provider == ProviderNone {
		return false
	}
	switch config.Provider {
	case ProviderOpenAI:
		return config.OpenAIAPIKey != nil
	case ProviderAzure:
		return config.AzureEndpoint != nil && config.AzureAPIKey != nil
	}
	return false
}

func (s *Service) generateLinkCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < linkCodeAttempts; attempt++ {
		code, err := family.GenerateCode(linkCodeLength)
		if err != nil {
			return "", err
		}
		taken, err := s.repo.IsLinkCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique link code")
}

func aiStatusOf(config *AIConfig) *AIStatus {
	provider := config.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}
	return &AIStatus{
		Enabled:        config.Enabled,
		Provider:       provider,
		OpenAIModel:    config.OpenAIModel,
		HasOpenAIKey:   config.OpenAIAPIKey != nil,
		HasAzureConfig: config.AzureEndpoint != nil && config.AzureAPIKey != nil,
	}
}

func normalizeSecret(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}
