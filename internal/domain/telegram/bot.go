package telegram

import (
	"fmt"
	"sync"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	maxMessageLength = 4096
	truncationMarker = "\n\n[... resposta truncada]"
)

// BotClient talks to the Telegram Bot API for a given bot token. Each family
// brings its own token, so calls are keyed by token rather than a single
// process-wide bot.
type BotClient interface {
	Username(token string) (string, error)
	SetWebhook(token, url string) error
	SendMessage(token string, chatID int64, text string) error
}

type botAPIClient struct {
	mu   sync.Mutex
	bots map[string]*tgbotapi.BotAPI
}

func NewBotClient() BotClient {
	return &botAPIClient{bots: make(map[string]*tgbotapi.BotAPI)}
}

func (c *botAPIClient) bot(token string) (*tgbotapi.BotAPI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if bot, ok := c.bots[token]; ok {
		return bot, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram getMe: %w", err)
	}
	c.bots[token] = bot
	return bot, nil
}

func (c *botAPIClient) Username(token string) (string, error) {
	bot, err := c.bot(token)
	if err != nil {
		return "", err
	}
	return "@" + bot.Self.UserName, nil
}

func (c *botAPIClient) SetWebhook(token, url string) error {
	bot, err := c.bot(token)
	if err != nil {
		return err
	}
	webhook, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("telegram webhook config: %w", err)
	}
	if _, err := bot.Request(webhook); err != nil {
		return fmt.Errorf("telegram setWebhook: %w", err)
	}
	return nil
}

func (c *botAPIClient) SendMessage(token string, chatID int64, text string) error {
	bot, err := c.bot(token)
	if err != nil {
		return err
	}
	message := tgbotapi.NewMessage(chatID, truncateMessage(text))
	if _, err := bot.Send(message); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

// truncateMessage caps the text at Telegram's message limit, cutting on a
// rune boundary so multi-byte characters are never split.
func truncateMessage(text string) string {
	if len(text) <= maxMessageLength {
		return text
	}
	cut := maxMessageLength - len(truncationMarker)
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + truncationMarker
}
