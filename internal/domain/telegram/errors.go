package telegram

import "errors"

var (
	ErrBotNotConfigured = errors.New("telegram bot not configured for family")
	ErrBotConfigMissing = errors.New("telegram bot config not found")
	ErrAIConfigMissing  = errors.New("telegram ai config not found")
	ErrNotLinked        = errors.New("telegram account not linked")
	ErrLinkCodeInvalid  = errors.New("telegram link code invalid or expired")
)
