package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"family-hub-go/internal/domain/telegram"
	"family-hub-go/internal/transport/httpserver/middleware"
)

func (h *Handlers) GetTelegramBotConfig(w http.ResponseWriter, r *http.Request) {
	familyID, ok := requireFamilyID(w, r)
	if !ok {
		return
	}
	status, err := h.telegram.BotStatus(r.Context(), familyID)
	if err != nil {
		h.respondError(w, err, "get bot config failed")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type botConfigRequest struct {
	BotToken string `json:"bot_token"`
}

func (h *Handlers) UpdateTelegramBotConfig(w http.ResponseWriter, r *http.Request) {
	familyID, ok := requireFamilyID(w, r)
	if !ok {
		return
	}

	var req botConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.BotToken == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "bot_token is required")
		return
	}

	status, err := h.telegram.ConfigureBot(r.Context(), familyID, req.BotToken)
	if err != nil {
		h.respondError(w, err, "update bot config failed")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handlers) GetTelegramAIConfig(w http.ResponseWriter, r *http.Request) {
	familyID, ok := requireFamilyID(w, r)
	if !ok {
		return
	}
	status, err := h.telegram.AIStatus(r.Context(), familyID)
	if err != nil {
		h.respondError(w, err, "get ai config failed")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type aiConfigRequest struct {
	Enabled         *bool   `json:"enabled"`
	Provider        *string `json:"provider"`
	OpenAIModel     *string `json:"openai_model"`
	OpenAIAPIKey    *string `json:"openai_api_key"`
	AzureEndpoint   *string `json:"azure_endpoint"`
	AzureAPIKey     *string `json:"azure_api_key"`
	AzureDeployment *string `json:"azure_deployment"`
}

func (h *Handlers) UpdateTelegramAIConfig(w http.ResponseWriter, r *http.Request) {
	familyID, ok := requireFamilyID(w, r)
	if !ok {
		return
	}

	var req aiConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	status, err := h.telegram.UpdateAIConfig(r.Context(), familyID, telegram.AIConfigUpdate{
		Enabled:         req.Enabled,
		Provider:        req.Provider,
		OpenAIModel:     req.OpenAIModel,
		OpenAIAPIKey:    req.OpenAIAPIKey,
		AzureEndpoint:   req.AzureEndpoint,
		AzureAPIKey:     req.AzureAPIKey,
		AzureDeployment: req.AzureDeployment,
	})
	if err != nil {
		h.respondError(w, err, "update ai config failed")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handlers) GetTelegramStatus(w http.ResponseWriter, r *http.Request) {
	familyID, ok := requireFamilyID(w, r)
	if !ok {
		return
	}
	account := middleware.UserFrom(r.Context())
	status, err := h.telegram.LinkStatus(r.Context(), account.ID, familyID)
	if err != nil {
		h.respondError(w, err, "get telegram status failed")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handlers) GenerateTelegramLinkCode(w http.ResponseWriter, r *http.Request) {
	familyID, ok := requireFamilyID(w, r)
	if !ok {
		return
	}
	account := middleware.UserFrom(r.Context())
	issue, err := h.telegram.IssueLinkCode(r.Context(), account.ID, familyID)
	if err != nil {
		h.respondError(w, err, "generate link code failed")
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

type telegramPreferencesRequest struct {
	UseAI bool `json:"use_ai"`
}

func (h *Handlers) UpdateTelegramPreferences(w http.ResponseWriter, r *http.Request) {
	familyID, ok := requireFamilyID(w, r)
	if !ok {
		return
	}

	var req telegramPreferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	account := middleware.UserFrom(r.Context())
	status, err := h.telegram.UpdatePreferences(r.Context(), account.ID, familyID, req.UseAI)
	if err != nil {
		h.respondError(w, err, "update telegram preferences failed")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handlers) UnlinkTelegram(w http.ResponseWriter, r *http.Request) {
	account := middleware.UserFrom(r.Context())
	if err := h.telegram.Unlink(r.Context(), account.ID); err != nil {
		h.respondError(w, err, "unlink telegram failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TelegramWebhook receives updates from the Telegram Bot API. It always
// answers 200 so Telegram stops retrying; failures are logged server side.
func (h *Handlers) TelegramWebhook(w http.ResponseWriter, r *http.Request) {
	familyID := chi.URLParam(r, "family_id")

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	if err := h.telegram.HandleWebhook(r.Context(), familyID, update); err != nil {
		h.log.InternalError("telegram webhook failed", err, "family_id", familyID)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
