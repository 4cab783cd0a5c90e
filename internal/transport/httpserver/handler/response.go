package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"family-hub-go/internal/domain/auth"
	"family-hub-go/internal/domain/family"
	"family-hub-go/internal/domain/healthcare"
	"family-hub-go/internal/domain/maintenance"
	"family-hub-go/internal/domain/telegram"
	"family-hub-go/internal/domain/user"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// domainError maps sentinel errors from the services to HTTP responses.
// Unmapped errors fall through to a 500 at the call site.
func domainError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, family.ErrFamilyNotFound):
		writeError(w, http.StatusNotFound, "family_not_found", "family not found")
	case errors.Is(err, family.ErrFamilyCodeNotFound):
		writeError(w, http.StatusNotFound, "family_code_not_found", "no family with this code")
	case errors.Is(err, family.ErrFamilyAccessDenied):
		writeError(w, http.StatusForbidden, "family_access_denied", "no access to the requested family")
	case errors.Is(err, family.ErrNoFamily):
		writeError(w, http.StatusBadRequest, "no_family", "user does not belong to a family")
	case errors.Is(err, family.ErrFamilyHasUsers):
		writeError(w, http.StatusConflict, "family_has_users", "family still has users")
	case errors.Is(err, user.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", "user not found")
	case errors.Is(err, user.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken", "username already registered")
	case errors.Is(err, user.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", "email already registered")
	case errors.Is(err, user.ErrFamilyRequired):
		writeError(w, http.StatusBadRequest, "family_required", "user must be assigned to a family")
	case errors.Is(err, user.ErrCannotDeactivate):
		writeError(w, http.StatusBadRequest, "cannot_deactivate", "cannot deactivate own account")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
	case errors.Is(err, auth.ErrInactiveUser):
		writeError(w, http.StatusForbidden, "inactive_user", "account is inactive")
	case errors.Is(err, healthcare.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "member_not_found", "family member not found")
	case errors.Is(err, healthcare.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", "appointment not found")
	case errors.Is(err, healthcare.ErrProcedureNotFound):
		writeError(w, http.StatusNotFound, "procedure_not_found", "procedure not found")
	case errors.Is(err, healthcare.ErrMedicationNotFound):
		writeError(w, http.StatusNotFound, "medication_not_found", "medication not found")
	case errors.Is(err, maintenance.ErrEquipmentNotFound):
		writeError(w, http.StatusNotFound, "equipment_not_found", "equipment not found")
	case errors.Is(err, maintenance.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", "maintenance order not found")
	case errors.Is(err, telegram.ErrBotNotConfigured):
		writeError(w, http.StatusBadRequest, "bot_not_configured", "family has no telegram bot configured")
	case errors.Is(err, telegram.ErrNotLinked):
		writeError(w, http.StatusBadRequest, "not_linked", "telegram account not linked")
	default:
		return false
	}
	return true
}

func (h *Handlers) respondError(w http.ResponseWriter, err error, context string) {
	if domainError(w, err) {
		return
	}
	h.log.InternalError(context, err)
	writeError(w, http.StatusInternalServerError, "internal", "internal error")
}
