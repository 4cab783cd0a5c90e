package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"family-hub-go/internal/domain/family"
	"family-hub-go/internal/transport/httpserver/middleware"
)

const (
	dateLayout = "2006-01-02"

	defaultPageSize = 50
	maxPageSize     = 200
)

func parseDateRequired(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	return time.Parse(dateLayout, value)
}

func parseDateParam(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseDateTimeRequired(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(dateLayout, value)
}

func parseDateTimeParam(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := parseDateTimeRequired(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

func pagination(r *http.Request) (offset, limit int, err error) {
	offset, err = parseIntParam(r.URL.Query().Get("offset"), 0)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid offset")
	}
	limit, err = parseIntParam(r.URL.Query().Get("limit"), defaultPageSize)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid limit")
	}
	if limit == 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	return offset, limit, nil
}

// requireFamilyID extracts the single family the request acts on. Writes and
// per-family configuration need a concrete family: admins browsing the
// all-families scope must pass the family_id selector.
func requireFamilyID(w http.ResponseWriter, r *http.Request) (string, bool) {
	scope := middleware.ScopeFrom(r.Context())
	if familyID, ok := scope.Single(); ok {
		return familyID, true
	}
	writeError(w, http.StatusBadRequest, "family_required", "pass family_id to select the family to act on")
	return "", false
}

func scopeFrom(r *http.Request) family.Scope {
	return middleware.ScopeFrom(r.Context())
}
