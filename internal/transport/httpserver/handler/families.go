package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"family-hub-go/internal/domain/family"
	"family-hub-go/internal/transport/httpserver/middleware"
)

type familyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

func toFamilyResponse(f *family.Family) familyResponse {
	return familyResponse{ID: f.ID, Name: f.Name, Code: f.Code, CreatedAt: f.CreatedAt}
}

// ListFamilies is staff/admin only; it pages through every family.
func (h *Handlers) ListFamilies(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := pagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	families, err := h.families.ListFamilies(r.Context(), offset, limit)
	if err != nil {
		h.respondError(w, err, "list families failed")
		return
	}

	responses := make([]familyResponse, 0, len(families))
	for i := range families {
		responses = append(responses, toFamilyResponse(&families[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

// ListAccessibleFamilies powers the family selector: the families the
// current user may switch between.
func (h *Handlers) ListAccessibleFamilies(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())
	ids, err := h.families.AccessibleFamilyIDs(r.Context(), principal)
	if err != nil {
		h.respondError(w, err, "list accessible families failed")
		return
	}

	responses := make([]familyResponse, 0, len(ids))
	for _, id := range ids {
		f, err := h.families.GetFamily(r.Context(), id)
		if err != nil {
			h.respondError(w, err, "list accessible families failed")
			return
		}
		responses = append(responses, toFamilyResponse(f))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *Handlers) GetFamily(w http.ResponseWriter, r *http.Request) {
	familyID := chi.URLParam(r, "family_id")
	scope := middleware.ScopeFrom(r.Context())
	if !scope.Contains(familyID) {
		writeError(w, http.StatusForbidden, "family_access_denied", "no access to the requested family")
		return
	}

	f, err := h.families.GetFamily(r.Context(), familyID)
	if err != nil {
		h.respondError(w, err, "get family failed")
		return
	}
	writeJSON(w, http.StatusOK, toFamilyResponse(f))
}

type familyRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req familyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	f, err := h.families.CreateFamily(r.Context(), req.Name)
	if err != nil {
		h.respondError(w, err, "create family failed")
		return
	}
	writeJSON(w, http.StatusCreated, toFamilyResponse(f))
}

// RenameFamily updates the family name. The join code never changes.
func (h *Handlers) RenameFamily(w http.ResponseWriter, r *http.Request) {
	var req familyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	f, err := h.families.RenameFamily(r.Context(), chi.URLParam(r, "family_id"), req.Name)
	if err != nil {
		h.respondError(w, err, "rename family failed")
		return
	}
	writeJSON(w, http.StatusOK, toFamilyResponse(f))
}

func (h *Handlers) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	if err := h.families.DeleteFamily(r.Context(), chi.URLParam(r, "family_id")); err != nil {
		h.respondError(w, err, "delete family failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LookupFamilyByCode lets a registering user preview the family behind a
// join code.
func (h *Handlers) LookupFamilyByCode(w http.ResponseWriter, r *http.Request) {
	f, err := h.families.GetFamilyByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.respondError(w, err, "family code lookup failed")
		return
	}
	// Only name and code: the caller is not authenticated as a member yet.
	writeJSON(w, http.StatusOK, map[string]string{"name": f.Name, "code": f.Code})
}
