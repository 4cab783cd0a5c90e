package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"family-hub-go/internal/domain/user"
	"family-hub-go/internal/transport/httpserver/middleware"
)

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := pagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	principal := middleware.PrincipalFrom(r.Context())
	var users []user.User
	if principal.Admin || principal.Staff {
		users, err = h.users.ListUsers(r.Context(), offset, limit)
	} else {
		// Normal users only see members of their own family.
		familyID, ok := requireFamilyID(w, r)
		if !ok {
			return
		}
		users, err = h.users.ListUsersByFamily(r.Context(), familyID)
	}
	if err != nil {
		h.respondError(w, err, "list users failed")
		return
	}

	responses := make([]userResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	account, err := h.users.GetUser(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		h.respondError(w, err, "get user failed")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(account))
}

type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FamilyID  string `json:"family_id"`
	IsStaff   bool   `json:"is_staff"`
	IsAdmin   bool   `json:"is_admin"`
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	account, err := h.users.CreateUser(r.Context(), user.CreateInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		FamilyID:  req.FamilyID,
		IsStaff:   req.IsStaff,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		h.respondError(w, err, "create user failed")
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(account))
}

type profileResponse struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	account := middleware.UserFrom(r.Context())
	profile, err := h.users.GetProfile(r.Context(), account.ID)
	if err != nil {
		h.respondError(w, err, "get profile failed")
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		Phone:   profile.Phone,
		Address: profile.Address,
		City:    profile.City,
		State:   profile.State,
	})
}

type profileUpdateRequest struct {
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	account := middleware.UserFrom(r.Context())
	profile, err := h.users.UpdateProfile(r.Context(), account.ID, user.ProfileUpdate{
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
	})
	if err != nil {
		h.respondError(w, err, "update profile failed")
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		Phone:   profile.Phone,
		Address: profile.Address,
		City:    profile.City,
		State:   profile.State,
	})
}

type changePasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	account := middleware.UserFrom(r.Context())
	if err := h.users.SetPassword(r.Context(), account.ID, req.Password); err != nil {
		h.respondError(w, err, "change password failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ToggleUserActive(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFrom(r.Context())
	account, err := h.users.ToggleActive(r.Context(), actor.ID, chi.URLParam(r, "user_id"))
	if err != nil {
		h.respondError(w, err, "toggle user failed")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(account))
}

type permissionsRequest struct {
	IsStaff   *bool    `json:"is_staff"`
	IsAdmin   *bool    `json:"is_admin"`
	FamilyID  *string  `json:"family_id"`
	FamilyIDs []string `json:"family_ids"`
}

func (h *Handlers) UpdateUserPermissions(w http.ResponseWriter, r *http.Request) {
	var req permissionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	account, err := h.users.UpdatePermissions(r.Context(), chi.URLParam(r, "user_id"), user.PermissionsUpdate{
		IsStaff:   req.IsStaff,
		IsAdmin:   req.IsAdmin,
		FamilyID:  req.FamilyID,
		FamilyIDs: req.FamilyIDs,
	})
	if err != nil {
		h.respondError(w, err, "update permissions failed")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(account))
}
