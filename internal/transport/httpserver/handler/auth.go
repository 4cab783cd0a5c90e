package handler

import (
	"net/http"
	"time"

	"family-hub-go/internal/domain/auth"
	"family-hub-go/internal/domain/user"
	"family-hub-go/internal/transport/httpserver/middleware"
)

type userResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	IsStaff   bool       `json:"is_staff"`
	IsAdmin   bool       `json:"is_admin"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	FamilyID  *string    `json:"family_id"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		FamilyID:  u.FamilyID,
	}
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	token, account, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(w, err, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, User: toUserResponse(account)})
}

type registerRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	FamilyID   string `json:"family_id"`
	FamilyCode string `json:"family_code"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	token, account, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		FamilyID:   req.FamilyID,
		FamilyCode: req.FamilyCode,
	})
	if err != nil {
		h.respondError(w, err, "registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, User: toUserResponse(account)})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	account := middleware.UserFrom(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(account))
}
