package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"family-hub-go/internal/domain/auth"
	"family-hub-go/internal/domain/user"
	"family-hub-go/pkg/logger"
)

type contextKey int

const (
	userKey contextKey = iota
	principalKey
	scopeKey
)

// Auth authenticates requests with the bearer token issued at login.
type Auth struct {
	auth *auth.Service
	log  logger.Logger
}

func NewAuth(authSvc *auth.Service, log logger.Logger) *Auth {
	return &Auth{auth: authSvc, log: log}
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		account, err := a.auth.VerifyToken(r.Context(), token)
		if err != nil {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), account)))
	})
}

func WithUser(ctx context.Context, account *user.User) context.Context {
	return context.WithValue(ctx, userKey, account)
}

// UserFrom returns the authenticated user, or nil outside the auth group.
func UserFrom(ctx context.Context) *user.User {
	account, _ := ctx.Value(userKey).(*user.User)
	return account
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid credentials")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"code": code, "message": message},
	})
}
