package middleware

import (
	"context"
	"errors"
	"net/http"

	"family-hub-go/internal/domain/family"
	"family-hub-go/pkg/logger"
)

// Tenancy resolves the family scope for the authenticated user. It runs
// after Auth: it provisions a family for normal users who have none yet,
// then resolves the read scope from the optional family_id selector.
type Tenancy struct {
	families *family.Service
	log      logger.Logger
}

func NewTenancy(families *family.Service, log logger.Logger) *Tenancy {
	return &Tenancy{families: families, log: log}
}

func (t *Tenancy) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := UserFrom(r.Context())
		if account == nil {
			unauthorized(w)
			return
		}

		principal := account.Principal()
		if principal.FamilyID == nil && !principal.Admin && !principal.Staff {
			familyID, err := t.families.EnsureFamily(r.Context(), principal)
			if err != nil {
				t.log.InternalError("family provisioning failed", err, "user_id", principal.UserID)
				writeError(w, http.StatusInternalServerError, "internal", "could not provision family")
				return
			}
			principal.FamilyID = &familyID
		}

		scope, err := t.families.ResolveScope(r.Context(), principal, r.URL.Query().Get("family_id"))
		if err != nil {
			switch {
			case errors.Is(err, family.ErrFamilyNotFound):
				writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			case errors.Is(err, family.ErrFamilyAccessDenied):
				writeError(w, http.StatusForbidden, "family_access_denied", "no access to the requested family")
			case errors.Is(err, family.ErrNoFamily):
				writeError(w, http.StatusBadRequest, "no_family", "user does not belong to a family")
			default:
				t.log.InternalError("scope resolution failed", err, "user_id", principal.UserID)
				writeError(w, http.StatusInternalServerError, "internal", "could not resolve family scope")
			}
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		ctx = context.WithValue(ctx, scopeKey, scope)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFrom returns the tenancy principal set by the Tenancy middleware.
func PrincipalFrom(ctx context.Context) family.Principal {
	principal, _ := ctx.Value(principalKey).(family.Principal)
	return principal
}

// ScopeFrom returns the resolved family scope for the request.
func ScopeFrom(ctx context.Context) family.Scope {
	scope, _ := ctx.Value(scopeKey).(family.Scope)
	return scope
}
