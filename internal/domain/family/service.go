package family

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const joinCodeAttempts = 10

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AccessibleFamilyIDs returns every family the principal may act on.
// Admins get the deduplicated union of their many-to-many links and their
// primary family; staff and normal users get their primary family or
// nothing. Pure read.
func (s *Service) AccessibleFamilyIDs(ctx context.Context, p Principal) ([]string, error) {
	if !p.Admin {
		if p.FamilyID != nil && *p.FamilyID != "" {
			return []string{*p.FamilyID}, nil
		}
		return nil, nil
	}

	linked, err := s.repo.ListLinkedFamilyIDs(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(linked)+1)
	seen := make(map[string]struct{}, len(linked)+1)
	for _, id := range linked {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if p.FamilyID != nil && *p.FamilyID != "" {
		if _, ok := seen[*p.FamilyID]; !ok {
			ids = append(ids, *p.FamilyID)
		}
	}
	return ids, nil
}

// ResolveScope turns the principal plus an optional explicit family
// selector into the tenancy scope of the request. It never writes;
// tenantless normal users must go through EnsureFamily first.
func (s *Service) ResolveScope(ctx context.Context, p Principal, requestedFamilyID string) (Scope, error) {
	requestedFamilyID = strings.TrimSpace(requestedFamilyID)

	if (p.Admin || p.Staff) && requestedFamilyID != "" {
		if _, err := s.repo.GetFamily(ctx, requestedFamilyID); err != nil {
			return Scope{}, err
		}
		if p.Admin {
			accessible, err := s.AccessibleFamilyIDs(ctx, p)
			if err != nil {
				return Scope{}, err
			}
			if !contains(accessible, requestedFamilyID) {
				return Scope{}, ErrFamilyAccessDenied
			}
		}
		return SingleScope(requestedFamilyID), nil
	}

	if p.Admin || p.Staff {
		accessible, err := s.AccessibleFamilyIDs(ctx, p)
		if err != nil {
			return Scope{}, err
		}
		return AllScope(accessible), nil
	}

	if p.FamilyID != nil && *p.FamilyID != "" {
		return SingleScope(*p.FamilyID), nil
	}

	return Scope{}, ErrNoFamily
}

// EnsureFamily provisions a family for a normal principal that has none
// yet and returns its id. The user row is locked for the duration of the
// transaction so concurrent first requests cannot create two families; a
// principal that already has a family gets it back unchanged.
func (s *Service) EnsureFamily(ctx context.Context, p Principal) (string, error) {
	if p.FamilyID != nil && *p.FamilyID != "" {
		return *p.FamilyID, nil
	}

	var familyID string
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetUserFamilyForUpdate(ctx, p.UserID)
		if err != nil {
			return err
		}
		if current != nil && *current != "" {
			familyID = *current
			return nil
		}

		fam, err := createFamily(ctx, tx, DefaultName(p.DisplayName))
		if err != nil {
			return err
		}
		if err := tx.SetUserFamily(ctx, p.UserID, fam.ID); err != nil {
			return err
		}

		familyID = fam.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return familyID, nil
}

func (s *Service) GetFamily(ctx context.Context, familyID string) (*Family, error) {
	return s.repo.GetFamily(ctx, familyID)
}

func (s *Service) GetFamilyByCode(ctx context.Context, code string) (*Family, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrFamilyCodeNotFound
	}
	return s.repo.GetFamilyByCode(ctx, code)
}

func (s *Service) ListFamilies(ctx context.Context, offset, limit int) ([]Family, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListFamilies(ctx, offset, limit)
}

// CreateFamily creates a family with a freshly generated join code.
// Admin-only at the transport layer.
func (s *Service) CreateFamily(ctx context.Context, name string) (*Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var result *Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		fam, err := createFamily(ctx, tx, name)
		if err != nil {
			return err
		}
		result = fam
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RenameFamily updates the family name. The join code is immutable.
func (s *Service) RenameFamily(ctx context.Context, familyID, name string) (*Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	fam, err := s.repo.GetFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFamilyName(ctx, familyID, name); err != nil {
		return nil, err
	}

	fam.Name = name
	return fam, nil
}

// DeleteFamily removes a family that no user is attached to.
func (s *Service) DeleteFamily(ctx context.Context, familyID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetFamily(ctx, familyID); err != nil {
			return err
		}
		count, err := tx.CountFamilyUsers(ctx, familyID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrFamilyHasUsers
		}
		return tx.DeleteFamily(ctx, familyID)
	})
}

func createFamily(ctx context.Context, tx Repository, name string) (*Family, error) {
	code, err := generateUniqueCode(ctx, tx)
	if err != nil {
		return nil, err
	}

	fam := Family{
		ID:   uuid.NewString(),
		Name: name,
		Code: code,
	}
	if err := tx.CreateFamily(ctx, &fam); err != nil {
		return nil, err
	}
	return &fam, nil
}

// DefaultName is the name given to auto-provisioned families.
func DefaultName(displayName string) string {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = "Casa"
	}
	return fmt.Sprintf("Família de %s", displayName)
}

// generateUniqueCode pre-checks candidates against existing codes to keep
// collisions rare; the unique index on families.code is what actually
// guarantees uniqueness at commit time.
func generateUniqueCode(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < joinCodeAttempts; i++ {
		code, err := GenerateCode(joinCodeLength)
		if err != nil {
			return "", err
		}
		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

// GenerateCode returns a random code of the given length drawn from
// uppercase letters and digits.
func GenerateCode(length int) (string, error) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}

	return builder.String(), nil
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is one of the not-found sentinels of this
// package.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFamilyNotFound) || errors.Is(err, ErrFamilyCodeNotFound)
}
