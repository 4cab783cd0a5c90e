package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	FamilyID  string
	IsStaff   bool
	IsAdmin   bool
}

type ProfileUpdate struct {
	Phone   *string
	Address *string
	City    *string
	State   *string
}

type PermissionsUpdate struct {
	IsStaff   *bool
	IsAdmin   *bool
	FamilyID  *string
	FamilyIDs []string
}

func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetUser(ctx, userID)
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetUserByUsername(ctx, username)
}

func (s *Service) ListUsers(ctx context.Context, offset, limit int) ([]User, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListUsers(ctx, offset, limit)
}

func (s *Service) ListUsersByFamily(ctx context.Context, familyID string) ([]User, error) {
	return s.repo.ListUsersByFamily(ctx, familyID)
}

// ListFamilyIDs returns the admin's many-to-many family links, falling
// back to the primary family when no links exist.
func (s *Service) ListFamilyIDs(ctx context.Context, u *User) ([]string, error) {
	ids, err := s.repo.ListFamilyIDs(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 && u.FamilyID != nil && *u.FamilyID != "" {
		ids = []string{*u.FamilyID}
	}
	return ids, nil
}

// CreateUser registers a user into an existing family. The caller resolves
// join codes to a family id beforehand.
func (s *Service) CreateUser(ctx context.Context, input CreateInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(input.Password) < 6 {
		return nil, fmt.Errorf("password must have at least 6 characters")
	}
	if input.FamilyID == "" {
		return nil, ErrFamilyRequired
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	var created User
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		taken, err := tx.UsernameExists(ctx, input.Username)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameTaken
		}
		if input.Email != "" {
			taken, err = tx.EmailExists(ctx, input.Email)
			if err != nil {
				return err
			}
			if taken {
				return ErrEmailTaken
			}
		}

		familyID := input.FamilyID
		created = User{
			ID:           uuid.NewString(),
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: hash,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			IsStaff:      input.IsStaff,
			IsAdmin:      input.IsAdmin,
			IsActive:     true,
			FamilyID:     &familyID,
		}
		if err := tx.CreateUser(ctx, &created); err != nil {
			return err
		}
		return tx.CreateProfile(ctx, &Profile{UserID: created.ID})
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetProfile returns the user's profile, creating an empty one on first
// access.
func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	profile = &Profile{UserID: userID}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Phone != nil {
		profile.Phone = *update.Phone
	}
	if update.Address != nil {
		profile.Address = *update.Address
	}
	if update.City != nil {
		profile.City = *update.City
	}
	if update.State != nil {
		profile.State = *update.State
	}

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) SetPassword(ctx context.Context, userID, password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must have at least 6 characters")
	}
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.repo.UpdateUser(ctx, u)
}

// ToggleActive flips the active flag. Admins cannot deactivate themselves.
func (s *Service) ToggleActive(ctx context.Context, actorID, userID string) (*User, error) {
	if actorID == userID {
		return nil, ErrCannotDeactivate
	}
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.IsActive = !u.IsActive
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdatePermissions adjusts role flags and family assignment. Admins get a
// list of families (the first one doubles as the primary family); staff
// and normal users get a single family.
func (s *Service) UpdatePermissions(ctx context.Context, userID string, update PermissionsUpdate) (*User, error) {
	var result *User
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		u, err := tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}

		if update.IsStaff != nil {
			u.IsStaff = *update.IsStaff
		}
		if update.IsAdmin != nil {
			u.IsAdmin = *update.IsAdmin
		}

		if u.IsAdmin && update.FamilyIDs != nil {
			if err := tx.ReplaceFamilyLinks(ctx, userID, update.FamilyIDs); err != nil {
				return err
			}
			if len(update.FamilyIDs) > 0 {
				primary := update.FamilyIDs[0]
				u.FamilyID = &primary
			}
		} else if !u.IsAdmin && update.FamilyID != nil {
			u.FamilyID = update.FamilyID
		}

		if err := tx.UpdateUser(ctx, u); err != nil {
			return err
		}
		result = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) TouchLastLogin(ctx context.Context, userID string) error {
	return s.repo.TouchLastLogin(ctx, userID)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
