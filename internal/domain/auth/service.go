package auth

import (
	"context"
	"fmt"
	"strings"

	"family-hub-go/internal/domain/family"
	"family-hub-go/internal/domain/user"
)

type Service struct {
	users    *user.Service
	families *family.Service
	tokens   *TokenManager
}

func NewService(users *user.Service, families *family.Service, tokens *TokenManager) *Service {
	return &Service{users: users, families: families, tokens: tokens}
}

type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	FirstName  string
	LastName   string
	FamilyID   string
	FamilyCode string
}

// Login checks credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *user.User, error) {
	username = strings.TrimSpace(username)

	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if user.IsNotFound(err) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.CheckPassword(u.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return "", nil, ErrInactiveUser
	}

	if err := s.users.TouchLastLogin(ctx, u.ID); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Register creates a normal user, joining an existing family by id or code
// or provisioning a fresh one, and issues a token.
func (s *Service) Register(ctx context.Context, input RegisterInput) (string, *user.User, error) {
	familyID := strings.TrimSpace(input.FamilyID)

	if familyID == "" && strings.TrimSpace(input.FamilyCode) != "" {
		fam, err := s.families.GetFamilyByCode(ctx, input.FamilyCode)
		if err != nil {
			return "", nil, err
		}
		familyID = fam.ID
	}

	if familyID == "" {
		display := strings.TrimSpace(input.FirstName)
		if display == "" {
			display = strings.TrimSpace(input.Username)
		}
		fam, err := s.families.CreateFamily(ctx, family.DefaultName(display))
		if err != nil {
			return "", nil, fmt.Errorf("provision family: %w", err)
		}
		familyID = fam.ID
	}

	u, err := s.users.CreateUser(ctx, user.CreateInput{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		FamilyID:  familyID,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// VerifyToken resolves a bearer token to the user it belongs to.
func (s *Service) VerifyToken(ctx context.Context, token string) (*user.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if user.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInvalidToken
	}
	return u, nil
}
