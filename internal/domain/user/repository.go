package user

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetUser(ctx context.Context, userID string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]User, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	TouchLastLogin(ctx context.Context, userID string) error

	GetProfile(ctx context.Context, userID string) (*Profile, error)
	CreateProfile(ctx context.Context, profile *Profile) error
	UpdateProfile(ctx context.Context, profile *Profile) error

	ListFamilyIDs(ctx context.Context, userID string) ([]string, error)
	ReplaceFamilyLinks(ctx context.Context, userID string, familyIDs []string) error
	ListUsersByFamily(ctx context.Context, familyID string) ([]User, error)
}
