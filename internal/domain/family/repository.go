package family

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetFamily(ctx context.Context, familyID string) (*Family, error)
	GetFamilyByCode(ctx context.Context, code string) (*Family, error)
	ListFamilies(ctx context.Context, offset, limit int) ([]Family, error)
	CreateFamily(ctx context.Context, family *Family) error
	UpdateFamilyName(ctx context.Context, familyID, name string) error
	DeleteFamily(ctx context.Context, familyID string) error
	IsCodeTaken(ctx context.Context, code string) (bool, error)
	CountFamilyUsers(ctx context.Context, familyID string) (int64, error)

	// ListLinkedFamilyIDs returns the many-to-many family links of a user
	// (admins may be linked to several families).
	ListLinkedFamilyIDs(ctx context.Context, userID string) ([]string, error)

	// GetUserFamilyForUpdate reads the user's primary family id holding a
	// row lock for the rest of the transaction.
	GetUserFamilyForUpdate(ctx context.Context, userID string) (*string, error)
	SetUserFamily(ctx context.Context, userID, familyID string) error
}
