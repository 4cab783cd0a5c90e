package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"family-hub-go/internal/domain/family"
	"family-hub-go/internal/domain/user"
)

type fakeUserRepo struct {
	users    map[string]*user.User
	profiles map[string]*user.Profile
	links    map[string][]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[string]*user.User),
		profiles: make(map[string]*user.Profile),
		links:    make(map[string][]string),
	}
}

func (r *fakeUserRepo) Transaction(ctx context.Context, fn func(user.Repository) error) error {
	return fn(r)
}

func (r *fakeUserRepo) GetUser(ctx context.Context, userID string) (*user.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) ListUsers(ctx context.Context, offset, limit int) ([]user.User, error) {
	var users []user.User
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, u *user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, u *user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetUserByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) TouchLastLogin(ctx context.Context, userID string) error {
	if u, ok := r.users[userID]; ok {
		now := time.Now().UTC()
		u.LastLogin = &now
	}
	return nil
}

func (r *fakeUserRepo) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return p, nil
}

func (r *fakeUserRepo) CreateProfile(ctx context.Context, profile *user.Profile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, profile *user.Profile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeUserRepo) ListFamilyIDs(ctx context.Context, userID string) ([]string, error) {
	return r.links[userID], nil
}

func (r *fakeUserRepo) ReplaceFamilyLinks(ctx context.Context, userID string, familyIDs []string) error {
	r.links[userID] = familyIDs
	return nil
}

func (r *fakeUserRepo) ListUsersByFamily(ctx context.Context, familyID string) ([]user.User, error) {
	var users []user.User
	for _, u := range r.users {
		if u.FamilyID != nil && *u.FamilyID == familyID {
			users = append(users, *u)
		}
	}
	return users, nil
}

type fakeFamilyRepo struct {
	families map[string]*family.Family
}

func newFakeFamilyRepo() *fakeFamilyRepo {
	return &fakeFamilyRepo{families: make(map[string]*family.Family)}
}

func (r *fakeFamilyRepo) Transaction(ctx context.Context, fn func(family.Repository) error) error {
	return fn(r)
}

func (r *fakeFamilyRepo) GetFamily(ctx context.Context, familyID string) (*family.Family, error) {
	f, ok := r.families[familyID]
	if !ok {
		return nil, family.ErrFamilyNotFound
	}
	return f, nil
}

func (r *fakeFamilyRepo) GetFamilyByCode(ctx context.Context, code string) (*family.Family, error) {
	for _, f := range r.families {
		if f.Code == code {
			return f, nil
		}
	}
	return nil, family.ErrFamilyCodeNotFound
}

func (r *fakeFamilyRepo) ListFamilies(ctx context.Context, offset, limit int) ([]family.Family, error) {
	var families []family.Family
	for _, f := range r.families {
		families = append(families, *f)
	}
	return families, nil
}

func (r *fakeFamilyRepo) CreateFamily(ctx context.Context, f *family.Family) error {
	r.families[f.ID] = f
	return nil
}

func (r *fakeFamilyRepo) UpdateFamilyName(ctx context.Context, familyID, name string) error {
	if f, ok := r.families[familyID]; ok {
		f.Name = name
	}
	return nil
}

func (r *fakeFamilyRepo) DeleteFamily(ctx context.Context, familyID string) error {
	delete(r.families, familyID)
	return nil
}

func (r *fakeFamilyRepo) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	_, err := r.GetFamilyByCode(ctx, code)
	return err == nil, nil
}

func (r *fakeFamilyRepo) CountFamilyUsers(ctx context.Context, familyID string) (int64, error) {
	return 0, nil
}

func (r *fakeFamilyRepo) ListLinkedFamilyIDs(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}

func (r *fakeFamilyRepo) GetUserFamilyForUpdate(ctx context.Context, userID string) (*string, error) {
	return nil, nil
}

func (r *fakeFamilyRepo) SetUserFamily(ctx context.Context, userID, familyID string) error {
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeFamilyRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	familyRepo := newFakeFamilyRepo()
	svc := NewService(
		user.NewService(userRepo),
		family.NewService(familyRepo),
		NewTokenManager("test-secret", time.Hour),
	)
	return svc, userRepo, familyRepo
}

func register(t *testing.T, svc *Service, input RegisterInput) *user.User {
	t.Helper()
	_, u, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	return u
}

func TestRegisterProvisionsFamily(t *testing.T) {
	svc, _, familyRepo := newTestService(t)

	u := register(t, svc, RegisterInput{
		Username:  "joao",
		Password:  "secret1",
		FirstName: "João",
	})

	require.NotNil(t, u.FamilyID)
	fam, err := familyRepo.GetFamily(context.Background(), *u.FamilyID)
	require.NoError(t, err)
	assert.Equal(t, "Família de João", fam.Name)
	assert.Len(t, fam.Code, 8)
}

func TestRegisterJoinsFamilyByCode(t *testing.T) {
	svc, _, familyRepo := newTestService(t)
	familyRepo.families["fam-1"] = &family.Family{ID: "fam-1", Name: "Silva", Code: "ABC12345"}

	u := register(t, svc, RegisterInput{
		Username:   "maria",
		Password:   "secret1",
		FamilyCode: "abc12345",
	})

	require.NotNil(t, u.FamilyID)
	assert.Equal(t, "fam-1", *u.FamilyID)
	// No second family was provisioned.
	assert.Len(t, familyRepo.families, 1)
}

func TestRegisterUnknownCode(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Username:   "maria",
		Password:   "secret1",
		FamilyCode: "NOPE0000",
	})
	assert.ErrorIs(t, err, family.ErrFamilyCodeNotFound)
}

func TestLogin(t *testing.T) {
	svc, userRepo, _ := newTestService(t)
	registered := register(t, svc, RegisterInput{Username: "joao", Password: "secret1"})

	token, u, err := svc.Login(context.Background(), "joao", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.NotNil(t, userRepo.users[u.ID].LastLogin)

	verified, err := svc.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, verified.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, RegisterInput{Username: "joao", Password: "secret1"})

	_, _, err := svc.Login(context.Background(), "joao", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "ghost", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, userRepo, _ := newTestService(t)
	u := register(t, svc, RegisterInput{Username: "joao", Password: "secret1"})
	userRepo.users[u.ID].IsActive = false

	_, _, err := svc.Login(context.Background(), "joao", "secret1")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestVerifyTokenDeactivatedUser(t *testing.T) {
	svc, userRepo, _ := newTestService(t)
	u := register(t, svc, RegisterInput{Username: "joao", Password: "secret1"})

	token, _, err := svc.Login(context.Background(), "joao", "secret1")
	require.NoError(t, err)

	userRepo.users[u.ID].IsActive = false
	_, err = svc.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
