package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users    map[string]*User
	profiles map[string]*Profile
	links    map[string][]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[string]*User),
		profiles: make(map[string]*Profile),
		links:    make(map[string][]string),
	}
}

func (r *fakeUserRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeUserRepo) GetUser(ctx context.Context, userID string) (*User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) ListUsers(ctx context.Context, offset, limit int) ([]User, error) {
	var users []User
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, u *User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, u *User) error {
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

func (r *fakeUserRepo) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return p, nil
}

func (r *fakeUserRepo) CreateProfile(ctx context.Context, profile *Profile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, profile *Profile) error {
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

func (r *fakeUserRepo) ListUsersByFamily(ctx context.Context, familyID string) ([]User, error) {
	var users []User
	for _, u := range r.users {
		if u.FamilyID != nil && *u.FamilyID == familyID {
			users = append(users, *u)
		}
	}
	return users, nil
}

func TestCreateUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	created, err := svc.CreateUser(context.Background(), CreateInput{
		Username: " joao ",
		Password: "secret1",
		FamilyID: "fam-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "joao", created.Username)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.FamilyID)
	assert.Equal(t, "fam-1", *created.FamilyID)
	assert.True(t, CheckPassword(created.PasswordHash, "secret1"))

	// A profile is created alongside the user.
	_, ok := repo.profiles[created.ID]
	assert.True(t, ok)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	_, err := svc.CreateUser(context.Background(), CreateInput{Username: "joao", Password: "secret1", FamilyID: "fam-1"})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), CreateInput{Username: "joao", Password: "secret2", FamilyID: "fam-1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCreateUserRequiresFamily(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	_, err := svc.CreateUser(context.Background(), CreateInput{Username: "joao", Password: "secret1"})
	assert.ErrorIs(t, err, ErrFamilyRequired)
}

func TestCreateUserShortPassword(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	_, err := svc.CreateUser(context.Background(), CreateInput{Username: "joao", Password: "12345", FamilyID: "fam-1"})
	require.Error(t, err)
}

func TestGetProfileCreatesOnFirstAccess(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	profile, err := svc.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.UserID)
	assert.NotNil(t, repo.profiles["user-1"])
}

func TestToggleActiveSelf(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["user-1"] = &User{ID: "user-1", IsActive: true}
	svc := NewService(repo)

	_, err := svc.ToggleActive(context.Background(), "user-1", "user-1")
	assert.ErrorIs(t, err, ErrCannotDeactivate)
}

func TestToggleActive(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["user-2"] = &User{ID: "user-2", IsActive: true}
	svc := NewService(repo)

	toggled, err := svc.ToggleActive(context.Background(), "admin-1", "user-2")
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = svc.ToggleActive(context.Background(), "admin-1", "user-2")
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
}

func TestUpdatePermissionsAdminFamilies(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["user-1"] = &User{ID: "user-1"}
	svc := NewService(repo)

	admin := true
	updated, err := svc.UpdatePermissions(context.Background(), "user-1", PermissionsUpdate{
		IsAdmin:   &admin,
		FamilyIDs: []string{"fam-2", "fam-3"},
	})
	require.NoError(t, err)

	assert.True(t, updated.IsAdmin)
	// The first linked family becomes the primary.
	require.NotNil(t, updated.FamilyID)
	assert.Equal(t, "fam-2", *updated.FamilyID)
	assert.Equal(t, []string{"fam-2", "fam-3"}, repo.links["user-1"])
}

func TestUpdatePermissionsNormalUserFamily(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["user-1"] = &User{ID: "user-1"}
	svc := NewService(repo)

	familyID := "fam-9"
	updated, err := svc.UpdatePermissions(context.Background(), "user-1", PermissionsUpdate{FamilyID: &familyID})
	require.NoError(t, err)

	require.NotNil(t, updated.FamilyID)
	assert.Equal(t, "fam-9", *updated.FamilyID)
	assert.Empty(t, repo.links["user-1"])
}

func TestListFamilyIDsFallsBackToPrimary(t *testing.T) {
	repo := newFakeUserRepo()
	familyID := "fam-1"
	u := &User{ID: "user-1", FamilyID: &familyID}
	repo.users["user-1"] = u
	svc := NewService(repo)

	ids, err := svc.ListFamilyIDs(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, []string{"fam-1"}, ids)

	repo.links["user-1"] = []string{"fam-2", "fam-3"}
	ids, err = svc.ListFamilyIDs(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, []string{"fam-2", "fam-3"}, ids)
}

func TestPrincipal(t *testing.T) {
	familyID := "fam-1"
	u := &User{ID: "user-1", Username: "joao", FirstName: " João ", IsAdmin: true, FamilyID: &familyID}

	principal := u.Principal()
	assert.Equal(t, "user-1", principal.UserID)
	assert.Equal(t, "João", principal.DisplayName)
	assert.True(t, principal.Admin)
	assert.Equal(t, &familyID, principal.FamilyID)

	u.FirstName = ""
	assert.Equal(t, "joao", u.Principal().DisplayName)
}
