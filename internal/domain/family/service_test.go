package family

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

type fakeFamilyRepo struct {
	families     map[string]*Family
	codes        map[string]string
	userFamilies map[string]string   // user id -> primary family id
	links        map[string][]string // user id -> many-to-many family ids
	userCounts   map[string]int64
	created      int
}

func newFakeFamilyRepo() *fakeFamilyRepo {
	return &fakeFamilyRepo{
		families:     make(map[string]*Family),
		codes:        make(map[string]string),
		userFamilies: make(map[string]string),
		links:        make(map[string][]string),
		userCounts:   make(map[string]int64),
	}
}

func (r *fakeFamilyRepo) addFamily(id, name, code string) {
	r.families[id] = &Family{ID: id, Name: name, Code: code}
	r.codes[code] = id
}

func (r *fakeFamilyRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeFamilyRepo) GetFamily(ctx context.Context, familyID string) (*Family, error) {
	fam, ok := r.families[familyID]
	if !ok {
		return nil, ErrFamilyNotFound
	}
	return fam, nil
}

func (r *fakeFamilyRepo) GetFamilyByCode(ctx context.Context, code string) (*Family, error) {
	id, ok := r.codes[code]
	if !ok {
		return nil, ErrFamilyCodeNotFound
	}
	return r.families[id], nil
}

func (r *fakeFamilyRepo) ListFamilies(ctx context.Context, offset, limit int) ([]Family, error) {
	result := make([]Family, 0, len(r.families))
	for _, fam := range r.families {
		result = append(result, *fam)
	}
	return result, nil
}

func (r *fakeFamilyRepo) CreateFamily(ctx context.Context, fam *Family) error {
	r.families[fam.ID] = fam
	r.codes[fam.Code] = fam.ID
	r.created++
	return nil
}

func (r *fakeFamilyRepo) UpdateFamilyName(ctx context.Context, familyID, name string) error {
	fam, ok := r.families[familyID]
	if !ok {
		return ErrFamilyNotFound
	}
	fam.Name = name
	return nil
}

func (r *fakeFamilyRepo) DeleteFamily(ctx context.Context, familyID string) error {
	if fam, ok := r.families[familyID]; ok {
		delete(r.codes, fam.Code)
	}
	delete(r.families, familyID)
	return nil
}

func (r *fakeFamilyRepo) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	_, ok := r.codes[code]
	return ok, nil
}

func (r *fakeFamilyRepo) CountFamilyUsers(ctx context.Context, familyID string) (int64, error) {
	return r.userCounts[familyID], nil
}

func (r *fakeFamilyRepo) ListLinkedFamilyIDs(ctx context.Context, userID string) ([]string, error) {
	return r.links[userID], nil
}

func (r *fakeFamilyRepo) GetUserFamilyForUpdate(ctx context.Context, userID string) (*string, error) {
	id, ok := r.userFamilies[userID]
	if !ok || id == "" {
		return nil, nil
	}
	return &id, nil
}

func (r *fakeFamilyRepo) SetUserFamily(ctx context.Context, userID, familyID string) error {
	r.userFamilies[userID] = familyID
	return nil
}

func strptr(s string) *string { return &s }

func TestAccessibleFamilyIDsAdminUnion(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.links["admin-1"] = []string{"fam-3", "fam-7", "fam-3"}
	svc := NewService(repo)

	ids, err := svc.AccessibleFamilyIDs(context.Background(), Principal{
		UserID:   "admin-1",
		Admin:    true,
		FamilyID: strptr("fam-7"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected deduplicated union of 2, got %v", ids)
	}
	for _, want := range []string{"fam-3", "fam-7"} {
		if !contains(ids, want) {
			t.Fatalf("expected %s in %v", want, ids)
		}
	}
}

func TestAccessibleFamilyIDsAdminPrimaryOnly(t *testing.T) {
	repo := newFakeFamilyRepo()
	svc := NewService(repo)

	ids, err := svc.AccessibleFamilyIDs(context.Background(), Principal{
		UserID:   "admin-1",
		Admin:    true,
		FamilyID: strptr("fam-1"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ids) != 1 || ids[0] != "fam-1" {
		t.Fatalf("expected [fam-1], got %v", ids)
	}
}

func TestAccessibleFamilyIDsNormal(t *testing.T) {
	svc := NewService(newFakeFamilyRepo())

	ids, err := svc.AccessibleFamilyIDs(context.Background(), Principal{UserID: "u1", FamilyID: strptr("fam-1")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ids) != 1 || ids[0] != "fam-1" {
		t.Fatalf("expected [fam-1], got %v", ids)
	}

	ids, err = svc.AccessibleFamilyIDs(context.Background(), Principal{UserID: "u2"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty set, got %v", ids)
	}
}

func TestResolveScopeNormalWithFamily(t *testing.T) {
	repo := newFakeFamilyRepo()
	svc := NewService(repo)

	scope, err := svc.ResolveScope(context.Background(), Principal{UserID: "u1", FamilyID: strptr("fam-1")}, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id, ok := scope.Single(); !ok || id != "fam-1" {
		t.Fatalf("expected Single(fam-1), got %v", scope.FamilyIDs())
	}
	if repo.created != 0 {
		t.Fatalf("resolution must not write, created %d families", repo.created)
	}
}

func TestResolveScopeNormalWithoutFamily(t *testing.T) {
	svc := NewService(newFakeFamilyRepo())

	_, err := svc.ResolveScope(context.Background(), Principal{UserID: "u1"}, "")
	if !errors.Is(err, ErrNoFamily) {
		t.Fatalf("expected ErrNoFamily, got %v", err)
	}
}

func TestResolveScopeAdminExplicit(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.addFamily("fam-3", "Three", "AAAA0003")
	repo.addFamily("fam-7", "Seven", "AAAA0007")
	repo.addFamily("fam-9", "Nine", "AAAA0009")
	repo.links["admin-1"] = []string{"fam-3", "fam-7"}
	svc := NewService(repo)
	admin := Principal{UserID: "admin-1", Admin: true}

	scope, err := svc.ResolveScope(context.Background(), admin, "fam-3")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id, ok := scope.Single(); !ok || id != "fam-3" {
		t.Fatalf("expected Single(fam-3), got %v", scope.FamilyIDs())
	}

	if _, err := svc.ResolveScope(context.Background(), admin, "fam-9"); !errors.Is(err, ErrFamilyAccessDenied) {
		t.Fatalf("expected ErrFamilyAccessDenied for foreign family, got %v", err)
	}

	if _, err := svc.ResolveScope(context.Background(), admin, "fam-404"); !errors.Is(err, ErrFamilyNotFound) {
		t.Fatalf("expected ErrFamilyNotFound, got %v", err)
	}
}

func TestResolveScopeStaffExplicitSkipsAccessCheck(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.addFamily("fam-9", "Nine", "AAAA0009")
	svc := NewService(repo)

	scope, err := svc.ResolveScope(context.Background(), Principal{UserID: "staff-1", Staff: true}, "fam-9")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id, ok := scope.Single(); !ok || id != "fam-9" {
		t.Fatalf("expected Single(fam-9), got %v", scope.FamilyIDs())
	}
}

func TestResolveScopeAdminNoSelector(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.links["admin-1"] = []string{"fam-3", "fam-7"}
	svc := NewService(repo)

	scope, err := svc.ResolveScope(context.Background(), Principal{UserID: "admin-1", Admin: true}, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !scope.IsAll() {
		t.Fatalf("expected All scope")
	}
	if len(scope.FamilyIDs()) != 2 {
		t.Fatalf("expected 2 accessible families, got %v", scope.FamilyIDs())
	}
}

func TestResolveScopeAdminEmptyAccessibleSet(t *testing.T) {
	svc := NewService(newFakeFamilyRepo())

	scope, err := svc.ResolveScope(context.Background(), Principal{UserID: "admin-1", Admin: true}, "")
	if err != nil {
		t.Fatalf("expected no error for empty accessible set, got %v", err)
	}
	if !scope.IsAll() || !scope.IsEmpty() {
		t.Fatalf("expected empty All scope, got %v", scope.FamilyIDs())
	}
}

func TestEnsureFamilyProvisionsOnce(t *testing.T) {
	repo := newFakeFamilyRepo()
	svc := NewService(repo)
	ana := Principal{UserID: "u-ana", DisplayName: "Ana"}

	first, err := svc.EnsureFamily(context.Background(), ana)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	fam := repo.families[first]
	if fam == nil {
		t.Fatalf("expected family %s to be persisted", first)
	}
	if fam.Name != "Família de Ana" {
		t.Fatalf("expected name Família de Ana, got %q", fam.Name)
	}
	if !regexp.MustCompile(`^[A-Z0-9]{8}$`).MatchString(fam.Code) {
		t.Fatalf("expected 8-char uppercase alphanumeric code, got %q", fam.Code)
	}
	if got := repo.userFamilies["u-ana"]; got != first {
		t.Fatalf("expected user linked to %s, got %s", first, got)
	}

	second, err := svc.EnsureFamily(context.Background(), ana)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second != first {
		t.Fatalf("expected same family on second call, got %s and %s", first, second)
	}
	if repo.created != 1 {
		t.Fatalf("expected exactly one family created, got %d", repo.created)
	}
}

func TestEnsureFamilyShortCircuitsExistingFamily(t *testing.T) {
	repo := newFakeFamilyRepo()
	svc := NewService(repo)

	id, err := svc.EnsureFamily(context.Background(), Principal{UserID: "u1", FamilyID: strptr("fam-1")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id != "fam-1" {
		t.Fatalf("expected fam-1, got %s", id)
	}
	if repo.created != 0 {
		t.Fatalf("expected no family created, got %d", repo.created)
	}
}

func TestDeleteFamilyWithUsers(t *testing.T) {
	repo := newFakeFamilyRepo()
	repo.addFamily("fam-1", "Fam", "AAAA0001")
	repo.userCounts["fam-1"] = 2
	svc := NewService(repo)

	if err := svc.DeleteFamily(context.Background(), "fam-1"); !errors.Is(err, ErrFamilyHasUsers) {
		t.Fatalf("expected ErrFamilyHasUsers, got %v", err)
	}
	if _, ok := repo.families["fam-1"]; !ok {
		t.Fatalf("family must not be deleted")
	}
}

func TestGenerateCodeCharset(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateCode(joinCodeLength)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !regexp.MustCompile(`^[A-Z0-9]{8}$`).MatchString(code) {
			t.Fatalf("unexpected code %q", code)
		}
	}
}
