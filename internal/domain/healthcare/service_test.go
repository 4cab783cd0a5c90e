package healthcare

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"family-hub-go/internal/domain/family"
)

type fakeHealthRepo struct {
	members      map[string]*FamilyMember
	appointments map[string]*MedicalAppointment
	procedures   map[string]*MedicalProcedure
	medications  map[string]*Medication
}

func newFakeHealthRepo() *fakeHealthRepo {
	return &fakeHealthRepo{
		members:      make(map[string]*FamilyMember),
		appointments: make(map[string]*MedicalAppointment),
		procedures:   make(map[string]*MedicalProcedure),
		medications:  make(map[string]*Medication),
	}
}

func inScope(familyIDs []string, familyID string) bool {
	for _, id := range familyIDs {
		if id == familyID {
			return true
		}
	}
	return false
}

func (r *fakeHealthRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeHealthRepo) ListMembers(ctx context.Context, familyIDs []string) ([]FamilyMember, error) {
	var members []FamilyMember
	for _, m := range r.members {
		if inScope(familyIDs, m.FamilyID) {
			members = append(members, *m)
		}
	}
	return members, nil
}

func (r *fakeHealthRepo) GetMember(ctx context.Context, familyIDs []string, memberID string) (*FamilyMember, error) {
	m, ok := r.members[memberID]
	if !ok || !inScope(familyIDs, m.FamilyID) {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

func (r *fakeHealthRepo) CreateMember(ctx context.Context, member *FamilyMember) error {
	r.members[member.ID] = member
	return nil
}

func (r *fakeHealthRepo) UpdateMember(ctx context.Context, member *FamilyMember) error {
	r.members[member.ID] = member
	return nil
}

func (r *fakeHealthRepo) DeleteMember(ctx context.Context, memberID string) error {
	delete(r.members, memberID)
	return nil
}

func (r *fakeHealthRepo) SetMemberOrder(ctx context.Context, familyIDs []string, memberID string, order int) error {
	if m, ok := r.members[memberID]; ok && inScope(familyIDs, m.FamilyID) {
		m.DisplayOrder = order
	}
	return nil
}

func (r *fakeHealthRepo) memberFamily(memberID string) string {
	if m, ok := r.members[memberID]; ok {
		return m.FamilyID
	}
	return ""
}

func (r *fakeHealthRepo) ListAppointments(ctx context.Context, familyIDs []string, memberID string) ([]MedicalAppointment, error) {
	var appointments []MedicalAppointment
	for _, a := range r.appointments {
		if !inScope(familyIDs, r.memberFamily(a.FamilyMemberID)) {
			continue
		}
		if memberID != "" && a.FamilyMemberID != memberID {
			continue
		}
		appointments = append(appointments, *a)
	}
	return appointments, nil
}

func (r *fakeHealthRepo) GetAppointment(ctx context.Context, familyIDs []string, appointmentID string) (*MedicalAppointment, error) {
	a, ok := r.appointments[appointmentID]
	if !ok || !inScope(familyIDs, r.memberFamily(a.FamilyMemberID)) {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

func (r *fakeHealthRepo) CreateAppointment(ctx context.Context, appointment *MedicalAppointment) error {
	r.appointments[appointment.ID] = appointment
	return nil
}

func (r *fakeHealthRepo) UpdateAppointment(ctx context.Context, appointment *MedicalAppointment) error {
	r.appointments[appointment.ID] = appointment
	return nil
}

func (r *fakeHealthRepo) DeleteAppointment(ctx context.Context, appointmentID string) error {
	delete(r.appointments, appointmentID)
	return nil
}

func (r *fakeHealthRepo) ListProcedures(ctx context.Context, familyIDs []string, memberID string) ([]MedicalProcedure, error) {
	var procedures []MedicalProcedure
	for _, p := range r.procedures {
		if !inScope(familyIDs, r.memberFamily(p.FamilyMemberID)) {
			continue
		}
		if memberID != "" && p.FamilyMemberID != memberID {
			continue
		}
		procedures = append(procedures, *p)
	}
	return procedures, nil
}

func (r *fakeHealthRepo) GetProcedure(ctx context.Context, familyIDs []string, procedureID string) (*MedicalProcedure, error) {
	p, ok := r.procedures[procedureID]
	if !ok || !inScope(familyIDs, r.memberFamily(p.FamilyMemberID)) {
		return nil, ErrProcedureNotFound
	}
	return p, nil
}

func (r *fakeHealthRepo) CreateProcedure(ctx context.Context, procedure *MedicalProcedure) error {
	r.procedures[procedure.ID] = procedure
	return nil
}

func (r *fakeHealthRepo) UpdateProcedure(ctx context.Context, procedure *MedicalProcedure) error {
	r.procedures[procedure.ID] = procedure
	return nil
}

func (r *fakeHealthRepo) DeleteProcedure(ctx context.Context, procedureID string) error {
	delete(r.procedures, procedureID)
	return nil
}

func (r *fakeHealthRepo) ListMedications(ctx context.Context, familyIDs []string, memberID string, activeOnly bool) ([]Medication, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	var medications []Medication
	for _, m := range r.medications {
		if !inScope(familyIDs, r.memberFamily(m.FamilyMemberID)) {
			continue
		}
		if memberID != "" && m.FamilyMemberID != memberID {
			continue
		}
		if activeOnly {
			// Active: already started and not ended before today.
			if m.StartDate.After(today) {
				continue
			}
			if m.EndDate != nil && m.EndDate.Before(today) {
				continue
			}
		}
		medications = append(medications, *m)
	}
	return medications, nil
}

func (r *fakeHealthRepo) GetMedication(ctx context.Context, familyIDs []string, medicationID string) (*Medication, error) {
	m, ok := r.medications[medicationID]
	if !ok || !inScope(familyIDs, r.memberFamily(m.FamilyMemberID)) {
		return nil, ErrMedicationNotFound
	}
	return m, nil
}

func (r *fakeHealthRepo) CreateMedication(ctx context.Context, medication *Medication) error {
	r.medications[medication.ID] = medication
	return nil
}

func (r *fakeHealthRepo) UpdateMedication(ctx context.Context, medication *Medication) error {
	r.medications[medication.ID] = medication
	return nil
}

func (r *fakeHealthRepo) DeleteMedication(ctx context.Context, medicationID string) error {
	delete(r.medications, medicationID)
	return nil
}

func seedMember(repo *fakeHealthRepo, id, familyID string) {
	repo.members[id] = &FamilyMember{ID: id, FamilyID: familyID, Name: "Member " + id}
}

func TestCreateMemberRequiresName(t *testing.T) {
	svc := NewService(newFakeHealthRepo())

	_, err := svc.CreateMember(context.Background(), "fam-1", MemberInput{Name: "  "})
	require.Error(t, err)
}

func TestListMembersEmptyScope(t *testing.T) {
	repo := newFakeHealthRepo()
	seedMember(repo, "m-1", "fam-1")
	svc := NewService(repo)

	members, err := svc.ListMembers(context.Background(), family.AllScope(nil))
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestListMembersScoped(t *testing.T) {
	repo := newFakeHealthRepo()
	seedMember(repo, "m-1", "fam-1")
	seedMember(repo, "m-2", "fam-2")
	svc := NewService(repo)

	members, err := svc.ListMembers(context.Background(), family.SingleScope("fam-1"))
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "m-1", members[0].ID)
}

func TestCreateAppointmentChecksMemberScope(t *testing.T) {
	repo := newFakeHealthRepo()
	seedMember(repo, "m-1", "fam-1")
	seedMember(repo, "m-2", "fam-2")
	svc := NewService(repo)

	scope := family.SingleScope("fam-1")
	input := AppointmentInput{
		FamilyMemberID:  "m-2",
		DoctorName:      "Dra. Souza",
		Specialty:       "Cardiologia",
		AppointmentDate: time.Now().Add(24 * time.Hour),
		Reason:          "checkup",
	}

	_, err := svc.CreateAppointment(context.Background(), scope, input)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	input.FamilyMemberID = "m-1"
	appointment, err := svc.CreateAppointment(context.Background(), scope, input)
	require.NoError(t, err)
	assert.NotEmpty(t, appointment.ID)
	assert.Equal(t, "m-1", appointment.FamilyMemberID)
}

func TestCreateMedicationChecksMemberScope(t *testing.T) {
	repo := newFakeHealthRepo()
	seedMember(repo, "m-1", "fam-1")
	svc := NewService(repo)

	_, err := svc.CreateMedication(context.Background(), family.SingleScope("fam-2"), MedicationInput{
		FamilyMemberID: "m-1",
		Name:           "Dipirona",
		Dosage:         "500mg",
		Frequency:      "8h",
		StartDate:      time.Now(),
	})
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestListMedicationsActiveWindow(t *testing.T) {
	repo := newFakeHealthRepo()
	seedMember(repo, "m-1", "fam-1")
	svc := NewService(repo)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	repo.medications["med-current"] = &Medication{ID: "med-current", FamilyMemberID: "m-1", Name: "Losartana", StartDate: yesterday}
	repo.medications["med-ends-today"] = &Medication{ID: "med-ends-today", FamilyMemberID: "m-1", Name: "Amoxicilina", StartDate: yesterday, EndDate: &today}
	repo.medications["med-future"] = &Medication{ID: "med-future", FamilyMemberID: "m-1", Name: "Vitamina D", StartDate: tomorrow}
	repo.medications["med-ended"] = &Medication{ID: "med-ended", FamilyMemberID: "m-1", Name: "Dipirona", StartDate: yesterday.AddDate(0, 0, -7), EndDate: &yesterday}

	active, err := svc.ListMedications(context.Background(), family.SingleScope("fam-1"), "", true)
	require.NoError(t, err)

	ids := make([]string, 0, len(active))
	for _, m := range active {
		ids = append(ids, m.ID)
	}
	// A medication that has not started yet or ended before today is not
	// active; one ending today still is.
	assert.ElementsMatch(t, []string{"med-current", "med-ends-today"}, ids)

	all, err := svc.ListMedications(context.Background(), family.SingleScope("fam-1"), "", false)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestReorderMembersSkipsOutOfScope(t *testing.T) {
	repo := newFakeHealthRepo()
	seedMember(repo, "m-1", "fam-1")
	seedMember(repo, "m-2", "fam-2")
	svc := NewService(repo)

	err := svc.ReorderMembers(context.Background(), family.SingleScope("fam-1"), []MemberOrderItem{
		{ID: "m-1", Order: 5},
		{ID: "m-2", Order: 9},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, repo.members["m-1"].DisplayOrder)
	// m-2 belongs to another family and must be untouched.
	assert.Equal(t, 0, repo.members["m-2"].DisplayOrder)
}

func TestGetMemberOutOfScope(t *testing.T) {
	repo := newFakeHealthRepo()
	seedMember(repo, "m-1", "fam-1")
	svc := NewService(repo)

	_, err := svc.GetMember(context.Background(), family.SingleScope("fam-2"), "m-1")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}
