package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"family-hub-go/internal/domain/family"
)

type fakeDashboardRepo struct {
	preferences map[string]*Preference

	members      int64
	appointments int64
	equipment    int64
	medications  int64
	orders       int64

	countedFamilies []string
}

func newFakeDashboardRepo() *fakeDashboardRepo {
	return &fakeDashboardRepo{preferences: make(map[string]*Preference)}
}

func (r *fakeDashboardRepo) GetPreference(ctx context.Context, userID string) (*Preference, error) {
	p, ok := r.preferences[userID]
	if !ok {
		return nil, ErrPreferenceNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeDashboardRepo) SavePreference(ctx context.Context, preference *Preference) error {
	copied := *preference
	r.preferences[preference.UserID] = &copied
	return nil
}

func (r *fakeDashboardRepo) CountMembers(ctx context.Context, familyIDs []string) (int64, error) {
	r.countedFamilies = familyIDs
	return r.members, nil
}

func (r *fakeDashboardRepo) CountAppointmentsAfter(ctx context.Context, familyIDs []string, after time.Time) (int64, error) {
	return r.appointments, nil
}

func (r *fakeDashboardRepo) CountEquipment(ctx context.Context, familyIDs []string) (int64, error) {
	return r.equipment, nil
}

func (r *fakeDashboardRepo) CountActiveMedications(ctx context.Context, familyIDs []string, today time.Time) (int64, error) {
	return r.medications, nil
}

func (r *fakeDashboardRepo) CountOrders(ctx context.Context, familyIDs []string) (int64, error) {
	return r.orders, nil
}

func TestGetPreferenceCreatesDefaults(t *testing.T) {
	repo := newFakeDashboardRepo()
	svc := NewService(repo)

	preference, err := svc.GetPreference(context.Background(), "user-1")
	require.NoError(t, err)

	assert.True(t, preference.ShowPendingMaintenance)
	assert.True(t, preference.ShowEquipmentStats)
	assert.True(t, preference.ShowCostAnalysis)
	assert.True(t, preference.ShowUpcomingMaintenance)
	assert.Equal(t, 7, preference.DaysToAlert)

	// The defaults must have been persisted, not just returned.
	_, ok := repo.preferences["user-1"]
	assert.True(t, ok)
}

func TestUpdatePreferencePartialMerge(t *testing.T) {
	repo := newFakeDashboardRepo()
	svc := NewService(repo)

	hide := false
	days := 14
	preference, err := svc.UpdatePreference(context.Background(), "user-1", PreferenceUpdate{
		ShowCostAnalysis: &hide,
		DaysToAlert:      &days,
	})
	require.NoError(t, err)

	assert.False(t, preference.ShowCostAnalysis)
	assert.Equal(t, 14, preference.DaysToAlert)
	// Untouched fields keep their defaults.
	assert.True(t, preference.ShowPendingMaintenance)
}

func TestUpdatePreferenceIgnoresNonPositiveDays(t *testing.T) {
	svc := NewService(newFakeDashboardRepo())

	days := 0
	preference, err := svc.UpdatePreference(context.Background(), "user-1", PreferenceUpdate{DaysToAlert: &days})
	require.NoError(t, err)
	assert.Equal(t, 7, preference.DaysToAlert)
}

func TestSummarizeEmptyScope(t *testing.T) {
	repo := newFakeDashboardRepo()
	repo.members = 4
	svc := NewService(repo)

	summary, err := svc.Summarize(context.Background(), family.AllScope(nil))
	require.NoError(t, err)

	assert.Equal(t, &Summary{}, summary)
	assert.Nil(t, repo.countedFamilies)
}

func TestSummarizeCounts(t *testing.T) {
	repo := newFakeDashboardRepo()
	repo.members = 3
	repo.appointments = 2
	repo.equipment = 5
	repo.medications = 1
	repo.orders = 7
	svc := NewService(repo)

	summary, err := svc.Summarize(context.Background(), family.AllScope([]string{"fam-1", "fam-2"}))
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.TotalMembers)
	assert.Equal(t, int64(2), summary.UpcomingAppointments)
	assert.Equal(t, int64(5), summary.TotalEquipment)
	assert.Equal(t, int64(1), summary.ActiveMedications)
	assert.Equal(t, int64(7), summary.TotalOrders)
	assert.Equal(t, []string{"fam-1", "fam-2"}, repo.countedFamilies)
}
