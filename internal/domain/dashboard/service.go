package dashboard

import (
	"context"
	"errors"
	"time"

	"family-hub-go/internal/domain/family"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetPreference returns the user's dashboard preference, creating the
// defaults on first access.
func (s *Service) GetPreference(ctx context.Context, userID string) (*Preference, error) {
	preference, err := s.repo.GetPreference(ctx, userID)
	if err == nil {
		return preference, nil
	}
	if !errors.Is(err, ErrPreferenceNotFound) {
		return nil, err
	}

	preference = defaultPreference(userID)
	if err := s.repo.SavePreference(ctx, preference); err != nil {
		return nil, err
	}
	return preference, nil
}

func (s *Service) UpdatePreference(ctx context.Context, userID string, update PreferenceUpdate) (*Preference, error) {
	preference, err := s.GetPreference(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.ShowPendingMaintenance != nil {
		preference.ShowPendingMaintenance = *update.ShowPendingMaintenance
	}
	if update.ShowEquipmentStats != nil {
		preference.ShowEquipmentStats = *update.ShowEquipmentStats
	}
	if update.ShowCostAnalysis != nil {
		preference.ShowCostAnalysis = *update.ShowCostAnalysis
	}
	if update.ShowUpcomingMaintenance != nil {
		preference.ShowUpcomingMaintenance = *update.ShowUpcomingMaintenance
	}
	if update.DaysToAlert != nil && *update.DaysToAlert > 0 {
		preference.DaysToAlert = *update.DaysToAlert
	}

	if err := s.repo.SavePreference(ctx, preference); err != nil {
		return nil, err
	}
	return preference, nil
}

// Summarize collects the headline counters across the scope.
func (s *Service) Summarize(ctx context.Context, scope family.Scope) (*Summary, error) {
	if scope.IsEmpty() {
		return &Summary{}, nil
	}
	ids := scope.FamilyIDs()
	now := time.Now().UTC()

	members, err := s.repo.CountMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	appointments, err := s.repo.CountAppointmentsAfter(ctx, ids, now)
	if err != nil {
		return nil, err
	}
	equipment, err := s.repo.CountEquipment(ctx, ids)
	if err != nil {
		return nil, err
	}
	medications, err := s.repo.CountActiveMedications(ctx, ids, now)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.CountOrders(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalMembers:         members,
		UpcomingAppointments: appointments,
		TotalEquipment:       equipment,
		ActiveMedications:    medications,
		TotalOrders:          orders,
	}, nil
}

func defaultPreference(userID string) *Preference {
	return &Preference{
		UserID:                  userID,
		ShowPendingMaintenance:  true,
		ShowEquipmentStats:      true,
		ShowCostAnalysis:        true,
		ShowUpcomingMaintenance: true,
		DaysToAlert:             7,
	}
}
