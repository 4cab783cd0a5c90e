package dashboard

import (
	"context"
	"time"
)

type Repository interface {
	GetPreference(ctx context.Context, userID string) (*Preference, error)
	SavePreference(ctx context.Context, preference *Preference) error

	CountMembers(ctx context.Context, familyIDs []string) (int64, error)
	CountAppointmentsAfter(ctx context.Context, familyIDs []string, after time.Time) (int64, error)
	CountEquipment(ctx context.Context, familyIDs []string) (int64, error)
	CountActiveMedications(ctx context.Context, familyIDs []string, today time.Time) (int64, error)
	CountOrders(ctx context.Context, familyIDs []string) (int64, error)
}
