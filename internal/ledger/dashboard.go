package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/republica/internal/models"
)

// DashboardEntry is one of the actor's shares.
type DashboardEntry struct {
	*models.ShareDetail

	// Overdue is set on shares not yet paid whose bill was due before today.
	Overdue bool
}

// Dashboard is the actor's home view.
type Dashboard struct {
	User *models.User

	// Household is nil when the actor is not linked to a household.
	Household *models.Household

	// Shares lists the actor's shares: pending confirmation, then unpaid, then paid,
	// each group by due date.
	Shares []DashboardEntry

	// JoinRequests lists users awaiting approval; only filled for the household admin.
	JoinRequests []*models.User

	// PendingConfirmations lists shares awaiting the actor's confirmation on bills
	// they are responsible for.
	PendingConfirmations []*models.ShareDetail
}

// Dashboard assembles the actor's shares, pending join requests and pending
// payment confirmations.
func (s *Service) Dashboard(ctx context.Context, actorID string) (*Dashboard, error) {
	actor, err := s.user(ctx, actorID)
	if err != nil {
		return nil, err
	}
	dash := &Dashboard{User: actor}

	shares, err := s.store.ListSharesByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	today := truncateToDate(s.now())
	dash.Shares = make([]DashboardEntry, len(shares))
	for i, detail := range shares {
		dash.Shares[i] = DashboardEntry{
			ShareDetail: detail,
			Overdue:     detail.Share.PaymentStatus != models.PaymentPaid && detail.Bill.DueDate.Before(today),
		}
	}

	if actor.HasHousehold() {
		household, err := s.household(ctx, actor.HouseholdID)
		if err != nil {
			return nil, err
		}
		dash.Household = household

		if household.AdminID == actor.ID {
			dash.JoinRequests, err = s.store.ListHouseholdMembers(ctx, household.ID, models.StatusAwaitingApproval)
			if err != nil {
				return nil, fmt.Errorf("failed to list join requests: %w", err)
			}
		}
	}

	dash.PendingConfirmations, err = s.store.ListPendingSharesByResponsible(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending confirmations: %w", err)
	}
	return dash, nil
}

// truncateToDate drops the clock part of t, keeping its calendar date in UTC
// to match how due dates are stored.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
