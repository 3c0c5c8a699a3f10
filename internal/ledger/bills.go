package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/republica/internal/calculator"
	"github.com/mmynk/republica/internal/models"
	"github.com/mmynk/republica/internal/storage"
)

// MaxBillTotal is the largest total a bill may carry: ten digits, two of them decimal.
var MaxBillTotal = decimal.RequireFromString("99999999.99")

// BillInput holds the attributes of a new bill and who splits it.
type BillInput struct {
	Name    string
	Total   decimal.Decimal
	DueDate time.Time
	// Type defaults to VARIABLE.
	Type           models.BillType
	ParticipantIDs []string
}

func (in *BillInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return reject(ErrInvalidArgument, "Bill name is required.")
	}
	if !in.Total.IsPositive() {
		return reject(ErrInvalidArgument, "Bill total must be greater than zero.")
	}
	if in.Total.GreaterThan(MaxBillTotal) {
		return reject(ErrInvalidArgument, "Bill total cannot exceed %s.", MaxBillTotal.StringFixed(2))
	}
	if !in.Total.Equal(in.Total.Round(2)) {
		return reject(ErrInvalidArgument, "Bill total cannot have more than two decimal places.")
	}
	if in.DueDate.IsZero() {
		return reject(ErrInvalidArgument, "Due date is required.")
	}
	if in.Type == "" {
		in.Type = models.BillTypeVariable
	}
	if !in.Type.Valid() {
		return reject(ErrInvalidArgument, "Unknown bill type %q.", in.Type)
	}
	return nil
}

// CreateBill records a bill owned by the actor's household with the actor as
// responsible, and splits its total evenly across the selected participants.
//
// Participants must exist and be approved members of the actor's household. Shares are
// assigned in username order, so leftover cents land on the first usernames.
// With no participants the bill is still created and a warning is returned.
func (s *Service) CreateBill(ctx context.Context, actorID string, in BillInput) (*models.Bill, []*models.BillShare, Notice, error) {
	actor, err := s.user(ctx, actorID)
	if err != nil {
		return nil, nil, Notice{}, err
	}
	if !actor.IsApprovedMember() {
		return nil, nil, Notice{}, reject(ErrUnauthorized,
			"You must be an approved member of a household to create bills.")
	}
	if err := in.validate(); err != nil {
		return nil, nil, Notice{}, err
	}

	eligible, err := s.EligibleParticipants(ctx, actorID)
	if err != nil {
		return nil, nil, Notice{}, err
	}
	isEligible := make(map[string]bool, len(eligible))
	for _, member := range eligible {
		isEligible[member.ID] = true
	}
	known, err := s.store.GetUsersByIDs(ctx, in.ParticipantIDs)
	if err != nil {
		return nil, nil, Notice{}, fmt.Errorf("failed to load participants: %w", err)
	}
	selected := make(map[string]bool, len(in.ParticipantIDs))
	for _, id := range in.ParticipantIDs {
		if known[id] == nil {
			return nil, nil, Notice{}, reject(ErrNotFound, "Participant %s does not exist.", id)
		}
		if !isEligible[id] {
			return nil, nil, Notice{}, reject(ErrUnauthorized,
				"Participant %s is not an approved member of your household.", id)
		}
		selected[id] = true
	}
	var participants []*models.User
	for _, member := range eligible {
		if selected[member.ID] {
			participants = append(participants, member)
		}
	}

	bill := &models.Bill{
		HouseholdID:   actor.HouseholdID,
		Name:          in.Name,
		Total:         in.Total,
		DueDate:       in.DueDate,
		Type:          in.Type,
		ResponsibleID: actor.ID,
	}

	var shares []*models.BillShare
	if len(participants) > 0 {
		amounts, err := calculator.EqualShares(in.Total, len(participants))
		if err != nil {
			return nil, nil, Notice{}, reject(ErrInvalidArgument, "%s", err.Error())
		}
		shares = make([]*models.BillShare, len(participants))
		for i, p := range participants {
			shares[i] = &models.BillShare{UserID: p.ID, Amount: amounts[i]}
		}
	}

	if err := s.store.CreateBill(ctx, bill, shares); err != nil {
		return nil, nil, Notice{}, fmt.Errorf("failed to create bill: %w", err)
	}
	slog.Info("Bill created",
		"bill_id", bill.ID,
		"household_id", bill.HouseholdID,
		"total", bill.Total.StringFixed(2),
		"participants_count", len(shares),
	)

	if len(shares) == 0 {
		return bill, nil, warning("Bill created, but no participants were selected."), nil
	}
	return bill, shares, success("Bill %q created for %d participants.", bill.Name, len(shares)), nil
}

// DeleteBill removes a bill and its shares. Allowed for the bill's responsible
// and the household admin.
func (s *Service) DeleteBill(ctx context.Context, actorID, billID string) (Notice, error) {
	bill, err := s.bill(ctx, billID)
	if err != nil {
		return Notice{}, err
	}

	if bill.ResponsibleID != actorID {
		household, err := s.household(ctx, bill.HouseholdID)
		if err != nil {
			return Notice{}, err
		}
		if household.AdminID != actorID {
			return Notice{}, reject(ErrUnauthorized, "You do not have permission to delete this bill.")
		}
	}

	err = s.store.DeleteBill(ctx, bill.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return Notice{}, reject(ErrNotFound, "Bill not found.")
	}
	if err != nil {
		return Notice{}, fmt.Errorf("failed to delete bill: %w", err)
	}
	slog.Info("Bill deleted", "bill_id", bill.ID, "actor_id", actorID)
	return success("Bill %q deleted.", bill.Name), nil
}
