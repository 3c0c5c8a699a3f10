package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/republica/internal/models"
	"github.com/mmynk/republica/internal/storage"
)

// CreateHousehold creates a household administered by the actor and makes the
// actor an approved member of it.
func (s *Service) CreateHousehold(ctx context.Context, actorID, name string) (*models.Household, Notice, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Notice{}, reject(ErrInvalidArgument, "Household name is required.")
	}

	actor, err := s.user(ctx, actorID)
	if err != nil {
		return nil, Notice{}, err
	}
	if actor.HasHousehold() {
		return nil, Notice{}, reject(ErrAlreadyMember, "You already belong to a household.")
	}

	household := &models.Household{Name: name, AdminID: actor.ID}
	err = s.store.CreateHousehold(ctx, household)
	switch {
	case errors.Is(err, storage.ErrAlreadyMember):
		return nil, Notice{}, reject(ErrAlreadyMember, "You already belong to a household.")
	case errors.Is(err, storage.ErrConflict):
		return nil, Notice{}, reject(ErrInvalidArgument, "A household named %q already exists.", name)
	case err != nil:
		return nil, Notice{}, fmt.Errorf("failed to create household: %w", err)
	}

	transitionsTotal.WithLabelValues("membership", string(models.StatusApproved)).Inc()
	slog.Info("Household created", "household_id", household.ID, "admin_id", actor.ID)
	return household, success("Household %q created.", household.Name), nil
}

// ListHouseholds returns one page of households whose name contains query,
// ordered by name. Pages start at 1. Users who already belong to a household
// cannot browse for another one.
func (s *Service) ListHouseholds(ctx context.Context, actorID, query string, page int) ([]*models.Household, error) {
	actor, err := s.user(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.HasHousehold() {
		return nil, reject(ErrAlreadyMember, "You already belong to a household.")
	}

	if page < 1 {
		page = 1
	}
	households, err := s.store.ListHouseholds(ctx, query, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}
	return households, nil
}

// RequestJoin links the actor to a household, awaiting the admin's approval.
func (s *Service) RequestJoin(ctx context.Context, actorID, householdID string) (Notice, error) {
	actor, err := s.user(ctx, actorID)
	if err != nil {
		return Notice{}, err
	}
	if actor.HasHousehold() {
		return Notice{}, reject(ErrAlreadyMember, "You already belong to a household.")
	}

	household, err := s.household(ctx, householdID)
	if err != nil {
		return Notice{}, err
	}

	err = s.store.JoinHousehold(ctx, actor.ID, household.ID)
	switch {
	case errors.Is(err, storage.ErrAlreadyMember):
		return Notice{}, reject(ErrAlreadyMember, "You already belong to a household.")
	case errors.Is(err, storage.ErrNotFound):
		return Notice{}, reject(ErrNotFound, "Household not found.")
	case err != nil:
		return Notice{}, fmt.Errorf("failed to join household: %w", err)
	}

	transitionsTotal.WithLabelValues("membership", string(models.StatusAwaitingApproval)).Inc()
	slog.Info("Join requested", "user_id", actor.ID, "household_id", household.ID)
	return success("Request to join %q sent to the administrator.", household.Name), nil
}

// adminTarget loads the target user and checks that the actor administers the
// household the target is linked to.
func (s *Service) adminTarget(ctx context.Context, actorID, userID string) (*models.User, *models.Household, error) {
	target, err := s.user(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !target.HasHousehold() {
		return nil, nil, reject(ErrUnauthorized, "You do not have permission for this action.")
	}

	household, err := s.household(ctx, target.HouseholdID)
	if err != nil {
		return nil, nil, err
	}
	if household.AdminID != actorID {
		return nil, nil, reject(ErrUnauthorized, "You do not have permission for this action.")
	}
	return target, household, nil
}

// transitionMember applies a guarded membership change, reporting a lost race
// as an invalid transition.
func (s *Service) transitionMember(ctx context.Context, target *models.User, from, to models.AssociationStatus, unlink bool, conflictMsg string) error {
	err := s.store.TransitionMembership(ctx, target.ID, target.HouseholdID, from, to, unlink)
	switch {
	case errors.Is(err, storage.ErrConflict):
		return reject(ErrInvalidTransition, "%s", conflictMsg)
	case errors.Is(err, storage.ErrNotFound):
		return reject(ErrNotFound, "User not found.")
	case err != nil:
		return fmt.Errorf("failed to update membership: %w", err)
	}
	transitionsTotal.WithLabelValues("membership", string(to)).Inc()
	slog.Info("Membership changed", "user_id", target.ID, "household_id", target.HouseholdID, "from", from, "to", to)
	return nil
}

// ApproveMember accepts a pending join request. Only the household admin may approve.
func (s *Service) ApproveMember(ctx context.Context, actorID, userID string) (Notice, error) {
	target, _, err := s.adminTarget(ctx, actorID, userID)
	if err != nil {
		return Notice{}, err
	}

	notAwaiting := fmt.Sprintf("%s was not awaiting approval.", target.Username)
	if target.AssociationStatus != models.StatusAwaitingApproval {
		return Notice{}, reject(ErrInvalidTransition, "%s", notAwaiting)
	}
	if err := s.transitionMember(ctx, target, models.StatusAwaitingApproval, models.StatusApproved, false, notAwaiting); err != nil {
		return Notice{}, err
	}
	return success("%s was approved into the household.", target.Username), nil
}

// RejectMember declines a pending join request and unlinks the user from the household.
func (s *Service) RejectMember(ctx context.Context, actorID, userID string) (Notice, error) {
	target, household, err := s.adminTarget(ctx, actorID, userID)
	if err != nil {
		return Notice{}, err
	}

	notAwaiting := fmt.Sprintf("%s was not awaiting approval.", target.Username)
	if target.AssociationStatus != models.StatusAwaitingApproval {
		return Notice{}, reject(ErrInvalidTransition, "%s", notAwaiting)
	}
	if err := s.transitionMember(ctx, target, models.StatusAwaitingApproval, models.StatusNotApproved, true, notAwaiting); err != nil {
		return Notice{}, err
	}
	return warning("%s was rejected from %s.", target.Username, household.Name), nil
}

// RemoveMember unlinks an approved member from the household. The admin cannot
// remove themself. The member's existing shares are kept.
func (s *Service) RemoveMember(ctx context.Context, actorID, userID string) (Notice, error) {
	target, household, err := s.adminTarget(ctx, actorID, userID)
	if err != nil {
		return Notice{}, err
	}
	if target.ID == household.AdminID {
		return Notice{}, reject(ErrInvalidTransition, "The administrator cannot be removed from the household.")
	}

	notApproved := fmt.Sprintf("%s is not an approved member.", target.Username)
	if target.AssociationStatus != models.StatusApproved {
		return Notice{}, reject(ErrInvalidTransition, "%s", notApproved)
	}
	if err := s.transitionMember(ctx, target, models.StatusApproved, models.StatusNotApproved, true, notApproved); err != nil {
		return Notice{}, err
	}
	return success("%s was removed from %s.", target.Username, household.Name), nil
}

// EligibleParticipants returns the approved members of the actor's household,
// ordered by username. It is empty when the actor is not an approved member.
func (s *Service) EligibleParticipants(ctx context.Context, actorID string) ([]*models.User, error) {
	actor, err := s.user(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsApprovedMember() {
		return nil, nil
	}

	members, err := s.store.ListHouseholdMembers(ctx, actor.HouseholdID, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible participants: %w", err)
	}
	return members, nil
}
