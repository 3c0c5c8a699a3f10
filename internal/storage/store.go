// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/republica/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a conditional update finds the row in an
	// unexpected state, or a uniqueness constraint rejects the write.
	ErrConflict = errors.New("conflict")

	// ErrAlreadyMember is returned when a user who already has a household
	// tries to create or join another one.
	ErrAlreadyMember = errors.New("user already belongs to a household")

	// ErrProtected is returned when deleting a user who is still responsible for bills.
	ErrProtected = errors.New("user is responsible for existing bills")
)

// Store defines the persistence operations used by the ledger.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger or service layers.
//
// Every state transition is a conditional write evaluated atomically by the
// store, so two concurrent requests can never both pass the same guard.
type Store interface {
	UserStore
	HouseholdStore
	BillStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser persists a new user. The user.ID field is populated by the store.
	// Returns ErrConflict when the username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUsersByIDs returns the users that exist, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// DeleteUser removes a user. Returns ErrProtected while the user is responsible
	// for bills. A household the user administers is deleted with them and its
	// members are unlinked.
	DeleteUser(ctx context.Context, id string) error
}

// HouseholdStore persists households and membership transitions.
type HouseholdStore interface {
	// CreateHousehold inserts the household and moves its admin into it as APPROVED,
	// in one transaction. Returns ErrAlreadyMember when the admin already has a
	// household and ErrConflict when the name is taken.
	CreateHousehold(ctx context.Context, household *models.Household) error

	GetHousehold(ctx context.Context, id string) (*models.Household, error)

	// ListHouseholds returns households whose name contains query (case-insensitive),
	// ordered by name.
	ListHouseholds(ctx context.Context, query string, limit, offset int) ([]*models.Household, error)

	// ListHouseholdMembers returns the members in the given status, ordered by username.
	ListHouseholdMembers(ctx context.Context, householdID string, status models.AssociationStatus) ([]*models.User, error)

	// JoinHousehold links a user with no household to householdID as AWAITING_APPROVAL.
	// Returns ErrAlreadyMember when the user already has a household.
	JoinHousehold(ctx context.Context, userID, householdID string) error

	// TransitionMembership moves a user of householdID from one status to another,
	// optionally clearing the household link. Returns ErrConflict when the user is not
	// in householdID with status from.
	TransitionMembership(ctx context.Context, userID, householdID string, from, to models.AssociationStatus, clearHousehold bool) error
}

// BillStore persists bills and their shares.
type BillStore interface {
	// CreateBill persists the bill and its shares in one transaction.
	// IDs, CreatedAt and the aggregate status are populated by the store.
	CreateBill(ctx context.Context, bill *models.Bill, shares []*models.BillShare) error

	GetBill(ctx context.Context, id string) (*models.Bill, error)

	// DeleteBill removes the bill and, through cascade, its shares.
	DeleteBill(ctx context.Context, id string) error

	GetShare(ctx context.Context, id string) (*models.BillShare, error)

	// ListSharesByUser returns a user's shares with bill details, pending confirmations
	// first, then unpaid, then paid, each group by due date.
	ListSharesByUser(ctx context.Context, userID string) ([]*models.ShareDetail, error)

	// ListPendingSharesByResponsible returns shares awaiting confirmation on bills
	// the user is responsible for.
	ListPendingSharesByResponsible(ctx context.Context, userID string) ([]*models.ShareDetail, error)

	// TransitionShare moves a share from one payment status to another and refreshes
	// the owning bill's status in the same transaction. Returns ErrConflict when the
	// share is not in status from.
	TransitionShare(ctx context.Context, shareID string, from, to models.PaymentStatus) error
}
