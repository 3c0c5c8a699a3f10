// Package ledger implements the household bill ledger: the membership and
// payment state machines, bill splitting, deletions and the dashboard query.
//
// Every mutating operation takes the acting user's ID. On success it returns a
// Notice for the user; on rejection it returns a *Rejection wrapping one of the
// error kinds, and nothing is written.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mmynk/republica/internal/models"
	"github.com/mmynk/republica/internal/storage"
)

// PageSize is the number of households per page when browsing.
const PageSize = 10

var transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "republica",
	Subsystem: "ledger",
	Name:      "transitions_total",
	Help:      "State transitions applied, by state machine and target state.",
}, []string{"machine", "to"})

// Service runs ledger operations against a store.
type Service struct {
	store storage.Store
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for overdue checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a ledger Service backed by store.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) user(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, reject(ErrNotFound, "User not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *Service) household(ctx context.Context, id string) (*models.Household, error) {
	household, err := s.store.GetHousehold(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, reject(ErrNotFound, "Household not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load household: %w", err)
	}
	return household, nil
}

func (s *Service) bill(ctx context.Context, id string) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, reject(ErrNotFound, "Bill not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load bill: %w", err)
	}
	return bill, nil
}

// shareWithBill loads a share and the bill it belongs to.
func (s *Service) shareWithBill(ctx context.Context, id string) (*models.BillShare, *models.Bill, error) {
	share, err := s.store.GetShare(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, reject(ErrNotFound, "Share not found.")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load share: %w", err)
	}
	bill, err := s.bill(ctx, share.BillID)
	if err != nil {
		return nil, nil, err
	}
	return share, bill, nil
}
