package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/republica/internal/models"
	"github.com/mmynk/republica/internal/storage"
)

const actionNotPossible = "This action could not be performed."

// transitionShare applies a guarded payment change, reporting a lost race as an
// invalid transition.
func (s *Service) transitionShare(ctx context.Context, share *models.BillShare, from, to models.PaymentStatus) error {
	err := s.store.TransitionShare(ctx, share.ID, from, to)
	switch {
	case errors.Is(err, storage.ErrConflict):
		return reject(ErrInvalidTransition, actionNotPossible)
	case errors.Is(err, storage.ErrNotFound):
		return reject(ErrNotFound, "Share not found.")
	case err != nil:
		return fmt.Errorf("failed to update share: %w", err)
	}
	transitionsTotal.WithLabelValues("payment", string(to)).Inc()
	slog.Info("Payment status changed", "share_id", share.ID, "bill_id", share.BillID, "from", from, "to", to)
	return nil
}

// MarkPaid records that the actor paid their own share. When the actor is also
// responsible for the bill the payment is confirmed at once; otherwise it waits
// for the responsible's confirmation.
func (s *Service) MarkPaid(ctx context.Context, actorID, shareID string) (Notice, error) {
	share, bill, err := s.shareWithBill(ctx, shareID)
	if err != nil {
		return Notice{}, err
	}
	if share.UserID != actorID {
		return Notice{}, reject(ErrUnauthorized, "Unauthorized access.")
	}
	if share.PaymentStatus != models.PaymentUnpaid {
		return Notice{}, reject(ErrInvalidTransition, actionNotPossible)
	}

	if bill.ResponsibleID == actorID {
		if err := s.transitionShare(ctx, share, models.PaymentUnpaid, models.PaymentPaid); err != nil {
			return Notice{}, err
		}
		return success("Your payment (as responsible) was confirmed."), nil
	}

	if err := s.transitionShare(ctx, share, models.PaymentUnpaid, models.PaymentPendingConfirmation); err != nil {
		return Notice{}, err
	}
	return success("Payment marked. Waiting for the responsible's confirmation."), nil
}

// responsibleForPending loads a share awaiting confirmation on a bill the actor is
// responsible for, along with the participant who owes it.
func (s *Service) responsibleForPending(ctx context.Context, actorID, shareID string, denied string) (*models.BillShare, *models.User, error) {
	share, bill, err := s.shareWithBill(ctx, shareID)
	if err != nil {
		return nil, nil, err
	}
	if bill.ResponsibleID != actorID {
		return nil, nil, reject(ErrUnauthorized, "%s", denied)
	}
	if share.PaymentStatus != models.PaymentPendingConfirmation {
		return nil, nil, reject(ErrInvalidTransition, actionNotPossible)
	}

	payer, err := s.user(ctx, share.UserID)
	if err != nil {
		return nil, nil, err
	}
	return share, payer, nil
}

// ConfirmPayment accepts a participant's payment claim. Only the bill's
// responsible may confirm.
func (s *Service) ConfirmPayment(ctx context.Context, actorID, shareID string) (Notice, error) {
	share, payer, err := s.responsibleForPending(ctx, actorID, shareID,
		"You do not have permission to confirm this payment.")
	if err != nil {
		return Notice{}, err
	}
	if err := s.transitionShare(ctx, share, models.PaymentPendingConfirmation, models.PaymentPaid); err != nil {
		return Notice{}, err
	}
	return success("Payment from %s confirmed.", payer.Username), nil
}

// RejectPayment sends a participant's payment claim back to unpaid. Only the
// bill's responsible may reject.
func (s *Service) RejectPayment(ctx context.Context, actorID, shareID string) (Notice, error) {
	share, payer, err := s.responsibleForPending(ctx, actorID, shareID,
		"You do not have permission for this action.")
	if err != nil {
		return Notice{}, err
	}
	if err := s.transitionShare(ctx, share, models.PaymentPendingConfirmation, models.PaymentUnpaid); err != nil {
		return Notice{}, err
	}
	return warning("Payment from %s rejected. The share is unpaid again.", payer.Username), nil
}
