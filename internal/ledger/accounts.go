package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/republica/internal/storage"
)

// DeleteAccount deletes the actor's own account. It is refused while the actor
// is responsible for bills. Deleting a household admin deletes the household.
func (s *Service) DeleteAccount(ctx context.Context, actorID, userID string) (Notice, error) {
	if actorID != userID {
		return Notice{}, reject(ErrUnauthorized, "You can only delete your own account.")
	}

	err := s.store.DeleteUser(ctx, userID)
	switch {
	case errors.Is(err, storage.ErrProtected):
		return Notice{}, reject(ErrProtected,
			"You are responsible for existing bills. Delete them before deleting your account.")
	case errors.Is(err, storage.ErrNotFound):
		return Notice{}, reject(ErrNotFound, "User not found.")
	case err != nil:
		return Notice{}, fmt.Errorf("failed to delete account: %w", err)
	}

	slog.Info("Account deleted", "user_id", userID)
	return success("Your account was deleted."), nil
}
