package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/republica/internal/models"
	"github.com/mmynk/republica/internal/storage"
)

const userColumns = `id, username, email, nickname, password_hash, household_id, association_status, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	var householdID sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Nickname,
		&user.PasswordHash,
		&householdID,
		&user.AssociationStatus,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.HouseholdID = householdID.String
	return user, nil
}

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	if user.UpdatedAt == 0 {
		user.UpdatedAt = user.CreatedAt
	}
	if user.AssociationStatus == "" {
		user.AssociationStatus = models.StatusAwaitingApproval
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.Nickname,
		user.PasswordHash,
		nullString(user.HouseholdID),
		user.AssociationStatus,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err, "users.username") {
		return fmt.Errorf("%w: username %q is taken", storage.ErrConflict, user.Username)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by their login name.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %q", storage.ErrNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// GetUsersByIDs retrieves multiple users by their IDs.
// Users that don't exist are omitted from the result.
func (s *SQLiteStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user, refusing while they are responsible for bills.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "users", id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: user %s", storage.ErrNotFound, id)
		}

		var bills int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM bills WHERE responsible_id = ?", id,
		).Scan(&bills); err != nil {
			return fmt.Errorf("failed to count responsible bills: %w", err)
		}
		if bills > 0 {
			return fmt.Errorf("%w: %d bill(s)", storage.ErrProtected, bills)
		}

		// The household goes with its admin. Its members are unlinked here rather
		// than by ON DELETE SET NULL so their status is reset along with the link.
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET household_id = NULL, association_status = ?, updated_at = ?
			 WHERE id != ? AND household_id IN (SELECT id FROM households WHERE admin_id = ?)`,
			models.StatusAwaitingApproval, time.Now().Unix(), id, id,
		)
		if err != nil {
			return fmt.Errorf("failed to unlink household members: %w", err)
		}

		billIDs, err := shareBillIDs(ctx, tx, id)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		// The user's shares are gone; the bills they were on need a new status.
		for _, billID := range billIDs {
			if err := refreshBillStatus(ctx, tx, billID); err != nil {
				return err
			}
		}
		return nil
	})
}

// shareBillIDs returns the bills the user holds a share of.
func shareBillIDs(ctx context.Context, tx *sql.Tx, userID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, "SELECT bill_id FROM bill_shares WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list share bills: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan share bill: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate share bills: %w", err)
	}
	return ids, nil
}
