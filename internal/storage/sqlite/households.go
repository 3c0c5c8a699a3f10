package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/republica/internal/models"
	"github.com/mmynk/republica/internal/storage"
)

// CreateHousehold inserts the household and moves its admin into it.
func (s *SQLiteStore) CreateHousehold(ctx context.Context, household *models.Household) error {
	if household.ID == "" {
		household.ID = uuid.New().String()
	}
	if household.CreatedAt == 0 {
		household.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO households (id, name, search_name, admin_id, created_at) VALUES (?, ?, ?, ?, ?)",
			household.ID, household.Name, searchKey(household.Name), household.AdminID, household.CreatedAt,
		)
		if isUniqueViolation(err, "households.admin_id") {
			return storage.ErrAlreadyMember
		}
		if isUniqueViolation(err, "households.name") {
			return fmt.Errorf("%w: household %q already exists", storage.ErrConflict, household.Name)
		}
		if err != nil {
			return fmt.Errorf("failed to insert household: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE users SET household_id = ?, association_status = ?, updated_at = ?
			 WHERE id = ? AND household_id IS NULL`,
			household.ID, models.StatusApproved, household.CreatedAt, household.AdminID,
		)
		if err != nil {
			return fmt.Errorf("failed to link admin to household: %w", err)
		}
		n, err := affected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			found, err := exists(ctx, tx, "users", household.AdminID)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: user %s", storage.ErrNotFound, household.AdminID)
			}
			return storage.ErrAlreadyMember
		}
		return nil
	})
}

// GetHousehold retrieves a household by ID.
func (s *SQLiteStore) GetHousehold(ctx context.Context, id string) (*models.Household, error) {
	household := &models.Household{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, admin_id, created_at FROM households WHERE id = ?", id,
	).Scan(&household.ID, &household.Name, &household.AdminID, &household.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: household %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get household: %w", err)
	}
	return household, nil
}

// ListHouseholds searches households by name. An empty query matches all.
func (s *SQLiteStore) ListHouseholds(ctx context.Context, query string, limit, offset int) ([]*models.Household, error) {
	pattern := "%" + escapeLike(searchKey(query)) + "%"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, admin_id, created_at FROM households
		 WHERE search_name LIKE ? ESCAPE '\'
		 ORDER BY name LIMIT ? OFFSET ?`,
		pattern, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}
	defer rows.Close()

	var households []*models.Household
	for rows.Next() {
		h := &models.Household{}
		if err := rows.Scan(&h.ID, &h.Name, &h.AdminID, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan household: %w", err)
		}
		households = append(households, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate households: %w", err)
	}
	return households, nil
}

// ListHouseholdMembers returns the household's users in the given status.
func (s *SQLiteStore) ListHouseholdMembers(ctx context.Context, householdID string, status models.AssociationStatus) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE household_id = ? AND association_status = ?
		 ORDER BY username`,
		householdID, status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list household members: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate household members: %w", err)
	}
	return users, nil
}

// JoinHousehold links a user without a household to householdID, awaiting approval.
func (s *SQLiteStore) JoinHousehold(ctx context.Context, userID, householdID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "households", householdID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: household %s", storage.ErrNotFound, householdID)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE users SET household_id = ?, association_status = ?, updated_at = ?
			 WHERE id = ? AND household_id IS NULL`,
			householdID, models.StatusAwaitingApproval, time.Now().Unix(), userID,
		)
		if err != nil {
			return fmt.Errorf("failed to join household: %w", err)
		}
		n, err := affected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			found, err := exists(ctx, tx, "users", userID)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: user %s", storage.ErrNotFound, userID)
			}
			return storage.ErrAlreadyMember
		}
		return nil
	})
}

// TransitionMembership applies a guarded status change to a household member.
func (s *SQLiteStore) TransitionMembership(ctx context.Context, userID, householdID string, from, to models.AssociationStatus, clearHousehold bool) error {
	query := `UPDATE users SET association_status = ?, updated_at = ?`
	if clearHousehold {
		query += `, household_id = NULL`
	}
	query += ` WHERE id = ? AND household_id = ? AND association_status = ?`

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, to, time.Now().Unix(), userID, householdID, from)
		if err != nil {
			return fmt.Errorf("failed to update membership: %w", err)
		}
		n, err := affected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			found, err := exists(ctx, tx, "users", userID)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: user %s", storage.ErrNotFound, userID)
			}
			return fmt.Errorf("%w: user %s is not %s in household %s", storage.ErrConflict, userID, from, householdID)
		}
		return nil
	})
}

// searchKey normalizes a household name or query for case-insensitive matching.
func searchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
