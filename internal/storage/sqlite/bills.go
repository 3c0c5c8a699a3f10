package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/republica/internal/calculator"
	"github.com/mmynk/republica/internal/models"
	"github.com/mmynk/republica/internal/storage"
)

const billColumns = `b.id, b.household_id, b.name, b.total_cents, b.due_date, b.type, b.responsible_id, b.status, b.created_at`

func scanBill(row scanner) (*models.Bill, error) {
	bill := &models.Bill{}
	var totalCents int64
	var dueDate string
	err := row.Scan(&bill.ID, &bill.HouseholdID, &bill.Name, &totalCents, &dueDate,
		&bill.Type, &bill.ResponsibleID, &bill.Status, &bill.CreatedAt)
	if err != nil {
		return nil, err
	}
	bill.Total = fromCents(totalCents)
	if bill.DueDate, err = parseDate(dueDate); err != nil {
		return nil, err
	}
	return bill, nil
}

// CreateBill persists a new bill and its shares in one transaction.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill, shares []*models.BillShare) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Type == "" {
		bill.Type = models.BillTypeVariable
	}

	statuses := make([]models.PaymentStatus, len(shares))
	for i, share := range shares {
		if share.ID == "" {
			share.ID = uuid.New().String()
		}
		if share.PaymentStatus == "" {
			share.PaymentStatus = models.PaymentUnpaid
		}
		share.BillID = bill.ID
		statuses[i] = share.PaymentStatus
	}
	bill.Status = calculator.BillStatus(statuses)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO bills (id, household_id, name, total_cents, due_date, type, responsible_id, status, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			bill.ID, bill.HouseholdID, bill.Name, toCents(bill.Total), formatDate(bill.DueDate),
			bill.Type, bill.ResponsibleID, bill.Status, bill.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO bill_shares (id, bill_id, user_id, amount_cents, payment_status) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare share insert: %w", err)
		}
		defer stmt.Close()

		for _, share := range shares {
			_, err := stmt.ExecContext(ctx, share.ID, share.BillID, share.UserID, toCents(share.Amount), share.PaymentStatus)
			if isUniqueViolation(err, "bill_shares.bill_id") {
				return fmt.Errorf("%w: user %s already holds a share of bill %s", storage.ErrConflict, share.UserID, bill.ID)
			}
			if err != nil {
				return fmt.Errorf("failed to insert share: %w", err)
			}
		}
		return nil
	})
}

// GetBill retrieves a bill by ID.
func (s *SQLiteStore) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	bill, err := scanBill(s.db.QueryRowContext(ctx,
		`SELECT `+billColumns+` FROM bills b WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: bill %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

// DeleteBill removes a bill by ID. Its shares go with it.
func (s *SQLiteStore) DeleteBill(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: bill %s", storage.ErrNotFound, id)
	}
	return nil
}

const shareColumns = `s.id, s.bill_id, s.user_id, s.amount_cents, s.payment_status`

func scanShare(row scanner) (*models.BillShare, error) {
	share := &models.BillShare{}
	var amountCents int64
	if err := row.Scan(&share.ID, &share.BillID, &share.UserID, &amountCents, &share.PaymentStatus); err != nil {
		return nil, err
	}
	share.Amount = fromCents(amountCents)
	return share, nil
}

// GetShare retrieves a bill share by ID.
func (s *SQLiteStore) GetShare(ctx context.Context, id string) (*models.BillShare, error) {
	share, err := scanShare(s.db.QueryRowContext(ctx,
		`SELECT `+shareColumns+` FROM bill_shares s WHERE s.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: share %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	return share, nil
}

const shareDetailQuery = `SELECT ` + shareColumns + `, ` + billColumns + `, u.username, u.nickname
	FROM bill_shares s
	JOIN bills b ON b.id = s.bill_id
	JOIN users u ON u.id = s.user_id`

func (s *SQLiteStore) listShareDetails(ctx context.Context, query string, args ...any) ([]*models.ShareDetail, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list share details: %w", err)
	}
	defer rows.Close()

	var details []*models.ShareDetail
	for rows.Next() {
		var (
			d           models.ShareDetail
			amountCents int64
			totalCents  int64
			dueDate     string
		)
		err := rows.Scan(
			&d.Share.ID, &d.Share.BillID, &d.Share.UserID, &amountCents, &d.Share.PaymentStatus,
			&d.Bill.ID, &d.Bill.HouseholdID, &d.Bill.Name, &totalCents, &dueDate,
			&d.Bill.Type, &d.Bill.ResponsibleID, &d.Bill.Status, &d.Bill.CreatedAt,
			&d.Username, &d.Nickname,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share detail: %w", err)
		}
		d.Share.Amount = fromCents(amountCents)
		d.Bill.Total = fromCents(totalCents)
		if d.Bill.DueDate, err = parseDate(dueDate); err != nil {
			return nil, err
		}
		details = append(details, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate share details: %w", err)
	}
	return details, nil
}

// ListSharesByUser returns a user's shares, most urgent first.
func (s *SQLiteStore) ListSharesByUser(ctx context.Context, userID string) ([]*models.ShareDetail, error) {
	return s.listShareDetails(ctx, shareDetailQuery+`
		WHERE s.user_id = ?
		ORDER BY CASE s.payment_status
			WHEN 'PENDING_CONFIRMATION' THEN 0
			WHEN 'UNPAID' THEN 1
			ELSE 2 END,
			b.due_date, b.name`, userID)
}

// ListPendingSharesByResponsible returns shares waiting for the user's confirmation.
func (s *SQLiteStore) ListPendingSharesByResponsible(ctx context.Context, userID string) ([]*models.ShareDetail, error) {
	return s.listShareDetails(ctx, shareDetailQuery+`
		WHERE b.responsible_id = ? AND s.payment_status = ?
		ORDER BY b.due_date, u.username`, userID, models.PaymentPendingConfirmation)
}

// TransitionShare applies a guarded payment status change and refreshes the bill status.
func (s *SQLiteStore) TransitionShare(ctx context.Context, shareID string, from, to models.PaymentStatus) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE bill_shares SET payment_status = ? WHERE id = ? AND payment_status = ?",
			to, shareID, from,
		)
		if err != nil {
			return fmt.Errorf("failed to update share: %w", err)
		}
		n, err := affected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			found, err := exists(ctx, tx, "bill_shares", shareID)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: share %s", storage.ErrNotFound, shareID)
			}
			return fmt.Errorf("%w: share %s is not %s", storage.ErrConflict, shareID, from)
		}

		var billID string
		if err := tx.QueryRowContext(ctx,
			"SELECT bill_id FROM bill_shares WHERE id = ?", shareID,
		).Scan(&billID); err != nil {
			return fmt.Errorf("failed to get share bill: %w", err)
		}
		return refreshBillStatus(ctx, tx, billID)
	})
}

// refreshBillStatus recomputes a bill's aggregate status from its shares.
func refreshBillStatus(ctx context.Context, tx *sql.Tx, billID string) error {
	rows, err := tx.QueryContext(ctx, "SELECT payment_status FROM bill_shares WHERE bill_id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to read share statuses: %w", err)
	}

	var statuses []models.PaymentStatus
	for rows.Next() {
		var status models.PaymentStatus
		if err := rows.Scan(&status); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan share status: %w", err)
		}
		statuses = append(statuses, status)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate share statuses: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE bills SET status = ? WHERE id = ?", calculator.BillStatus(statuses), billID,
	); err != nil {
		return fmt.Errorf("failed to update bill status: %w", err)
	}
	return nil
}
