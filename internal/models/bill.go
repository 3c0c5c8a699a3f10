package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for due dates.
const DateLayout = "2006-01-02"

// BillType distinguishes fixed monthly expenses from variable ones.
type BillType string

const (
	BillTypeFixed    BillType = "FIXED"
	BillTypeVariable BillType = "VARIABLE"
)

// Valid reports whether t is a known bill type.
func (t BillType) Valid() bool {
	return t == BillTypeFixed || t == BillTypeVariable
}

// BillStatus is the aggregate payment state of a bill.
type BillStatus string

const (
	BillUnpaid        BillStatus = "UNPAID"
	BillPartiallyPaid BillStatus = "PARTIALLY_PAID"
	BillPaid          BillStatus = "PAID"
)

// Bill represents a shared expense owned by a household.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// HouseholdID is the household that owns the bill.
	HouseholdID string

	Name string

	// Total is the full amount, two decimal places.
	Total decimal.Decimal

	// DueDate is a calendar date; only year, month and day are significant.
	DueDate time.Time

	// Type defaults to VARIABLE.
	Type BillType

	// ResponsibleID is the user who created the bill and confirms payments.
	ResponsibleID string

	// Status is kept in sync with the shares by the store.
	Status BillStatus

	CreatedAt int64
}

// PaymentStatus is the state of one participant's share.
type PaymentStatus string

const (
	PaymentUnpaid              PaymentStatus = "UNPAID"
	PaymentPendingConfirmation PaymentStatus = "PENDING_CONFIRMATION"
	PaymentPaid                PaymentStatus = "PAID"
)

// BillShare is one participant's portion of a bill.
type BillShare struct {
	// ID is the unique identifier for the share (UUID format).
	ID string

	BillID string
	UserID string

	// Amount is what this participant owes, two decimal places.
	Amount decimal.Decimal

	PaymentStatus PaymentStatus
}

// ShareDetail is a share joined with its bill and participant, as shown on dashboards.
type ShareDetail struct {
	Share BillShare
	Bill  Bill

	// Username and Nickname describe the participant who owes the share.
	Username string
	Nickname string
}
