package models

import "time"

// AssociationStatus is a user's standing within their linked household.
type AssociationStatus string

const (
	// StatusAwaitingApproval is the default and the state after a join request.
	StatusAwaitingApproval AssociationStatus = "AWAITING_APPROVAL"
	StatusApproved         AssociationStatus = "APPROVED"
	// StatusNotApproved follows a rejection or removal; the household is cleared.
	StatusNotApproved AssociationStatus = "NOT_APPROVED"
)

// User represents a registered resident.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique login name.
	Username string

	// Email is the user's email address.
	Email string

	// Nickname is an optional display name.
	Nickname string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// HouseholdID is the household the user belongs to or has asked to join.
	// Empty when the user is not linked to any household.
	HouseholdID string

	// AssociationStatus is only meaningful while HouseholdID is set,
	// except NOT_APPROVED after a rejection.
	AssociationStatus AssociationStatus

	CreatedAt int64
	UpdatedAt int64
}

// NewUser creates a user with a fresh timestamp and the default association status.
// The ID is assigned by the store.
func NewUser(username, email, nickname, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Username:          username,
		Email:             email,
		Nickname:          nickname,
		PasswordHash:      passwordHash,
		AssociationStatus: StatusAwaitingApproval,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// HasHousehold reports whether the user is linked to a household.
func (u *User) HasHousehold() bool {
	return u.HouseholdID != ""
}

// IsApprovedMember reports whether the user is an approved member of a household.
func (u *User) IsApprovedMember() bool {
	return u.HasHousehold() && u.AssociationStatus == StatusApproved
}

// DisplayName returns the nickname when set, the username otherwise.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}
