package models

// Household represents a shared-living group ("república").
type Household struct {
	// ID is the unique identifier for the household (UUID format).
	ID string

	// Name is unique across households.
	Name string

	// AdminID is the user who administers the household.
	// A user administers at most one household.
	AdminID string

	CreatedAt int64
}
