package auth

import (
	"context"

	"github.com/mmynk/republica/internal/models"
)

// Authenticator registers residents and verifies their credentials.
// Implementations decide what a credential is; the services only see users.
type Authenticator interface {
	// Register creates an account that is not yet linked to any household.
	Register(ctx context.Context, username, email, nickname, credential string) (*models.User, error)

	// Authenticate returns the user whose username and credential match.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential checks the credential before it is stored.
	ValidateCredential(credential string) error
}
