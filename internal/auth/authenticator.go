package auth

import (
	"context"

	"github.com/mmynk/roomledger/internal/models"
)

// Authenticator verifies who is calling the ledger.
// Implementations decide the credential format; the service layer only sees users.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	// The user's role is decided by the implementation, never by the caller.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
