package ledger

import (
	apperrors "github.com/mmynk/roomledger/internal/errors"
	"github.com/mmynk/roomledger/internal/models"
)

// RequireAdmin gates admin-only mutations.
func RequireAdmin(actor models.Actor) error {
	if actor.Role.IsAdmin() {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeAccessDenied, "access denied: admin only",
		map[string]string{"User-Id": actor.UserID, "Role": actor.Role.String()})
}
