package auth

import (
	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	"github.com/google/uuid"
)

// Authorize accepts a verified principal whose role is in the allowed set.
// A zero principal (upstream verification never ran or failed) is always
// rejected. Membership test only; order of allowed does not matter.
func Authorize(p Principal, allowed ...domain.Role) error {
	if p.UserID == uuid.Nil || p.Role == "" {
		return ErrForbidden
	}
	for _, role := range allowed {
		if p.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
