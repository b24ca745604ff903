package identity

import (
	"github.com/google/uuid"

	"github.com/restops/backend/internal/domain/shared"
)

// AccessDecision is the outcome of a location access check.
type AccessDecision struct {
	Allowed bool
	Reason  string
}

// CheckLocationAccess decides whether the principal may operate against the
// given location. Pure decision function, no I/O. Every balance read or
// write and every reconciliation or deposit must pass through this check
// before touching storage.
func CheckLocationAccess(p Principal, locationID uuid.UUID) AccessDecision {
	if p.IsZero() {
		return AccessDecision{Allowed: false, Reason: "authentication required"}
	}
	if !p.Role.IsValid() {
		return AccessDecision{Allowed: false, Reason: "unknown role"}
	}
	if locationID == uuid.Nil {
		return AccessDecision{Allowed: false, Reason: "location is required"}
	}
	if !p.IsAuthorizedFor(locationID) {
		return AccessDecision{Allowed: false, Reason: "location not assigned to user"}
	}
	return AccessDecision{Allowed: true}
}

// Err converts a denied decision into the corresponding domain error.
// Returns nil for an allowed decision.
func (d AccessDecision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == "authentication required" {
		return shared.ErrUnauthorized
	}
	return shared.NewDomainError("FORBIDDEN", d.Reason)
}
