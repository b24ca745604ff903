package identity

import (
	"github.com/google/uuid"
)

// Role represents a staff role. Roles form a strict hierarchy:
// employee < admin < superadmin.
type Role string

const (
	RoleEmployee   Role = "EMPLOYEE"
	RoleAdmin      Role = "ADMIN"
	RoleSuperadmin Role = "SUPERADMIN"
)

// rolePriority orders roles for capability checks. Kept private so callers
// go through CanManage instead of comparing integers.
var rolePriority = map[Role]int{
	RoleEmployee:   0,
	RoleAdmin:      1,
	RoleSuperadmin: 2,
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid returns true if the role is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := rolePriority[r]
	return ok
}

// CanManage reports whether a holder of this role may administer principals
// holding the target role. A role manages strictly lower roles only.
func (r Role) CanManage(target Role) bool {
	rp, ok := rolePriority[r]
	if !ok {
		return false
	}
	tp, ok := rolePriority[target]
	if !ok {
		return false
	}
	return rp > tp
}

// Principal identifies the acting user for the duration of one operation.
// It is supplied by the identity provider on every call and treated as an
// immutable value object; the core never loads or stores users itself.
type Principal struct {
	ID          uuid.UUID
	Role        Role
	LocationIDs []uuid.UUID
}

// NewPrincipal creates a principal with the given role and authorized locations.
func NewPrincipal(id uuid.UUID, role Role, locationIDs []uuid.UUID) Principal {
	return Principal{
		ID:          id,
		Role:        role,
		LocationIDs: locationIDs,
	}
}

// IsZero returns true if the principal carries no identity.
func (p Principal) IsZero() bool {
	return p.ID == uuid.Nil
}

// IsAuthorizedFor reports whether the principal's assigned location set
// contains the given location. Superadmins are implicitly authorized for all
// locations.
func (p Principal) IsAuthorizedFor(locationID uuid.UUID) bool {
	if p.Role == RoleSuperadmin {
		return true
	}
	for _, id := range p.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}
