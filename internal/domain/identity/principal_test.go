package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRoleCanManage(t *testing.T) {
	assert.True(t, RoleSuperadmin.CanManage(RoleAdmin))
	assert.True(t, RoleSuperadmin.CanManage(RoleEmployee))
	assert.True(t, RoleAdmin.CanManage(RoleEmployee))

	assert.False(t, RoleAdmin.CanManage(RoleAdmin))
	assert.False(t, RoleAdmin.CanManage(RoleSuperadmin))
	assert.False(t, RoleEmployee.CanManage(RoleEmployee))
	assert.False(t, Role("INTERN").CanManage(RoleEmployee))
	assert.False(t, RoleAdmin.CanManage(Role("INTERN")))
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleEmployee.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleSuperadmin.IsValid())
	assert.False(t, Role("").IsValid())
	assert.False(t, Role("OWNER").IsValid())
}

func TestPrincipalIsAuthorizedFor(t *testing.T) {
	locA := uuid.New()
	locB := uuid.New()

	t.Run("superadmin is authorized everywhere", func(t *testing.T) {
		p := NewPrincipal(uuid.New(), RoleSuperadmin, nil)
		assert.True(t, p.IsAuthorizedFor(locA))
		assert.True(t, p.IsAuthorizedFor(locB))
	})

	t.Run("admin limited to assigned set", func(t *testing.T) {
		p := NewPrincipal(uuid.New(), RoleAdmin, []uuid.UUID{locA})
		assert.True(t, p.IsAuthorizedFor(locA))
		assert.False(t, p.IsAuthorizedFor(locB))
	})

	t.Run("employee with empty set", func(t *testing.T) {
		p := NewPrincipal(uuid.New(), RoleEmployee, nil)
		assert.False(t, p.IsAuthorizedFor(locA))
	})
}
