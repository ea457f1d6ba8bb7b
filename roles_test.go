package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	auth "github.com/AshirAzeem-Developer/xolva-dashboard"
)

func TestRoleIsAtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     auth.UserRole
		minRole  auth.UserRole
		expected bool
	}{
		{"admin passes admin", auth.RoleAdmin, auth.RoleAdmin, true},
		{"admin passes manager", auth.RoleAdmin, auth.RoleManager, true},
		{"manager passes manager", auth.RoleManager, auth.RoleManager, true},
		{"manager passes developer", auth.RoleManager, auth.RoleDeveloper, true},
		{"manager denied admin", auth.RoleManager, auth.RoleAdmin, false},
		{"developer denied manager", auth.RoleDeveloper, auth.RoleManager, false},
		{"designer passes developer, same rank", auth.RoleDesigner, auth.RoleDeveloper, true},
		{"developer passes designer, same rank", auth.RoleDeveloper, auth.RoleDesigner, true},
		{"unknown role denied everything", auth.UserRole("intern"), auth.RoleDesigner, false},
		{"known role denied against unknown minimum", auth.RoleManager, auth.UserRole("intern"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.IsAtLeast(tt.minRole))
		})
	}
}

func TestAdminShortCircuitsUnknownMinimum(t *testing.T) {
	// admin bypasses the rank table entirely, even for roles the table
	// does not know about
	assert.True(t, auth.RoleAdmin.IsAtLeast(auth.UserRole("intern")))
}

func TestRoleRanks(t *testing.T) {
	assert.Equal(t, 4, auth.RoleAdmin.Rank())
	assert.Equal(t, 3, auth.RoleManager.Rank())
	assert.Equal(t, 2, auth.RoleDeveloper.Rank())
	assert.Equal(t, 2, auth.RoleDesigner.Rank())
	assert.Equal(t, 0, auth.UserRole("intern").Rank())
}

func TestParseRole(t *testing.T) {
	role, ok := auth.ParseRole("manager")
	assert.True(t, ok)
	assert.Equal(t, auth.RoleManager, role)

	_, ok = auth.ParseRole("superuser")
	assert.False(t, ok)
}

func TestGetAllRoles(t *testing.T) {
	roles := auth.GetAllRoles()
	assert.Len(t, roles, 4)
	assert.Equal(t, auth.RoleAdmin, roles[0])
	for _, r := range roles {
		assert.True(t, r.IsValid())
	}
}
