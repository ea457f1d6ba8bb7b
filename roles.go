package auth

// UserRole is the user's dashboard role
type UserRole string

const (
	// RoleAdmin has every capability and bypasses rank comparisons
	RoleAdmin UserRole = "admin"
	// RoleManager runs a team (i.e. edit any task, manage users)
	RoleManager UserRole = "manager"
	// RoleDeveloper works their own tasks
	RoleDeveloper UserRole = "developer"
	// RoleDesigner works their own tasks, same rank as developer
	RoleDesigner UserRole = "designer"
)

// roleHierarchy fixes the ranks used for route/section gating.
var roleHierarchy = map[UserRole]int{
	RoleAdmin:     4,
	RoleManager:   3,
	RoleDeveloper: 2,
	RoleDesigner:  2,
}

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleDeveloper, RoleDesigner:
		return true
	default:
		return false
	}
}

// Rank returns the role's level in the hierarchy; unknown roles rank 0.
func (r UserRole) Rank() int {
	return roleHierarchy[r]
}

// IsAtLeast checks if this role meets the minimum required level. Admin
// short-circuits to true regardless of the rank table.
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	if r == RoleAdmin {
		return true
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleAdmin,
		RoleManager,
		RoleDeveloper,
		RoleDesigner,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}
