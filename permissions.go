package auth

// Permission helpers are pure functions over a User snapshot. They never
// fail: a nil user or a missing grant is simply false.

// HasPermission reports whether user holds a grant for resource that allows
// action. No grant for the resource means deny.
func HasPermission(user *User, resource string, action Action) bool {
	if user == nil {
		return false
	}
	grant, ok := user.Grant(resource)
	if !ok {
		return false
	}
	return grant.Allows(action)
}

// IsAdmin checks the admin role
func IsAdmin(user *User) bool {
	return user != nil && user.Role == RoleAdmin
}

// IsManager is true for managers and admins. Role checks are independent of
// resource grants; the two axes combine only in the task policies below.
func IsManager(user *User) bool {
	return user != nil && (user.Role == RoleManager || user.Role == RoleAdmin)
}

// CanEditTask applies the dashboard edit policy: admins and managers edit
// any task; everyone else may edit only tasks they created or are assigned
// to, and still needs the tasks/update grant.
func CanEditTask(user *User, task Task) bool {
	if user == nil {
		return false
	}

	if IsAdmin(user) || IsManager(user) {
		return true
	}

	if task.CreatedBy == user.ID || task.AssigneeID == user.ID {
		return HasPermission(user, "tasks", ActionUpdate)
	}

	return false
}

// CanDeleteTask is stricter than CanEditTask: deletion always requires the
// explicit tasks/delete grant, even for admins and managers. Authors without
// the grant cannot delete their own tasks.
func CanDeleteTask(user *User, task Task) bool {
	if user == nil {
		return false
	}

	if IsAdmin(user) || IsManager(user) {
		return HasPermission(user, "tasks", ActionDelete)
	}

	return task.CreatedBy == user.ID && HasPermission(user, "tasks", ActionDelete)
}

// RouteRequirement gates a dashboard route or section. Zero values mean the
// axis is not checked.
type RouteRequirement struct {
	MinRole  UserRole
	Resource string
	Action   Action
}

// CanAccessRoute combines the role-rank gate with an optional grant check.
// Admin passes the role gate unconditionally; the grant check, when present,
// still applies.
func CanAccessRoute(user *User, req RouteRequirement) bool {
	if user == nil {
		return false
	}

	if req.MinRole != "" && !user.Role.IsAtLeast(req.MinRole) {
		return false
	}

	if req.Resource != "" {
		return HasPermission(user, req.Resource, req.Action)
	}

	return true
}
