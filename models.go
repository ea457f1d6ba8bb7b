package auth

import (
	"time"
)

// Action is one of the CRUD verbs a permission grant can allow.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// IsValid checks the action is one of the four CRUD verbs.
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete:
		return true
	default:
		return false
	}
}

// PermissionGrant pairs a resource key with the actions allowed on it.
type PermissionGrant struct {
	Resource string   `json:"resource"`
	Actions  []Action `json:"actions"`
}

// Allows reports whether the grant's action set contains action.
func (g PermissionGrant) Allows(action Action) bool {
	for _, a := range g.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// User is the identity snapshot handed to consumers. It never carries the
// login secret; that stays inside the CredentialStore.
type User struct {
	ID          string            `json:"id,omitempty"`
	Email       string            `json:"email,omitempty"`
	Name        string            `json:"name,omitempty"`
	Avatar      string            `json:"avatar,omitempty"`
	Role        UserRole          `json:"role,omitempty"`
	Department  string            `json:"department,omitempty"`
	IsOnline    bool              `json:"is_online,omitempty"`
	LastActive  time.Time         `json:"last_active,omitempty"`
	CreatedAt   time.Time         `json:"created_at,omitempty"`
	Permissions []PermissionGrant `json:"permissions,omitempty"`
}

// Clone returns a deep copy, including the grant list, so state snapshots
// cannot be mutated through shared slices.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if len(u.Permissions) > 0 {
		out.Permissions = make([]PermissionGrant, len(u.Permissions))
		for i, g := range u.Permissions {
			out.Permissions[i] = PermissionGrant{
				Resource: g.Resource,
				Actions:  append([]Action(nil), g.Actions...),
			}
		}
	}
	return &out
}

// Grant returns the first grant matching resource. Seed validation rejects
// duplicate resources, so first-match is exact for store-backed users.
func (u *User) Grant(resource string) (PermissionGrant, bool) {
	if u == nil {
		return PermissionGrant{}, false
	}
	for _, g := range u.Permissions {
		if g.Resource == resource {
			return g, true
		}
	}
	return PermissionGrant{}, false
}

// ProfileUpdate is the partial profile merge accepted by UpdateProfile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name       *string `json:"name,omitempty"`
	Department *string `json:"department,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
}

// IsZero reports whether the update carries no changes.
func (p ProfileUpdate) IsZero() bool {
	return p.Name == nil && p.Department == nil && p.Avatar == nil
}

func (p ProfileUpdate) applyTo(u *User) *User {
	out := u.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Department != nil {
		out.Department = *p.Department
	}
	if p.Avatar != nil {
		out.Avatar = *p.Avatar
	}
	return out
}

// Task is the slice of the kanban task the permission policy looks at.
type Task struct {
	ID         string `json:"id,omitempty"`
	Title      string `json:"title,omitempty"`
	CreatedBy  string `json:"created_by,omitempty"`
	AssigneeID string `json:"assignee_id,omitempty"`
}
