package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// IdentitySeed is a credential-store entry as supplied at process start.
// The secret is plaintext: a known prototype flaw, kept so the mock check
// stays a straight comparison. Do not replicate in a hardened rewrite.
type IdentitySeed struct {
	User
	Secret string `json:"secret,omitempty"`
}

// Validate applies the seed rules, including the duplicate-grant rule:
// at most one grant per resource, enforced here rather than resolved by
// evaluator precedence.
func (s IdentitySeed) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required),
		validation.Field(&s.Email, validation.Required, is.Email),
		validation.Field(&s.Secret, validation.Required),
		validation.Field(&s.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&s.Role, validation.Required, validation.By(validRole)),
		validation.Field(&s.Permissions, validation.By(validGrants)),
	)
}

func validRole(value any) error {
	role, _ := value.(UserRole)
	if !role.IsValid() {
		return goerrors.New("unknown role", goerrors.CategoryValidation)
	}
	return nil
}

func validGrants(value any) error {
	grants, _ := value.([]PermissionGrant)
	seen := map[string]struct{}{}
	for _, g := range grants {
		if g.Resource == "" {
			return goerrors.New("grant resource must not be empty", goerrors.CategoryValidation)
		}
		if _, dup := seen[g.Resource]; dup {
			return goerrors.New("duplicate grant for resource "+g.Resource, goerrors.CategoryValidation)
		}
		seen[g.Resource] = struct{}{}
		for _, a := range g.Actions {
			if !a.IsValid() {
				return goerrors.New("unknown action "+string(a), goerrors.CategoryValidation)
			}
		}
	}
	return nil
}

// CredentialStore is the seeded in-memory identity registry standing in for
// a backend. Read-mostly: only the online flag, last-active timestamp, and
// profile fields change after seeding; records are never deleted.
type CredentialStore struct {
	mu      sync.RWMutex
	records []IdentitySeed
	logger  Logger
}

var _ CredentialSource = (*CredentialStore)(nil)

// NewCredentialStore validates and seeds the registry. Duplicate emails or
// ids across seeds are rejected, same as per-seed rule failures.
func NewCredentialStore(seeds []IdentitySeed) (*CredentialStore, error) {
	byEmail := map[string]struct{}{}
	byID := map[string]struct{}{}

	records := make([]IdentitySeed, 0, len(seeds))
	for _, seed := range seeds {
		if err := seed.Validate(); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid identity seed").
				WithMetadata(map[string]any{"email": seed.Email})
		}

		email := normalizeEmail(seed.Email)
		if _, dup := byEmail[email]; dup {
			return nil, goerrors.New("duplicate seed email "+seed.Email, goerrors.CategoryValidation)
		}
		if _, dup := byID[seed.ID]; dup {
			return nil, goerrors.New("duplicate seed id "+seed.ID, goerrors.CategoryValidation)
		}
		byEmail[email] = struct{}{}
		byID[seed.ID] = struct{}{}

		seed.Email = email
		seed.User = *seed.User.Clone()
		records = append(records, seed)
	}

	return &CredentialStore{
		records: records,
		logger:  defLogger{},
	}, nil
}

// WithLogger overrides the store logger.
func (s *CredentialStore) WithLogger(logger Logger) *CredentialStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// FindByEmail returns a secret-free copy of the matching identity. Absence
// is a normal outcome, not an error.
func (s *CredentialStore) FindByEmail(_ context.Context, email string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec := s.lookupLocked(email); rec != nil {
		return rec.User.Clone(), true
	}
	return nil, false
}

// VerifyIdentity compares credentials and returns a secret-free user copy.
// Unknown email and wrong secret both reduce to ErrInvalidCredentials.
func (s *CredentialStore) VerifyIdentity(_ context.Context, email, secret string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := s.lookupLocked(email)
	if rec == nil || rec.Secret != secret {
		return nil, ErrInvalidCredentials
	}
	return rec.User.Clone(), nil
}

// MarkOnline flips the record's online flag and refreshes last-active.
// Unknown ids are ignored.
func (s *CredentialStore) MarkOnline(id string, online bool, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].IsOnline = online
			s.records[i].LastActive = at
			return
		}
	}
	s.logger.Debug("mark online skipped unknown id %s", id)
}

// ApplyProfile merges a profile update into the seeded record so the next
// login sees the edited fields.
func (s *CredentialStore) ApplyProfile(id string, update ProfileUpdate) {
	if update.IsZero() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].User = *update.applyTo(&s.records[i].User)
			return
		}
	}
}

// Len reports the number of seeded identities.
func (s *CredentialStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *CredentialStore) lookupLocked(email string) *IdentitySeed {
	email = normalizeEmail(email)
	for i := range s.records {
		if s.records[i].Email == email {
			return &s.records[i]
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DefaultIdentities returns the mock team seeded by the prototype. Secrets
// are intentionally guessable demo values.
func DefaultIdentities() []IdentitySeed {
	now := time.Now()
	return []IdentitySeed{
		{
			User: User{
				ID:         "1",
				Email:      "admin@company.com",
				Name:       "Admin User",
				Avatar:     "👨‍💼",
				Role:       RoleAdmin,
				Department: "IT",
				IsOnline:   true,
				LastActive: now,
				CreatedAt:  now,
				Permissions: []PermissionGrant{
					{Resource: "tasks", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
					{Resource: "users", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
				},
			},
			Secret: "admin123",
		},
		{
			User: User{
				ID:         "2",
				Email:      "jane@company.com",
				Name:       "Jane Smith",
				Avatar:     "👩‍💻",
				Role:       RoleManager,
				Department: "Engineering",
				IsOnline:   true,
				LastActive: now,
				CreatedAt:  now,
				Permissions: []PermissionGrant{
					{Resource: "tasks", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
					{Resource: "users", Actions: []Action{ActionRead, ActionUpdate}},
				},
			},
			Secret: "jane123",
		},
		{
			User: User{
				ID:         "3",
				Email:      "john@company.com",
				Name:       "John Doe",
				Avatar:     "👨‍💻",
				Role:       RoleDeveloper,
				Department: "Engineering",
				IsOnline:   false,
				LastActive: now.Add(-15 * time.Minute),
				CreatedAt:  now,
				Permissions: []PermissionGrant{
					{Resource: "tasks", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
				},
			},
			Secret: "john123",
		},
		{
			User: User{
				ID:         "4",
				Email:      "sarah@company.com",
				Name:       "Sarah Wilson",
				Avatar:     "👩‍🎨",
				Role:       RoleDesigner,
				Department: "Design",
				IsOnline:   true,
				LastActive: now,
				CreatedAt:  now,
				Permissions: []PermissionGrant{
					{Resource: "tasks", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
				},
			},
			Secret: "sarah123",
		},
	}
}
