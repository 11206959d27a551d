package identity

import "context"

// Directory is the subset of lookups the resolver needs. The Postgres
// Repository satisfies it; tests use an in-memory fake.
type Directory interface {
	AccountByID(ctx context.Context, accountID string) (*Account, error)
	StudentByRoll(ctx context.Context, roll string) (*Person, error)
	StudentByAccountID(ctx context.Context, accountID string) (*Person, error)
	StudentByEmail(ctx context.Context, email string) (*Person, error)
	FacultyByID(ctx context.Context, id string) (*Person, error)
	FacultyByAccountID(ctx context.Context, accountID string) (*Person, error)
	FacultyByEmail(ctx context.Context, email string) (*Person, error)
}

// Resolver maps an opaque scanned string to a canonical person record.
type Resolver struct {
	dir Directory
}

// NewResolver creates a resolver over a directory.
func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve runs the ordered fallback chain: activated account first (then its
// profile by key, linked account ID, or email), then direct student lookup,
// then direct faculty lookup. Read-only; returns ErrNotFound when nothing
// matches.
func (r *Resolver) Resolve(ctx context.Context, code string) (*Person, error) {
	acct, err := r.dir.AccountByID(ctx, code)
	if err != nil {
		return nil, err
	}
	if acct != nil {
		role := acct.Role
		if !role.Valid() {
			role = RoleStudent
		}
		profile, err := r.linkedProfile(ctx, role, code, acct.Email)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			profile.AccountID = code
			profile.Role = role
			if profile.Name == "" {
				profile.Name = acct.Name
			}
			if profile.Email == "" {
				profile.Email = acct.Email
			}
			profile.Source = "users_linked"
			return profile, nil
		}
		// Account exists but no profile row links back: return the bare
		// account record so the caller can still see who scanned.
		return &Person{
			ID:        code,
			AccountID: code,
			Role:      role,
			Name:      acct.Name,
			Email:     acct.Email,
			Source:    "users",
		}, nil
	}

	if p, err := r.dir.StudentByRoll(ctx, code); err != nil {
		return nil, err
	} else if p != nil {
		p.Source = "students"
		return p, nil
	}

	if p, err := r.dir.FacultyByID(ctx, code); err != nil {
		return nil, err
	} else if p != nil {
		p.Source = "faculty"
		return p, nil
	}

	return nil, ErrNotFound
}

// linkedProfile resolves the profile behind an activated account: direct key
// match, then the stored account-ID column, then the account's email.
func (r *Resolver) linkedProfile(ctx context.Context, role Role, code, email string) (*Person, error) {
	byKey := r.dir.StudentByRoll
	byAccount := r.dir.StudentByAccountID
	byEmail := r.dir.StudentByEmail
	if role == RoleFaculty {
		byKey = r.dir.FacultyByID
		byAccount = r.dir.FacultyByAccountID
		byEmail = r.dir.FacultyByEmail
	}

	if p, err := byKey(ctx, code); err != nil || p != nil {
		return p, err
	}
	if p, err := byAccount(ctx, code); err != nil || p != nil {
		return p, err
	}
	if email != "" {
		if p, err := byEmail(ctx, email); err != nil || p != nil {
			return p, err
		}
	}
	return nil, nil
}
