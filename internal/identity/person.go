package identity

import "errors"

// ErrNotFound indicates a scanned code or lookup key matched no record.
var ErrNotFound = errors.New("identity: record not found")

// ErrAlreadyClaimed indicates an activation attempt against a profile that is
// already linked to an account.
var ErrAlreadyClaimed = errors.New("identity: profile already claimed")

// Role tags a person record with its profile collection.
type Role string

const (
	RoleStudent     Role = "student"
	RoleFaculty     Role = "faculty"
	RoleHOD         Role = "hod"
	RoleCoordinator Role = "coordinator"
	RoleSecurity    Role = "security"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleHOD, RoleCoordinator, RoleSecurity:
		return true
	}
	return false
}

// Account is a row in the users table: the mapping from an external identity
// provider account to a role. It exists only once a profile has been activated.
type Account struct {
	AccountID string
	Role      Role
	Name      string
	Email     string
}

// Person is the canonical resolved record a scan produces. ID is the domain
// key (roll number for students, faculty ID for faculty); AccountID is set
// once the profile is claimed.
type Person struct {
	ID           string
	AccountID    string
	Role         Role
	Name         string
	Email        string
	Dept         string
	Year         string
	Section      string
	Mobile       string
	BarcodeID    string
	ParentMobile string
	MentorID     string
	Designation  string
	Claimed      bool
	Source       string
}

// profileTable maps a role to its profile table. The resolver only ever
// touches students and faculty; the remaining tables exist for activation.
func profileTable(r Role) string {
	switch r {
	case RoleFaculty:
		return "faculty"
	case RoleHOD:
		return "hods"
	case RoleCoordinator:
		return "coordinators"
	case RoleSecurity:
		return "security"
	default:
		return "students"
	}
}
