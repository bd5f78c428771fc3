package roles

// Role represents a user's permission level.
type Role string

const (
	User      Role = "user"
	Moderator Role = "moderator"
	Admin     Role = "admin"
)

// HierarchyLevel is the position of a role in the permission hierarchy.
type HierarchyLevel int

const (
	UserLevel      HierarchyLevel = 1
	ModeratorLevel HierarchyLevel = 2
	AdminLevel     HierarchyLevel = 3
)

// GetHierarchyLevel returns the hierarchy level for the role.
func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case User:
		return UserLevel
	case Moderator:
		return ModeratorLevel
	case Admin:
		return AdminLevel
	default:
		return UserLevel
	}
}

// HasPermission reports whether the role satisfies the required role.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case User, Moderator, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
