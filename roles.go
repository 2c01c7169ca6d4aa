package credentials

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RolePublisher, RoleAdmin:
		return true
	default:
		return false
	}
}

// AllRoles returns all predefined roles
func AllRoles() []UserRole {
	return []UserRole{RoleUser, RolePublisher, RoleAdmin}
}

// SelfRegisterRoles returns the roles an account may pick at registration.
// Admins are seeded out of band, never self-assigned.
func SelfRegisterRoles() []UserRole {
	return []UserRole{RoleUser, RolePublisher}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// Authorize checks role membership against the allowed set for an
// operation. Pure and stateless; callers pick the allowed set per protected
// route (e.g. publisher+admin for content mutation, admin for user
// administration).
func Authorize(role UserRole, allowed ...UserRole) error {
	for _, a := range allowed {
		if role == a {
			return nil
		}
	}

	clone := ErrForbidden.Clone()
	if clone == nil {
		return ErrForbidden
	}
	return clone.WithMetadata(map[string]any{
		"role":    role,
		"allowed": allowed,
	})
}
