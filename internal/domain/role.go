package domain

// Roles carried in the JWT "role" claim.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// ValidRole reports whether role is one the router knows how to guard.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}
