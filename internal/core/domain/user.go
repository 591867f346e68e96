package domain

// UserRole identifies what a user may do; admins approve or reject credit.
type UserRole string

const (
	RoleClient UserRole = "client"
	RoleAdmin  UserRole = "admin"
)

// UserStatus mirrors the identity provider's view of a user.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// User is the owner-identity reference the core consumes from the excluded
// identity layer. Only existence, role and status matter here.
type User struct {
	UserID string     `json:"userID"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   UserRole   `json:"role"`
	Status UserStatus `json:"status"`
	AuditFields
}
