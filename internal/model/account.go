package model

// Roles assignable to an account. The seeded administrator is the only
// account created with RoleAdmin; registration always produces RoleEmployee.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Account represents a portal user. OwnerID is the employee's national ID
// number; it doubles as the login identifier and as the key payslips are
// assigned to during ingestion.
type Account struct {
	OwnerID      string `json:"owner_id"`
	PasswordHash string `json:"-"`
	DisplayName  string `json:"display_name"`
	Role         string `json:"role"`
}

// IsAdmin reports whether the account holds the administrator role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
