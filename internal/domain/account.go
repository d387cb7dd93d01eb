package domain

import "time"

// Role enumerates the closed set of account roles.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleOfficer    Role = "officer"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// ValidRole reports whether r belongs to the closed role set.
func ValidRole(r Role) bool {
	switch r {
	case RoleCustomer, RoleOfficer, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// Status enumerates account lifecycle states. Status gates whether the
// account may authenticate at all; Role gates what it may do once in.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusBanned   Status = "banned"
)

// Account is the domain model for a principal. PasswordHash is empty
// for federated-only accounts.
type Account struct {
	ID           string
	FirstName    string
	LastName     string
	MiddleName   *string
	Email        string
	PasswordHash string
	Role         Role
	Status       Status
	Phone        *string
	Picture      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized returns a copy with the password hash stripped, safe to
// attach to a request context or serialize in a response.
func (a Account) Sanitized() Account {
	a.PasswordHash = ""
	return a
}
