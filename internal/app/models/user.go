package models

import "time"

// Role names carried in the access token.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64     `json:"id" db:"id" example:"1"`
	Username    string    `json:"username" db:"username" example:"alice"`
	Email       string    `json:"email" db:"email" example:"alice@example.com"`
	Password    string    `json:"-" db:"password"`
	FirstName   string    `json:"first_name" db:"first_name" example:"Alice"`
	LastName    string    `json:"last_name" db:"last_name" example:"Nguyen"`
	IsStaff     bool      `json:"-" db:"is_staff"`
	IsSuperuser bool      `json:"-" db:"is_superuser"`
	IsActive    bool      `json:"-" db:"is_active"`
	DateJoined  time.Time `json:"-" db:"date_joined"`
}

// RoleFromGroups returns the first group name, or the default user role when
// the user belongs to no group. Groups are expected in ascending group id order.
func RoleFromGroups(groups []string) string {
	if len(groups) == 0 || groups[0] == "" {
		return RoleUser
	}
	return groups[0]
}

// IsAdmin reports whether a caller with the given staff flag and role may manage content.
func IsAdmin(isStaff bool, role string) bool {
	return isStaff || role == RoleAdmin
}
