package users

import "time"

const (
	RoleAdmin          = "Admin"
	RoleRegisteredUser = "RegisteredUser"
	RoleGuest          = "Guest"
)

// DefaultRoles are created on startup.
var DefaultRoles = []string{RoleAdmin, RoleRegisteredUser, RoleGuest}

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"fullName"`
	PasswordHash string     `json:"-"`
	PictureURL   string     `json:"pictureUrl,omitempty"`
	Roles        []string   `json:"roles"`
	LockoutEnd   *time.Time `json:"lockoutEnd"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsLocked reports whether the account is locked out at now.
func (u User) IsLocked(now time.Time) bool {
	return u.LockoutEnd != nil && u.LockoutEnd.After(now)
}

// HasRole reports whether the user carries role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PrimaryRole is Admin when present, otherwise the first assigned role.
func (u User) PrimaryRole() string {
	if u.HasRole(RoleAdmin) {
		return RoleAdmin
	}
	if len(u.Roles) > 0 {
		return u.Roles[0]
	}
	return ""
}

// LockForever is the lockout end used for indefinite locks.
var LockForever = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
