package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"firstName,omitempty"`
	MiddleName   string     `json:"middleName,omitempty"`
	LastName     string     `json:"lastName,omitempty"`
	DOB          *time.Time `json:"dob,omitempty"`
	Role         string     `json:"role"`
	AvatarURL    string     `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
