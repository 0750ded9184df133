package types

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleEmployer  = "employer"
	RoleCandidate = "candidate"
)

// User is an account on the job board. Credentials are managed outside this service.
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Photo       *string   `json:"photo,omitempty"`
	CompanyName *string   `json:"company_name,omitempty"`
	Address     *string   `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsEmployer reports whether the user publishes listings.
func (u *User) IsEmployer() bool {
	return u != nil && u.Role == RoleEmployer
}

// IsCandidate reports whether the user applies to listings.
func (u *User) IsCandidate() bool {
	return u != nil && u.Role == RoleCandidate
}
