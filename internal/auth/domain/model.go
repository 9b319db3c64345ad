package domain

import (
	"time"

	"github.com/projectpulse/pulse-backend/internal/authz"
)

// User is an account known to the credential store. It is created on the
// first successful login with an unseen username and never deleted.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         authz.Role `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// PublicUser is the outward view of a user.
type PublicUser struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Role     authz.Role `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Role: u.Role}
}

// Principal is the authenticated caller, as carried by a session token.
type Principal struct {
	UserID   string
	Username string
	Role     authz.Role
}

func (p Principal) Public() PublicUser {
	return PublicUser{ID: p.UserID, Username: p.Username, Role: p.Role}
}

// Session is the result of a successful login.
type Session struct {
	Token     string     `json:"token"`
	User      PublicUser `json:"user"`
	ExpiresAt time.Time  `json:"expiresAt"`
}
