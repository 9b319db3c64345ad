package domain

import (
	"fmt"
	"time"
)

// Type names the project mutation a notification reports.
type Type string

const (
	TypeCreate Type = "create"
	TypeUpdate Type = "update"
	TypeDelete Type = "delete"
)

// RecentLimit caps how many notifications a listing returns.
const RecentLimit = 50

// Notification is a server-composed record of one committed project mutation.
// ProjectID is a reference only; the project may be gone.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	ProjectID string    `json:"projectId"`
	UserID    string    `json:"userId"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message renders the fixed human-readable text for a mutation of the
// project titled title by username.
func Message(t Type, title, username string) string {
	switch t {
	case TypeCreate:
		return fmt.Sprintf(`New project "%s" was created by %s`, title, username)
	case TypeUpdate:
		return fmt.Sprintf(`Project "%s" was updated by %s`, title, username)
	case TypeDelete:
		return fmt.Sprintf(`Project "%s" was deleted by %s`, title, username)
	default:
		return fmt.Sprintf(`Project "%s" was changed by %s`, title, username)
	}
}
