package domain

import "time"

// Status is the lifecycle stage of a project.
type Status string

const (
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on-hold"
)

// Priority ranks a project against the others.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Project is a tracked unit of work. It is storage-agnostic and shared by the
// record stores, the HTTP layer and the realtime events.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	DueDate     *Date     `json:"dueDate"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Fields are the user-editable parts of a project after validation.
type Fields struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *Date
}

// Apply overwrites the editable fields of p and re-stamps UpdatedAt.
// UpdatedAt always moves forward, even when the clock does not.
func (f Fields) Apply(p *Project, now time.Time) {
	p.Title = f.Title
	p.Description = f.Description
	p.Status = f.Status
	p.Priority = f.Priority
	p.DueDate = f.DueDate
	if !now.After(p.UpdatedAt) {
		now = p.UpdatedAt.Add(time.Microsecond)
	}
	p.UpdatedAt = now
}
