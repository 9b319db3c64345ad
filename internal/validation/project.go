package validation

import (
	projectdomain "github.com/projectpulse/pulse-backend/internal/projects/domain"
)

// ProjectInput is the raw project payload. Pointers distinguish absent from
// empty; JSON fields not listed here are dropped on decode.
type ProjectInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`

	mismatched []mismatch
}

// QueryInput is the raw project listing filter.
type QueryInput struct {
	Search   string `form:"search" json:"search"`
	Status   string `form:"status" json:"status"`
	Priority string `form:"priority" json:"priority"`
}

type projectCreateRules struct {
	Title       string `json:"title" label:"Title" validate:"required,min=3,max=100"`
	Description string `json:"description" label:"Description" validate:"required,min=10,max=1000"`
	Status      string `json:"status" label:"Status" validate:"oneof=planning in-progress completed on-hold"`
	Priority    string `json:"priority" label:"Priority" validate:"oneof=low medium high urgent"`
	DueDate     string `json:"dueDate" label:"Due date" validate:"omitempty,isodate,notpast"`
}

type projectUpdateRules struct {
	Title       string `json:"title" label:"Title" validate:"required,min=3,max=100"`
	Description string `json:"description" label:"Description" validate:"required,min=10,max=1000"`
	Status      string `json:"status" label:"Status" validate:"required,oneof=planning in-progress completed on-hold"`
	Priority    string `json:"priority" label:"Priority" validate:"required,oneof=low medium high urgent"`
	DueDate     string `json:"dueDate" label:"Due date" validate:"omitempty,isodate"`
}

type projectQueryRules struct {
	Search   string `json:"search" label:"Search term" validate:"max=100"`
	Status   string `json:"status" label:"Status filter" validate:"omitempty,oneof=planning in-progress completed on-hold"`
	Priority string `json:"priority" label:"Priority filter" validate:"omitempty,oneof=low medium high urgent"`
}

// ProjectCreate validates a new project. Missing status and priority default
// to planning and medium; the due date may not be before today.
func (g *Gate) ProjectCreate(in ProjectInput) (projectdomain.Fields, error) {
	rules := projectCreateRules{
		Title:       trimmed(in.Title),
		Description: trimmed(in.Description),
		Status:      trimmed(in.Status),
		Priority:    trimmed(in.Priority),
		DueDate:     trimmed(in.DueDate),
	}
	if rules.Status == "" {
		rules.Status = string(projectdomain.StatusPlanning)
	}
	if rules.Priority == "" {
		rules.Priority = string(projectdomain.PriorityMedium)
	}

	if err := g.check(&rules, in.mismatched...); err != nil {
		return projectdomain.Fields{}, err
	}
	return fields(rules.Title, rules.Description, rules.Status, rules.Priority, rules.DueDate), nil
}

// ProjectUpdate validates a full replacement of a project's editable fields.
// Any well-formed due date is accepted, including past ones.
func (g *Gate) ProjectUpdate(in ProjectInput) (projectdomain.Fields, error) {
	rules := projectUpdateRules{
		Title:       trimmed(in.Title),
		Description: trimmed(in.Description),
		Status:      trimmed(in.Status),
		Priority:    trimmed(in.Priority),
		DueDate:     trimmed(in.DueDate),
	}

	if err := g.check(&rules, in.mismatched...); err != nil {
		return projectdomain.Fields{}, err
	}
	return fields(rules.Title, rules.Description, rules.Status, rules.Priority, rules.DueDate), nil
}

// ProjectQuery validates listing filters.
func (g *Gate) ProjectQuery(in QueryInput) (projectdomain.Filter, error) {
	rules := projectQueryRules{
		Search:   trimmed(&in.Search),
		Status:   trimmed(&in.Status),
		Priority: trimmed(&in.Priority),
	}

	if err := g.check(&rules); err != nil {
		return projectdomain.Filter{}, err
	}
	return projectdomain.Filter{
		Search:   rules.Search,
		Status:   projectdomain.Status(rules.Status),
		Priority: projectdomain.Priority(rules.Priority),
	}, nil
}

func fields(title, description, status, priority, due string) projectdomain.Fields {
	f := projectdomain.Fields{
		Title:       title,
		Description: description,
		Status:      projectdomain.Status(status),
		Priority:    projectdomain.Priority(priority),
	}
	if due != "" {
		// already checked by isodate
		if d, err := projectdomain.ParseDate(due); err == nil {
			f.DueDate = &d
		}
	}
	return f
}

func ProjectCreate(in ProjectInput) (projectdomain.Fields, error) {
	return defaultGate.ProjectCreate(in)
}

func ProjectUpdate(in ProjectInput) (projectdomain.Fields, error) {
	return defaultGate.ProjectUpdate(in)
}

func ProjectQuery(in QueryInput) (projectdomain.Filter, error) {
	return defaultGate.ProjectQuery(in)
}
