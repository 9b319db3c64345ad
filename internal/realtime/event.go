package realtime

import (
	"encoding/json"
	"fmt"

	notifdomain "github.com/projectpulse/pulse-backend/internal/notifications/domain"
	projectdomain "github.com/projectpulse/pulse-backend/internal/projects/domain"
)

// Kind is the event name seen by clients.
type Kind string

const (
	KindProjectCreated Kind = "projectCreated"
	KindProjectUpdated Kind = "projectUpdated"
	KindProjectDeleted Kind = "projectDeleted"
)

// Event is one committed project mutation. Created and updated events carry
// the project; deleted events carry only its id. Notification is nil when it
// could not be stored.
type Event struct {
	Kind         Kind
	Project      *projectdomain.Project
	ProjectID    string
	Notification *notifdomain.Notification
}

func Created(p *projectdomain.Project, n *notifdomain.Notification) Event {
	return Event{Kind: KindProjectCreated, Project: p, ProjectID: p.ID, Notification: n}
}

func Updated(p *projectdomain.Project, n *notifdomain.Notification) Event {
	return Event{Kind: KindProjectUpdated, Project: p, ProjectID: p.ID, Notification: n}
}

func Deleted(id string, n *notifdomain.Notification) Event {
	return Event{Kind: KindProjectDeleted, ProjectID: id, Notification: n}
}

type envelope struct {
	Event Kind            `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type projectData struct {
	Project      *projectdomain.Project    `json:"project"`
	Notification *notifdomain.Notification `json:"notification"`
}

type deletedData struct {
	ProjectID    string                    `json:"projectId"`
	Notification *notifdomain.Notification `json:"notification"`
}

// MarshalJSON renders the wire form {"event": kind, "data": {...}}.
func (e Event) MarshalJSON() ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch e.Kind {
	case KindProjectCreated, KindProjectUpdated:
		data, err = json.Marshal(projectData{Project: e.Project, Notification: e.Notification})
	case KindProjectDeleted:
		data, err = json.Marshal(deletedData{ProjectID: e.ProjectID, Notification: e.Notification})
	default:
		return nil, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Event: e.Kind, Data: data})
}

func (e *Event) UnmarshalJSON(b []byte) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}

	switch env.Event {
	case KindProjectCreated, KindProjectUpdated:
		var d projectData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return fmt.Errorf("decode %s: %w", env.Event, err)
		}
		if d.Project == nil {
			return fmt.Errorf("decode %s: missing project", env.Event)
		}
		*e = Event{Kind: env.Event, Project: d.Project, ProjectID: d.Project.ID, Notification: d.Notification}
	case KindProjectDeleted:
		var d deletedData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return fmt.Errorf("decode %s: %w", env.Event, err)
		}
		*e = Event{Kind: env.Event, ProjectID: d.ProjectID, Notification: d.Notification}
	default:
		return fmt.Errorf("unknown event kind %q", env.Event)
	}
	return nil
}
