package service

import (
	"context"

	authdomain "github.com/projectpulse/pulse-backend/internal/auth/domain"
	"github.com/projectpulse/pulse-backend/internal/authz"
	"github.com/projectpulse/pulse-backend/internal/logging"
	notifdomain "github.com/projectpulse/pulse-backend/internal/notifications/domain"
	"github.com/projectpulse/pulse-backend/internal/projects/domain"
	"github.com/projectpulse/pulse-backend/internal/projects/repository"
	"github.com/projectpulse/pulse-backend/internal/realtime"
	"github.com/projectpulse/pulse-backend/internal/validation"
)

// NotificationRecorder stores the notice for a committed mutation.
type NotificationRecorder interface {
	Record(ctx context.Context, t notifdomain.Type, projectID, title string, actor authdomain.Principal) (*notifdomain.Notification, error)
}

// ProjectService coordinates every project mutation: validate, authorize,
// write, record a notification, broadcast. A failed write stops the chain;
// notification and broadcast failures are logged and do not undo the write.
type ProjectService struct {
	repo  repository.Store
	notes NotificationRecorder
	pub   realtime.Publisher
	gate  *validation.Gate
}

func NewProjectService(repo repository.Store, notes NotificationRecorder, pub realtime.Publisher) *ProjectService {
	return &ProjectService{
		repo:  repo,
		notes: notes,
		pub:   pub,
	}
}

// WithGate swaps the validation gate; tests pin its clock.
func (s *ProjectService) WithGate(g *validation.Gate) *ProjectService {
	s.gate = g
	return s
}

func (s *ProjectService) List(ctx context.Context, p authdomain.Principal, q validation.QueryInput) ([]domain.Project, error) {
	filter, err := s.validateQuery(q)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(p.Role, authz.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

func (s *ProjectService) Create(ctx context.Context, p authdomain.Principal, in validation.ProjectInput) (*domain.Project, error) {
	fields, err := s.validateCreate(in)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(p.Role, authz.ActionWrite); err != nil {
		return nil, err
	}

	project, err := s.repo.Insert(ctx, p.Username, fields)
	if err != nil {
		return nil, err
	}

	n := s.record(ctx, notifdomain.TypeCreate, project.ID, project.Title, p)
	s.publish(ctx, realtime.Created(project, n))
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, p authdomain.Principal, id string, in validation.ProjectInput) (*domain.Project, error) {
	fields, err := s.validateUpdate(in)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(p.Role, authz.ActionWrite); err != nil {
		return nil, err
	}

	project, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	n := s.record(ctx, notifdomain.TypeUpdate, project.ID, project.Title, p)
	s.publish(ctx, realtime.Updated(project, n))
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, p authdomain.Principal, id string) error {
	if err := authz.Require(p.Role, authz.ActionWrite); err != nil {
		return err
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	n := s.record(ctx, notifdomain.TypeDelete, removed.ID, removed.Title, p)
	s.publish(ctx, realtime.Deleted(removed.ID, n))
	return nil
}

func (s *ProjectService) record(ctx context.Context, t notifdomain.Type, projectID, title string, actor authdomain.Principal) *notifdomain.Notification {
	n, err := s.notes.Record(ctx, t, projectID, title, actor)
	if err != nil {
		logging.FromContext(ctx).Errorf("projects.notify", "project_id=%s type=%s error=%v", projectID, t, err)
		return nil
	}
	return n
}

func (s *ProjectService) publish(ctx context.Context, ev realtime.Event) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Errorf("projects.broadcast", "event=%s project_id=%s error=%v", ev.Kind, ev.ProjectID, err)
	}
}

func (s *ProjectService) validateCreate(in validation.ProjectInput) (domain.Fields, error) {
	if s.gate != nil {
		return s.gate.ProjectCreate(in)
	}
	return validation.ProjectCreate(in)
}

func (s *ProjectService) validateUpdate(in validation.ProjectInput) (domain.Fields, error) {
	if s.gate != nil {
		return s.gate.ProjectUpdate(in)
	}
	return validation.ProjectUpdate(in)
}

func (s *ProjectService) validateQuery(q validation.QueryInput) (domain.Filter, error) {
	if s.gate != nil {
		return s.gate.ProjectQuery(q)
	}
	return validation.ProjectQuery(q)
}
