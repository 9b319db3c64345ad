package service

import (
	"context"

	authdomain "github.com/projectpulse/pulse-backend/internal/auth/domain"
	"github.com/projectpulse/pulse-backend/internal/authz"
	"github.com/projectpulse/pulse-backend/internal/notifications/domain"
	"github.com/projectpulse/pulse-backend/internal/notifications/repository"
)

// NotificationService records mutation notices and serves the shared feed.
type NotificationService struct {
	repo repository.Store
}

func NewNotificationService(repo repository.Store) *NotificationService {
	return &NotificationService{repo: repo}
}

// Record stores the notice for a committed mutation of project projectID.
func (s *NotificationService) Record(ctx context.Context, t domain.Type, projectID, title string, actor authdomain.Principal) (*domain.Notification, error) {
	return s.repo.Insert(ctx, domain.Notification{
		Message:   domain.Message(t, title, actor.Username),
		Type:      t,
		ProjectID: projectID,
		UserID:    actor.UserID,
	})
}

// Recent returns the latest notifications, newest first.
func (s *NotificationService) Recent(ctx context.Context, p authdomain.Principal) ([]domain.Notification, error) {
	if err := authz.Require(p.Role, authz.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListRecent(ctx, domain.RecentLimit)
}

// MarkRead flags a notification as read. Repeating it is harmless.
func (s *NotificationService) MarkRead(ctx context.Context, p authdomain.Principal, id string) (*domain.Notification, error) {
	if err := authz.Require(p.Role, authz.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.MarkRead(ctx, id)
}
