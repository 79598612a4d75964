package notification

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("notification not found")

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification) (Notification, error)
		QueryAllNotifications(ctx context.Context) ([]Notification, error)
		GetNotificationByID(ctx context.Context, id string) (Notification, error)
		UpdateNotification(ctx context.Context, n Notification) (Notification, error)
		DeleteNotificationsByID(ctx context.Context, ids ...string) error
		DeleteAllNotifications(ctx context.Context) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records a system event notification.
func (svc *Service) Create(ctx context.Context, typ, title, message, priority string) (Notification, error) {
	if priority == "" {
		priority = PriorityNormal
	}
	n := Notification{
		Type:      typ,
		Title:     title,
		Message:   message,
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateNotification(ctx, n)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Notification, error) {
	return svc.repo.QueryAllNotifications(ctx)
}

func (svc *Service) MarkRead(ctx context.Context, id string) (Notification, error) {
	n, err := svc.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	n.Read = true
	return svc.repo.UpdateNotification(ctx, n)
}

func (svc *Service) MarkAllRead(ctx context.Context) error {
	all, err := svc.repo.QueryAllNotifications(ctx)
	if err != nil {
		return err
	}
	for _, n := range all {
		if n.Read {
			continue
		}
		n.Read = true
		if _, err := svc.repo.UpdateNotification(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteNotificationsByID(ctx, ids...)
}

func (svc *Service) DeleteAll(ctx context.Context) error {
	return svc.repo.DeleteAllNotifications(ctx)
}
