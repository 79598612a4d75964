package redisdb

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/alyusr/institute/core/notification"
)

type notificationRepository struct {
	coll collection
}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(client *redis.Client) notification.Repository {
	return &notificationRepository{coll: newCollection(client, "notifications")}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	n.ID = uuid.New().String()
	if err := repo.coll.set(ctx, n.ID, n); err != nil {
		return notification.Notification{}, err
	}
	return n, nil
}

func (repo *notificationRepository) QueryAllNotifications(ctx context.Context) ([]notification.Notification, error) {
	var notifs []notification.Notification
	err := repo.coll.each(ctx, func(raw string) error {
		var n notification.Notification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return errors.Wrap(err, "unmarshalling notification")
		}
		notifs = append(notifs, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(notifs, func(i, j int) bool { return notifs[i].CreatedAt.After(notifs[j].CreatedAt) })
	return notifs, nil
}

func (repo *notificationRepository) GetNotificationByID(ctx context.Context, id string) (notification.Notification, error) {
	var n notification.Notification
	found, err := repo.coll.get(ctx, id, &n)
	if err != nil {
		return notification.Notification{}, err
	}
	if !found {
		return notification.Notification{}, notification.ErrNotFound
	}
	return n, nil
}

func (repo *notificationRepository) UpdateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	if _, err := repo.GetNotificationByID(ctx, n.ID); err != nil {
		return notification.Notification{}, err
	}
	if err := repo.coll.set(ctx, n.ID, n); err != nil {
		return notification.Notification{}, err
	}
	return n, nil
}

func (repo *notificationRepository) DeleteNotificationsByID(ctx context.Context, ids ...string) error {
	return repo.coll.delete(ctx, ids...)
}

func (repo *notificationRepository) DeleteAllNotifications(ctx context.Context) error {
	return repo.coll.drop(ctx)
}
