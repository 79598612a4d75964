package redisdb

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/alyusr/institute/core/form"
)

type formRepository struct {
	client *redis.Client
}

var _ form.Repository = (*formRepository)(nil)

func NewFormRepository(client *redis.Client) form.Repository {
	return &formRepository{client: client}
}

// collection returns the per-form-type hash, mirroring forms/{formType}.
func (repo *formRepository) collection(t form.Type) collection {
	return newCollection(repo.client, "forms:"+string(t))
}

func (repo *formRepository) AppendSubmission(ctx context.Context, sub form.Submission) (form.Submission, error) {
	sub.ID = uuid.New().String()
	if err := repo.collection(sub.Type).set(ctx, sub.ID, sub); err != nil {
		return form.Submission{}, err
	}
	return sub, nil
}

func (repo *formRepository) QuerySubmissions(ctx context.Context, t form.Type) ([]form.Submission, error) {
	var subs []form.Submission
	err := repo.collection(t).each(ctx, func(raw string) error {
		var sub form.Submission
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			return errors.Wrap(err, "unmarshalling submission")
		}
		subs = append(subs, sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.After(subs[j].SubmittedAt) })
	return subs, nil
}

func (repo *formRepository) GetSubmission(ctx context.Context, t form.Type, id string) (form.Submission, error) {
	var sub form.Submission
	found, err := repo.collection(t).get(ctx, id, &sub)
	if err != nil {
		return form.Submission{}, err
	}
	if !found {
		return form.Submission{}, form.ErrSubmissionNotFound
	}
	return sub, nil
}

func (repo *formRepository) UpdateSubmission(ctx context.Context, sub form.Submission) (form.Submission, error) {
	if _, err := repo.GetSubmission(ctx, sub.Type, sub.ID); err != nil {
		return form.Submission{}, err
	}
	if err := repo.collection(sub.Type).set(ctx, sub.ID, sub); err != nil {
		return form.Submission{}, err
	}
	return sub, nil
}

func (repo *formRepository) NewsletterEmailExists(ctx context.Context, email string) (bool, error) {
	subs, err := repo.QuerySubmissions(ctx, form.TypeNewsletter)
	if err != nil {
		return false, err
	}
	for _, sub := range subs {
		var payload form.Newsletter
		if err := json.Unmarshal(sub.Data, &payload); err != nil {
			continue
		}
		if strings.EqualFold(payload.Email, email) {
			return true, nil
		}
	}
	return false, nil
}
