package review

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/alyusr/institute/core"
)

var ErrNotFound = errors.New("review not found")

type (
	Repository interface {
		CreateReview(ctx context.Context, r Review) (Review, error)
		QueryAllReviews(ctx context.Context) ([]Review, error)
		GetReviewByID(ctx context.Context, id string) (Review, error)
		UpdateReview(ctx context.Context, r Review) (Review, error)
		// DeleteReview permanently removes the record; reviews are the only
		// entity that supports hard delete.
		DeleteReview(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateFromSubmission stores a new, unapproved review.
func (svc *Service) CreateFromSubmission(ctx context.Context, name, email, content string, rating int) (string, error) {
	r := Review{
		Name:        core.CleanString(name),
		Email:       core.CleanString(email, true /* lower */),
		Content:     core.CleanString(content),
		Rating:      rating,
		Approved:    null.BoolFrom(false),
		Active:      null.BoolFrom(false),
		SubmittedAt: time.Now().UTC(),
	}
	r, err := svc.repo.CreateReview(ctx, r)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

// ListPublic returns the reviews visible on the public site.
func (svc *Service) ListPublic(ctx context.Context) ([]Review, error) {
	all, err := svc.repo.QueryAllReviews(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]Review, 0, len(all))
	for _, r := range all {
		if r.PubliclyVisible() {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

// ListPending returns reviews awaiting an admin decision, including
// legacy records with no approved field at all.
func (svc *Service) ListPending(ctx context.Context) ([]Review, error) {
	all, err := svc.repo.QueryAllReviews(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]Review, 0, len(all))
	for _, r := range all {
		if r.Pending() {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// Approve flips both visibility flags and stamps the approval time.
func (svc *Service) Approve(ctx context.Context, id string) (Review, error) {
	r, err := svc.repo.GetReviewByID(ctx, id)
	if err != nil {
		return Review{}, err
	}
	r.Approved = null.BoolFrom(true)
	r.Active = null.BoolFrom(true)
	r.ApprovedAt = time.Now().UTC()
	return svc.repo.UpdateReview(ctx, r)
}

// Reject marks the review as explicitly unapproved without deleting it.
func (svc *Service) Reject(ctx context.Context, id string) (Review, error) {
	r, err := svc.repo.GetReviewByID(ctx, id)
	if err != nil {
		return Review{}, err
	}
	r.Approved = null.BoolFrom(false)
	r.Active = null.BoolFrom(false)
	return svc.repo.UpdateReview(ctx, r)
}

// Delete permanently removes a review.
func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteReview(ctx, id)
}
