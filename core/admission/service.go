// Package admission implements the administrative approval workflow for
// non-review form submissions: list pending, approve, reject. Reviews have
// their own richer lifecycle in core/review.
package admission

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/alyusr/institute/core/form"
)

type Service struct {
	repo form.Repository
}

func NewService(repo form.Repository) *Service {
	return &Service{repo: repo}
}

// ListPending returns submissions of one form type whose approved flag is
// false or absent (legacy/imported records carry no approved field).
func (svc *Service) ListPending(ctx context.Context, t form.Type) ([]form.Submission, error) {
	if _, err := form.NewPayload(t); err != nil {
		return nil, err
	}
	all, err := svc.repo.QuerySubmissions(ctx, t)
	if err != nil {
		return nil, err
	}
	pending := make([]form.Submission, 0, len(all))
	for _, sub := range all {
		if sub.Pending() {
			pending = append(pending, sub)
		}
	}
	return pending, nil
}

// Approve sets approved=true and stamps the approval timestamp.
func (svc *Service) Approve(ctx context.Context, t form.Type, id string) (form.Submission, error) {
	sub, err := svc.repo.GetSubmission(ctx, t, id)
	if err != nil {
		return form.Submission{}, err
	}
	sub.Approved = null.BoolFrom(true)
	sub.Status = form.StatusApproved
	sub.ApprovedAt = time.Now().UTC()
	return svc.repo.UpdateSubmission(ctx, sub)
}

// Reject flips the status to rejected. Non-review submissions are never
// hard-deleted.
func (svc *Service) Reject(ctx context.Context, t form.Type, id string) (form.Submission, error) {
	sub, err := svc.repo.GetSubmission(ctx, t, id)
	if err != nil {
		return form.Submission{}, err
	}
	sub.Approved = null.BoolFrom(false)
	sub.Status = form.StatusRejected
	return svc.repo.UpdateSubmission(ctx, sub)
}
