package form_test

import (
	"context"
	"testing"
	"time"

	"github.com/alyusr/institute/core"
	"github.com/alyusr/institute/core/form"
	"github.com/alyusr/institute/core/review"
	emailsvc "github.com/alyusr/institute/services/email"
	inmemdb "github.com/alyusr/institute/storage/database/inmem"
)

func setup(t *testing.T) (*form.Pipeline, form.Repository, *review.Service) {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	repo := inmemdb.NewFormRepository(db)
	reviewSvc := review.NewService(inmemdb.NewReviewRepository(db))

	conf := &core.Config{AppName: "AlYusr Institute", TestMode: true}
	conf.Submit.MaxAttempts = 3
	conf.Submit.BaseDelay = time.Millisecond
	conf.Submit.MaxDelay = 10 * time.Millisecond

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	svc := form.NewService(repo, reviewSvc, mailSvc, conf)

	validate, translator := core.NewValidator()
	return form.NewPipeline(svc, validate, translator, conf), repo, reviewSvc
}

func Test_Service_newsletterDuplicate(t *testing.T) {
	pipeline, repo, _ := setup(t)
	ctx := context.Background()

	res := pipeline.SubmitPayload(ctx, &form.Newsletter{Email: "sub@test.cd"})
	if !res.Success {
		t.Fatalf("first subscription failed: %+v", res)
	}

	// same address again, case-insensitively
	res = pipeline.SubmitPayload(ctx, &form.Newsletter{Email: "SUB@test.cd"})
	if res.Success {
		t.Error("duplicate subscription succeeded")
	}
	if res.Message != "You're already subscribed to our newsletter." {
		t.Errorf("duplicate message = %q", res.Message)
	}

	subs, err := repo.QuerySubmissions(ctx, form.TypeNewsletter)
	if err != nil {
		t.Fatalf("QuerySubmissions() failed: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("stored %d newsletter submissions; want 1", len(subs))
	}
}

func Test_Service_submissionDefaults(t *testing.T) {
	pipeline, repo, _ := setup(t)
	ctx := context.Background()

	res := pipeline.SubmitPayload(ctx, &form.Contact{
		Name:    "Awe Lmao",
		Email:   "awe@test.cd",
		Subject: "Schedules",
		Message: "When do evening classes start?",
	})
	if !res.Success {
		t.Fatalf("SubmitPayload() failed: %+v", res)
	}

	sub, err := repo.GetSubmission(ctx, form.TypeContact, res.ID)
	if err != nil {
		t.Fatalf("GetSubmission() failed: %v", err)
	}
	if sub.Status != form.StatusPending {
		t.Errorf("Status = %q; want pending", sub.Status)
	}
	if !sub.Approved.Valid || sub.Approved.Bool {
		t.Errorf("Approved = %+v; want explicit false", sub.Approved)
	}
	if sub.SubmittedAt.IsZero() || sub.SubmittedAt.Location() != time.UTC {
		t.Errorf("SubmittedAt = %v; want server-assigned UTC", sub.SubmittedAt)
	}
	if !sub.Pending() {
		t.Error("new submission is not pending")
	}
}

func Test_Service_reviewRoutedToReviews(t *testing.T) {
	pipeline, repo, reviewSvc := setup(t)
	ctx := context.Background()

	res := pipeline.SubmitPayload(ctx, &form.Review{
		Name:    "Awe Lmao",
		Email:   "awe@test.cd",
		Content: "Great tajweed classes, my kids love them.",
		Rating:  5,
	})
	if !res.Success {
		t.Fatalf("SubmitPayload() failed: %+v", res)
	}

	// stored in the reviews collection, not under the form type
	subs, err := repo.QuerySubmissions(ctx, form.TypeReview)
	if err != nil {
		t.Fatalf("QuerySubmissions() failed: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("stored %d review submissions in the forms collection; want 0", len(subs))
	}

	pending, err := reviewSvc.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending() failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending reviews = %d; want 1", len(pending))
	}
	if pub, _ := reviewSvc.ListPublic(ctx); len(pub) != 0 {
		t.Errorf("new review already publicly visible")
	}
}
