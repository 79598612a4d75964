package admission_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/alyusr/institute/core/admission"
	"github.com/alyusr/institute/core/form"
	inmemdb "github.com/alyusr/institute/storage/database/inmem"
)

func setup(t *testing.T) (*admission.Service, form.Repository) {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	repo := inmemdb.NewFormRepository(db)
	return admission.NewService(repo), repo
}

func appendSubmission(t *testing.T, repo form.Repository, typ form.Type, approved null.Bool, status string) form.Submission {
	t.Helper()
	sub, err := repo.AppendSubmission(context.Background(), form.Submission{
		Type:        typ,
		Data:        json.RawMessage(`{}`),
		SubmittedAt: time.Now().UTC(),
		Approved:    approved,
		Status:      status,
	})
	if err != nil {
		t.Fatalf("AppendSubmission() failed: %v", err)
	}
	return sub
}

func Test_Service_ListPending(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	appendSubmission(t, repo, form.TypeEnrollment, null.BoolFrom(false), form.StatusPending)
	appendSubmission(t, repo, form.TypeEnrollment, null.BoolFrom(true), form.StatusApproved)
	appendSubmission(t, repo, form.TypeEnrollment, null.BoolFrom(false), form.StatusRejected)
	// legacy import without an approved field still counts as pending
	appendSubmission(t, repo, form.TypeEnrollment, null.Bool{}, form.StatusPending)
	appendSubmission(t, repo, form.TypeContact, null.BoolFrom(false), form.StatusPending)

	pending, err := svc.ListPending(ctx, form.TypeEnrollment)
	if err != nil {
		t.Fatalf("ListPending() failed: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("ListPending() = %d submissions; want 2", len(pending))
	}
}

func Test_Service_ListPending_invalidType(t *testing.T) {
	svc, _ := setup(t)
	if _, err := svc.ListPending(context.Background(), "marriage"); err != form.ErrInvalidFormType {
		t.Errorf("ListPending() error = %v; want ErrInvalidFormType", err)
	}
}

func Test_Service_ApproveReject(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	sub := appendSubmission(t, repo, form.TypeDonation, null.BoolFrom(false), form.StatusPending)

	approved, err := svc.Approve(ctx, form.TypeDonation, sub.ID)
	if err != nil {
		t.Fatalf("Approve() failed: %v", err)
	}
	if !approved.Approved.Bool || approved.Status != form.StatusApproved || approved.ApprovedAt.IsZero() {
		t.Errorf("Approve() = %+v; want approved flag, status and timestamp", approved)
	}
	if approved.Pending() {
		t.Error("approved submission still pending")
	}

	rejected, err := svc.Reject(ctx, form.TypeDonation, sub.ID)
	if err != nil {
		t.Fatalf("Reject() failed: %v", err)
	}
	if rejected.Status != form.StatusRejected {
		t.Errorf("Reject() status = %q; want rejected", rejected.Status)
	}
	if rejected.Pending() {
		t.Error("rejected submission reported pending")
	}

	// rejection never deletes the record
	if _, err = repo.GetSubmission(ctx, form.TypeDonation, sub.ID); err != nil {
		t.Errorf("GetSubmission() after rejection failed: %v", err)
	}
}

func Test_Service_Approve_notFound(t *testing.T) {
	svc, _ := setup(t)
	if _, err := svc.Approve(context.Background(), form.TypeDonation, "nope"); err != form.ErrSubmissionNotFound {
		t.Errorf("Approve() error = %v; want ErrSubmissionNotFound", err)
	}
}
