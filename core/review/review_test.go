package review_test

import (
	"context"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/alyusr/institute/core/review"
	inmemdb "github.com/alyusr/institute/storage/database/inmem"
)

func Test_Review_PubliclyVisible(t *testing.T) {
	tests := []struct {
		name   string
		review review.Review
		want   bool
	}{
		{"approved and active", review.Review{Approved: null.BoolFrom(true), Active: null.BoolFrom(true), Name: "A", Content: "c"}, true},
		{"approved but inactive", review.Review{Approved: null.BoolFrom(true), Active: null.BoolFrom(false), Name: "A", Content: "c"}, false},
		{"approved, active absent", review.Review{Approved: null.BoolFrom(true), Name: "A", Content: "c"}, false},
		{"rejected", review.Review{Approved: null.BoolFrom(false), Active: null.BoolFrom(true), Name: "A", Content: "c"}, false},
		// legacy records predate the approved flag entirely
		{"legacy with name and content", review.Review{Name: "A", Content: "c"}, true},
		{"legacy deactivated", review.Review{Active: null.BoolFrom(false), Name: "A", Content: "c"}, false},
		{"legacy active, no content", review.Review{Active: null.BoolFrom(true), Name: "A"}, false},
		{"legacy empty name", review.Review{Content: "c"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.review.PubliclyVisible(); got != tt.want {
				t.Errorf("PubliclyVisible() = %v; want %v", got, tt.want)
			}
		})
	}
}

func Test_Review_Pending(t *testing.T) {
	if !(review.Review{}).Pending() {
		t.Error("legacy review without approved flag is not pending")
	}
	if !(review.Review{Approved: null.BoolFrom(false)}).Pending() {
		t.Error("unapproved review is not pending")
	}
	if (review.Review{Approved: null.BoolFrom(true)}).Pending() {
		t.Error("approved review is still pending")
	}
}

func setup(t *testing.T) *review.Service {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	return review.NewService(inmemdb.NewReviewRepository(db))
}

func Test_Service_lifecycle(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	id, err := svc.CreateFromSubmission(ctx, "Awe Lmao", "awe@test.cd", "Great arabic classes.", 5)
	if err != nil {
		t.Fatalf("CreateFromSubmission() failed: %v", err)
	}

	// fresh reviews are pending and hidden
	if pub, _ := svc.ListPublic(ctx); len(pub) != 0 {
		t.Errorf("public reviews = %d; want 0", len(pub))
	}
	pending, err := svc.ListPending(ctx)
	if err != nil || len(pending) != 1 {
		t.Fatalf("ListPending() = %v, %v; want one pending review", pending, err)
	}

	// approval flips both flags and stamps the time
	r, err := svc.Approve(ctx, id)
	if err != nil {
		t.Fatalf("Approve() failed: %v", err)
	}
	if !r.Approved.Bool || !r.Active.Bool || r.ApprovedAt.IsZero() {
		t.Errorf("Approve() = %+v; want both flags set and timestamp stamped", r)
	}
	if pub, _ := svc.ListPublic(ctx); len(pub) != 1 {
		t.Errorf("public reviews after approval = %d; want 1", len(pub))
	}
	if pending, _ = svc.ListPending(ctx); len(pending) != 0 {
		t.Errorf("pending reviews after approval = %d; want 0", len(pending))
	}

	// rejection hides it again but keeps the record
	if _, err = svc.Reject(ctx, id); err != nil {
		t.Fatalf("Reject() failed: %v", err)
	}
	if pub, _ := svc.ListPublic(ctx); len(pub) != 0 {
		t.Errorf("public reviews after rejection = %d; want 0", len(pub))
	}
	if pending, _ = svc.ListPending(ctx); len(pending) != 1 {
		t.Errorf("pending reviews after rejection = %d; want 1", len(pending))
	}

	// hard delete is allowed for reviews only
	if err = svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if pending, _ = svc.ListPending(ctx); len(pending) != 0 {
		t.Errorf("pending reviews after delete = %d; want 0", len(pending))
	}
}

func Test_Service_notFound(t *testing.T) {
	svc := setup(t)
	if _, err := svc.Approve(context.Background(), "nope"); err != review.ErrNotFound {
		t.Errorf("Approve() error = %v; want ErrNotFound", err)
	}
}
