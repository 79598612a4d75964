package review

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Review is a testimonial with a two-flag visibility rule. Approved is
// absent on records that predate the approval-flag feature.
type Review struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Content     string    `json:"content"`
	Rating      int       `json:"rating"`
	Approved    null.Bool `json:"approved,omitempty"`
	Active      null.Bool `json:"active,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"` // UTC
	ApprovedAt  time.Time `json:"approved_at,omitempty"`
}

// PubliclyVisible reports whether the review appears on the public site:
// either it was explicitly approved and is active, or it predates the
// approval flag (approved absent), was not explicitly deactivated, and
// carries both a name and content. The legacy path keeps pre-flag
// records visible without a re-approval sweep.
func (r Review) PubliclyVisible() bool {
	if r.Approved.Valid {
		return r.Approved.Bool && r.Active.Valid && r.Active.Bool
	}
	if r.Active.Valid && !r.Active.Bool {
		return false
	}
	return r.Name != "" && r.Content != ""
}

// Pending reports whether the review awaits an admin decision: approved
// is false or absent.
func (r Review) Pending() bool {
	return !(r.Approved.Valid && r.Approved.Bool)
}
