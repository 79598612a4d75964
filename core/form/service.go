package form

import (
	"context"
	"encoding/json"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/alyusr/institute/core"
)

var ErrSubmissionNotFound = errors.New("submission not found")

const alreadySubscribedMsg = "You're already subscribed to our newsletter."

type (
	Repository interface {
		AppendSubmission(ctx context.Context, sub Submission) (Submission, error)
		QuerySubmissions(ctx context.Context, t Type) ([]Submission, error)
		GetSubmission(ctx context.Context, t Type, id string) (Submission, error)
		UpdateSubmission(ctx context.Context, sub Submission) (Submission, error)
		NewsletterEmailExists(ctx context.Context, email string) (bool, error)
	}

	// ReviewSink forwards review submissions into the reviews collection,
	// where the approval lifecycle lives.
	ReviewSink interface {
		CreateFromSubmission(ctx context.Context, name, email, content string, rating int) (string, error)
	}

	// Service persists validated submissions. It implements Sink.
	Service struct {
		repo    Repository
		reviews ReviewSink
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Sink = (*Service)(nil)

func NewService(repo Repository, reviews ReviewSink, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		reviews: reviews,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

// Append persists a validated payload under its form-type collection with a
// server-assigned timestamp and a default pending status. Review payloads
// are routed to the reviews collection instead.
func (svc *Service) Append(ctx context.Context, t Type, payload Payload) (string, error) {
	switch p := payload.(type) {
	case *Newsletter:
		exists, err := svc.repo.NewsletterEmailExists(ctx, core.CleanString(p.Email, true /* lower */))
		if err != nil {
			return "", errors.Wrap(err, "checking newsletter subscription")
		}
		if exists {
			return "", &Rejection{Msg: alreadySubscribedMsg}
		}
	case *Review:
		id, err := svc.reviews.CreateFromSubmission(ctx, p.Name, p.Email, p.Content, p.Rating)
		if err != nil {
			return "", errors.Wrap(err, "creating review")
		}
		svc.notifyAdmin(t)
		return id, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "marshalling payload")
	}
	sub := Submission{
		Type:        t,
		Data:        data,
		SubmittedAt: time.Now().UTC(),
		Approved:    null.BoolFrom(false),
		Status:      StatusPending,
	}
	sub, err = svc.repo.AppendSubmission(ctx, sub)
	if err != nil {
		return "", errors.Wrap(err, "appending submission")
	}
	svc.notifyAdmin(t)
	return sub.ID, nil
}

// Query returns all submissions of one form type, newest first.
func (svc *Service) Query(ctx context.Context, t Type) ([]Submission, error) {
	if _, err := NewPayload(t); err != nil {
		return nil, err
	}
	return svc.repo.QuerySubmissions(ctx, t)
}

func (svc *Service) notifyAdmin(t Type) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{svc.conf.AdminEmail},
		Subject: "New " + string(t) + " submission",
		BodyStr: "A new " + string(t) + " submission is awaiting review in the admin dashboard.",
	})
}
