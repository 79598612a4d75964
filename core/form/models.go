package form

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// Type identifies one of the recognized submission forms.
type Type string

const (
	TypeContact      Type = "contact"
	TypeBookDemo     Type = "book-demo"
	TypeConsultation Type = "consultation"
	TypeEnrollment   Type = "enrollment"
	TypeReview       Type = "review"
	TypeNewsletter   Type = "newsletter"
	TypeRoleProposal Type = "role-proposal"
	TypeDonation     Type = "donation"
)

var AllTypes = []Type{
	TypeContact, TypeBookDemo, TypeConsultation, TypeEnrollment,
	TypeReview, TypeNewsletter, TypeRoleProposal, TypeDonation,
}

// ErrInvalidFormType is returned verbatim for form types outside the
// recognized set; no delivery is attempted in that case.
var ErrInvalidFormType = errors.New("Invalid form type")

// Payload is one variant of the submission union; each form type carries
// its own statically-checked field set.
type Payload interface {
	FormType() Type
}

// NewPayload maps a form-type tag to an empty instance of its variant.
func NewPayload(t Type) (Payload, error) {
	switch t {
	case TypeContact:
		return &Contact{}, nil
	case TypeBookDemo:
		return &BookDemo{}, nil
	case TypeConsultation:
		return &Consultation{}, nil
	case TypeEnrollment:
		return &Enrollment{}, nil
	case TypeReview:
		return &Review{}, nil
	case TypeNewsletter:
		return &Newsletter{}, nil
	case TypeRoleProposal:
		return &RoleProposal{}, nil
	case TypeDonation:
		return &Donation{}, nil
	}
	return nil, ErrInvalidFormType
}

type Contact struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,min=7"`
	Subject string `json:"subject" validate:"required,min=3"`
	Message string `json:"message" validate:"required,min=10"`
}

func (Contact) FormType() Type { return TypeContact }

type BookDemo struct {
	StudentName   string `json:"student_name" validate:"required,min=2"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,min=7"`
	Course        string `json:"course" validate:"required"`
	PreferredTime string `json:"preferred_time" validate:"required,oneof=morning afternoon evening"`
	Notes         string `json:"notes"`
}

func (BookDemo) FormType() Type { return TypeBookDemo }

type Consultation struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,min=7"`
	Topic   string `json:"topic" validate:"required,oneof=quran arabic islamic-studies general"`
	Message string `json:"message" validate:"required,min=10"`
}

func (Consultation) FormType() Type { return TypeConsultation }

type Enrollment struct {
	StudentName  string `json:"student_name" validate:"required,min=2"`
	GuardianName string `json:"guardian_name"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,min=7"`
	CourseID     string `json:"course_id" validate:"required"`
	Level        string `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	Schedule     string `json:"schedule" validate:"required"`
}

func (Enrollment) FormType() Type { return TypeEnrollment }

type Review struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Content string `json:"content" validate:"required,min=10"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

func (Review) FormType() Type { return TypeReview }

type Newsletter struct {
	Email string `json:"email" validate:"required,email"`
}

func (Newsletter) FormType() Type { return TypeNewsletter }

type RoleProposal struct {
	Name       string `json:"name" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,min=7"`
	Role       string `json:"role" validate:"required,min=3"`
	Experience string `json:"experience" validate:"required,min=10"`
	ResumeURL  string `json:"resume_url" validate:"omitempty,url"`
}

func (RoleProposal) FormType() Type { return TypeRoleProposal }

type Donation struct {
	Name     string  `json:"name" validate:"required,min=2"`
	Email    string  `json:"email" validate:"required,email"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"required,oneof=USD EUR GBP SAR AED"`
	Message  string  `json:"message"`
}

func (Donation) FormType() Type { return TypeDonation }

// Submission statuses. A submission is either pending or approved/rejected;
// there are no intermediate states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission is the stored envelope around a validated payload.
type Submission struct {
	ID          string          `json:"id"`
	Type        Type            `json:"form_type"`
	Data        json.RawMessage `json:"data"`
	SubmittedAt time.Time       `json:"submitted_at"` // UTC, server-assigned
	// Approved is absent on records imported before the approval flag
	// existed; such records still count as pending.
	Approved   null.Bool `json:"approved,omitempty"`
	Status     string    `json:"status"`
	ApprovedAt time.Time `json:"approved_at,omitempty"`
}

// Pending reports whether the submission still awaits an admin decision.
// Records without an approved field (legacy imports) are pending too.
func (s Submission) Pending() bool {
	if s.Status == StatusRejected {
		return false
	}
	return !(s.Approved.Valid && s.Approved.Bool)
}
