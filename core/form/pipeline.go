package form

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/alyusr/institute/core"
)

type (
	// Sink delivers a validated payload to the persistence endpoint and
	// returns the new record's key.
	Sink interface {
		Append(ctx context.Context, t Type, p Payload) (string, error)
	}

	// Rejection is a delivered-but-refused outcome (e.g. a duplicate
	// newsletter subscription). It is surfaced to the caller as-is and
	// never retried.
	Rejection struct {
		Msg string
	}

	// Result is the uniform submission response.
	Result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		ID      string `json:"id,omitempty"`
	}

	// Pipeline validates payloads and delivers them with retries.
	Pipeline struct {
		sink       Sink
		validate   *validator.Validate
		translator ut.Translator

		maxAttempts int
		baseDelay   time.Duration
		maxDelay    time.Duration

		sleep func(time.Duration) // mockable
	}
)

func (r *Rejection) Error() string { return r.Msg }

func NewPipeline(sink Sink, validate *validator.Validate, translator ut.Translator, conf *core.Config) *Pipeline {
	return &Pipeline{
		sink:        sink,
		validate:    validate,
		translator:  translator,
		maxAttempts: conf.Submit.MaxAttempts,
		baseDelay:   conf.Submit.BaseDelay,
		maxDelay:    conf.Submit.MaxDelay,
		sleep:       time.Sleep,
	}
}

// Submit looks up the shape for the given form type, unmarshals and
// validates the payload (exactly once), then delivers it to the sink,
// retrying transient failures with exponential backoff. Only the first
// validation failure is surfaced. Delivery errors are retried uniformly;
// only an explicit Rejection from the sink stops the retry loop early.
func (p *Pipeline) Submit(ctx context.Context, formType Type, data json.RawMessage) Result {
	payload, err := NewPayload(formType)
	if err != nil {
		return Result{Message: ErrInvalidFormType.Error()}
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, payload); err != nil {
			return Result{Message: "malformed payload"}
		}
	}
	if err := p.validate.Struct(payload); err != nil {
		return Result{Message: core.FirstValidationMessage(err, p.translator)}
	}

	return p.deliver(ctx, formType, payload)
}

// SubmitPayload is Submit for an already-bound payload variant.
func (p *Pipeline) SubmitPayload(ctx context.Context, payload Payload) Result {
	if err := p.validate.Struct(payload); err != nil {
		return Result{Message: core.FirstValidationMessage(err, p.translator)}
	}
	return p.deliver(ctx, payload.FormType(), payload)
}

// deliver runs the sequential retry loop. Each retry reuses the
// already-validated payload; attempts never race.
func (p *Pipeline) deliver(ctx context.Context, formType Type, payload Payload) Result {
	for attempt := 1; ; attempt++ {
		id, err := p.sink.Append(ctx, formType, payload)
		if err == nil {
			return Result{Success: true, Message: "Submission received", ID: id}
		}

		var rej *Rejection
		if errors.As(err, &rej) {
			return Result{Message: rej.Msg}
		}

		if attempt >= p.maxAttempts {
			break
		}
		delay := p.baseDelay * (1 << (attempt - 1))
		if delay > p.maxDelay {
			delay = p.maxDelay
		}
		p.sleep(delay)
	}
	return Result{Message: fmt.Sprintf("Submission failed after %d attempts", p.maxAttempts)}
}
