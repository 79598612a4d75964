package form

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/alyusr/institute/core"
)

type sinkStub struct {
	calls   int
	failFor int // fail this many leading attempts
	err     error
}

func (s *sinkStub) Append(_ context.Context, _ Type, _ Payload) (string, error) {
	s.calls++
	if s.calls <= s.failFor {
		if s.err != nil {
			return "", s.err
		}
		return "", errors.New("store unavailable")
	}
	return "rec-1", nil
}

func newTestPipeline(sink Sink, base time.Duration) (*Pipeline, *[]time.Duration) {
	validate, translator := core.NewValidator()
	conf := &core.Config{}
	conf.Submit.MaxAttempts = 3
	conf.Submit.BaseDelay = base
	conf.Submit.MaxDelay = 10 * base

	p := NewPipeline(sink, validate, translator, conf)
	var sleeps []time.Duration
	p.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return p, &sleeps
}

func Test_Pipeline_Submit_invalidFormType(t *testing.T) {
	sink := &sinkStub{}
	p, _ := newTestPipeline(sink, time.Second)

	res := p.Submit(context.Background(), "marriage", nil)

	if res.Success {
		t.Error("Submit() succeeded for unknown form type")
	}
	if res.Message != "Invalid form type" {
		t.Errorf("Submit() message = %q; want %q", res.Message, "Invalid form type")
	}
	if sink.calls != 0 {
		t.Errorf("sink called %d times for unknown form type; want 0", sink.calls)
	}
}

func Test_Pipeline_Submit_malformedPayload(t *testing.T) {
	sink := &sinkStub{}
	p, _ := newTestPipeline(sink, time.Second)

	res := p.Submit(context.Background(), TypeNewsletter, json.RawMessage(`{"email":`))

	if res.Success || res.Message != "malformed payload" {
		t.Errorf("Submit() = %+v; want malformed payload failure", res)
	}
	if sink.calls != 0 {
		t.Errorf("sink called %d times for malformed payload; want 0", sink.calls)
	}
}

func Test_Pipeline_Submit_firstValidationErrorOnly(t *testing.T) {
	sink := &sinkStub{}
	p, _ := newTestPipeline(sink, time.Second)

	// two invalid fields; only the first failure is surfaced
	res := p.Submit(context.Background(), TypeReview, json.RawMessage(`{"name":"","email":"nope"}`))

	if res.Success {
		t.Error("Submit() succeeded with invalid payload")
	}
	if res.Message != "this field is required" {
		t.Errorf("Submit() message = %q; want first field error only", res.Message)
	}
	if sink.calls != 0 {
		t.Errorf("sink called %d times before validation passed; want 0", sink.calls)
	}
}

func Test_Pipeline_Submit_retriesThenSucceeds(t *testing.T) {
	base := time.Second
	sink := &sinkStub{failFor: 2}
	p, sleeps := newTestPipeline(sink, base)

	res := p.Submit(context.Background(), TypeNewsletter, json.RawMessage(`{"email":"sub@test.cd"}`))

	if !res.Success {
		t.Fatalf("Submit() = %+v; want success after retries", res)
	}
	if res.Message != "Submission received" {
		t.Errorf("Submit() message = %q; want %q", res.Message, "Submission received")
	}
	if res.ID != "rec-1" {
		t.Errorf("Submit() ID = %q; want rec-1", res.ID)
	}
	if sink.calls != 3 {
		t.Errorf("sink called %d times; want 3", sink.calls)
	}

	// waits double per attempt: base, then 2*base
	want := []time.Duration{base, 2 * base}
	if len(*sleeps) != len(want) {
		t.Fatalf("slept %d times; want %d", len(*sleeps), len(want))
	}
	var total time.Duration
	for i, d := range *sleeps {
		if d != want[i] {
			t.Errorf("sleep[%d] = %v; want %v", i, d, want[i])
		}
		total += d
	}
	if total != 3*base {
		t.Errorf("total wait = %v; want %v", total, 3*base)
	}
}

func Test_Pipeline_Submit_exhaustsAttempts(t *testing.T) {
	sink := &sinkStub{failFor: 10}
	p, sleeps := newTestPipeline(sink, time.Second)

	res := p.Submit(context.Background(), TypeNewsletter, json.RawMessage(`{"email":"sub@test.cd"}`))

	if res.Success {
		t.Error("Submit() succeeded; want exhaustion")
	}
	if res.Message != "Submission failed after 3 attempts" {
		t.Errorf("Submit() message = %q; want %q", res.Message, "Submission failed after 3 attempts")
	}
	if sink.calls != 3 {
		t.Errorf("sink called %d times; want 3", sink.calls)
	}
	if len(*sleeps) != 2 {
		t.Errorf("slept %d times; want 2 (no sleep after the last attempt)", len(*sleeps))
	}
}

func Test_Pipeline_Submit_rejectionNotRetried(t *testing.T) {
	sink := &sinkStub{failFor: 10, err: &Rejection{Msg: "You're already subscribed to our newsletter."}}
	p, sleeps := newTestPipeline(sink, time.Second)

	res := p.Submit(context.Background(), TypeNewsletter, json.RawMessage(`{"email":"sub@test.cd"}`))

	if res.Success {
		t.Error("Submit() succeeded; want rejection")
	}
	if res.Message != "You're already subscribed to our newsletter." {
		t.Errorf("Submit() message = %q", res.Message)
	}
	if sink.calls != 1 {
		t.Errorf("sink called %d times for a rejection; want 1", sink.calls)
	}
	if len(*sleeps) != 0 {
		t.Errorf("slept %d times for a rejection; want 0", len(*sleeps))
	}
}

func Test_Pipeline_Submit_delayCappedAtMax(t *testing.T) {
	validate, translator := core.NewValidator()
	conf := &core.Config{}
	conf.Submit.MaxAttempts = 5
	conf.Submit.BaseDelay = time.Second
	conf.Submit.MaxDelay = 3 * time.Second

	sink := &sinkStub{failFor: 10}
	p := NewPipeline(sink, validate, translator, conf)
	var sleeps []time.Duration
	p.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	p.Submit(context.Background(), TypeNewsletter, json.RawMessage(`{"email":"sub@test.cd"}`))

	want := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("slept %d times; want %d", len(sleeps), len(want))
	}
	for i, d := range sleeps {
		if d != want[i] {
			t.Errorf("sleep[%d] = %v; want %v", i, d, want[i])
		}
	}
}

func Test_Pipeline_SubmitPayload(t *testing.T) {
	sink := &sinkStub{}
	p, _ := newTestPipeline(sink, time.Second)

	res := p.SubmitPayload(context.Background(), &Newsletter{Email: "sub@test.cd"})
	if !res.Success {
		t.Errorf("SubmitPayload() = %+v; want success", res)
	}

	res = p.SubmitPayload(context.Background(), &Newsletter{})
	if res.Success {
		t.Error("SubmitPayload() succeeded with empty email")
	}
	if res.Message != "this field is required" {
		t.Errorf("SubmitPayload() message = %q", res.Message)
	}
}
