package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
)

type recorder struct {
	calls []string
}

func (r *recorder) step(name, text string, err error) Step[string] {
	return Step[string]{
		Name: name,
		Call: func(ctx context.Context) (string, error) {
			r.calls = append(r.calls, name)
			return text, err
		},
	}
}

func TestFallbackPrimarySuccess(t *testing.T) {
	rec := &recorder{}
	secondary := rec.step("nova", "second", nil)
	out := Fallback[string]{Primary: rec.step("gemini", "first", nil), Secondary: &secondary}.Run(context.Background())

	if !out.OK() || out.Value != "first" || out.Provider != "gemini" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(rec.calls) != 1 {
		t.Errorf("calls = %v, secondary must not run", rec.calls)
	}
}

func TestFallbackSecondaryAfterPrimaryFailure(t *testing.T) {
	rec := &recorder{}
	secondary := rec.step("nova", "T", nil)
	out := Fallback[string]{
		Primary:   rec.step("gemini", "", errors.New("quota exceeded")),
		Secondary: &secondary,
	}.Run(context.Background())

	if !out.OK() || out.Value != "T" || out.Provider != "nova" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(rec.calls) != 2 || rec.calls[0] != "gemini" || rec.calls[1] != "nova" {
		t.Errorf("calls = %v", rec.calls)
	}
	if len(out.Failures) != 1 || out.Failures[0].Provider != "gemini" {
		t.Errorf("failures = %v", out.Failures)
	}
	if out.Exhausted("unused") != nil {
		t.Error("successful outcome reported exhaustion")
	}
}

func TestFallbackExhausted(t *testing.T) {
	rec := &recorder{}
	secondary := rec.step("nova", "", errors.New("502"))
	out := Fallback[string]{
		Primary:   rec.step("gemini", "", errors.New("500")),
		Secondary: &secondary,
	}.Run(context.Background())

	if out.State != StateExhausted {
		t.Fatalf("state = %s, want exhausted", out.State)
	}
	err := out.Exhausted("माफ करें")
	var ex *apperr.ExhaustionError
	if !errors.As(err, &ex) {
		t.Fatalf("expected ExhaustionError, got %v", err)
	}
	if ex.Message != "माफ करें" || len(ex.Failures) != 2 {
		t.Errorf("exhaustion = %+v", ex)
	}
}

func TestFallbackWithoutSecondary(t *testing.T) {
	rec := &recorder{}
	out := Fallback[string]{Primary: rec.step("perplexity", "", errors.New("401"))}.Run(context.Background())
	if out.State != StateExhausted || len(rec.calls) != 1 {
		t.Fatalf("state = %s calls = %v", out.State, rec.calls)
	}
}

func TestFallbackUnconfiguredStep(t *testing.T) {
	rec := &recorder{}
	secondary := rec.step("nova", "ok", nil)
	out := Fallback[string]{Primary: Step[string]{Name: "gemini"}, Secondary: &secondary}.Run(context.Background())
	if !out.OK() || out.Provider != "nova" {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestFallbackStepTimeout(t *testing.T) {
	slow := Step[string]{
		Name:    "slow",
		Timeout: 20 * time.Millisecond,
		Call: func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	fast := Step[string]{Name: "fast", Call: func(ctx context.Context) (string, error) { return "done", nil }}

	start := time.Now()
	out := Fallback[string]{Primary: slow, Secondary: &fast}.Run(context.Background())
	if !out.OK() || out.Value != "done" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if time.Since(start) > time.Second {
		t.Error("primary timeout did not bound the call")
	}
	if !errors.Is(out.Failures[0].Err, context.DeadlineExceeded) {
		t.Errorf("failure = %v", out.Failures[0].Err)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		StateTryPrimary:   "try_primary",
		StateTrySecondary: "try_secondary",
		StateExhausted:    "exhausted",
		StateSuccess:      "success",
	} {
		if s.String() != want {
			t.Errorf("%d.String() = %q", int(s), s.String())
		}
	}
}
