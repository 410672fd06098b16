// Package llm runs provider calls in a fixed priority order.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"

	"go.uber.org/zap"
)

// State of a fallback run.
type State int

const (
	StateTryPrimary State = iota
	StateTrySecondary
	StateExhausted
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateTryPrimary:
		return "try_primary"
	case StateTrySecondary:
		return "try_secondary"
	case StateExhausted:
		return "exhausted"
	case StateSuccess:
		return "success"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Step is one provider call. Call must make at most one outbound request.
type Step[T any] struct {
	Name    string
	Call    func(ctx context.Context) (T, error)
	Timeout time.Duration
	Limiter *RateLimiter
}

// Failure records why a step did not produce a value.
type Failure struct {
	Provider string
	Err      error
}

func (f Failure) Error() string { return f.Provider + ": " + f.Err.Error() }

// Outcome is the terminal result of a run.
type Outcome[T any] struct {
	State    State
	Value    T
	Provider string
	Failures []Failure
}

// OK reports whether a provider produced the value.
func (o Outcome[T]) OK() bool { return o.State == StateSuccess }

// Exhausted converts a failed outcome into an ExhaustionError carrying
// message. It returns nil for a successful outcome.
func (o Outcome[T]) Exhausted(message string) error {
	if o.OK() {
		return nil
	}
	errs := make([]error, 0, len(o.Failures))
	for _, f := range o.Failures {
		errs = append(errs, f)
	}
	return &apperr.ExhaustionError{Message: message, Failures: errs}
}

// Fallback tries Primary, then Secondary if set. Each step gets exactly one
// attempt and steps never run concurrently.
type Fallback[T any] struct {
	Primary   Step[T]
	Secondary *Step[T]
	Logger    *zap.Logger
}

// Run drives the state machine to a terminal state.
func (f Fallback[T]) Run(ctx context.Context) Outcome[T] {
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	out := Outcome[T]{State: StateTryPrimary}
	for {
		switch out.State {
		case StateTryPrimary:
			if f.attempt(ctx, logger, f.Primary, &out) {
				return out
			}
			out.State = StateTrySecondary

		case StateTrySecondary:
			if f.Secondary == nil {
				out.State = StateExhausted
				continue
			}
			if f.attempt(ctx, logger, *f.Secondary, &out) {
				return out
			}
			out.State = StateExhausted

		case StateExhausted:
			logger.Warn("All providers failed", zap.Int("failures", len(out.Failures)))
			return out

		default:
			return out
		}
	}
}

func (f Fallback[T]) attempt(ctx context.Context, logger *zap.Logger, step Step[T], out *Outcome[T]) bool {
	if step.Call == nil {
		out.Failures = append(out.Failures, Failure{Provider: step.Name, Err: errors.New("provider not configured")})
		return false
	}

	if err := step.Limiter.Wait(ctx); err != nil {
		out.Failures = append(out.Failures, Failure{Provider: step.Name, Err: fmt.Errorf("rate limit wait cancelled: %w", err)})
		return false
	}

	callCtx := ctx
	if step.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, step.Timeout)
		defer cancel()
	}

	started := time.Now()
	v, err := step.Call(callCtx)
	if err != nil {
		logger.Warn("Provider failed",
			zap.String("provider", step.Name),
			zap.String("state", out.State.String()),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err))
		out.Failures = append(out.Failures, Failure{Provider: step.Name, Err: err})
		return false
	}

	logger.Debug("Provider succeeded",
		zap.String("provider", step.Name),
		zap.String("state", out.State.String()),
		zap.Duration("elapsed", time.Since(started)))

	out.State = StateSuccess
	out.Value = v
	out.Provider = step.Name
	return true
}
