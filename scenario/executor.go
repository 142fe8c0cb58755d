package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thelinuxer/cypress-cucumber-preprocessor/shared"
	"go.uber.org/zap"
)

// ErrStepTimeout is returned when a step runs longer than its configured timeout
var ErrStepTimeout = errors.New("step timed out")

// Executor runs a single step: resolve, notify start, run, notify finish
type Executor struct {
	resolver Resolver
	session  Session
	feature  string
	logger   *zap.Logger
}

// NewExecutor creates an executor for steps of the named feature
func NewExecutor(resolver Resolver, session Session, feature string, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		resolver: resolver,
		session:  session,
		feature:  feature,
		logger:   logger,
	}
}

// Run executes step with the example row it belongs to (nil without examples).
// The step is only reported finished when it passed; failures are returned as
// *shared.StepError and left to the fail handler.
func (e *Executor) Run(ctx context.Context, step shared.IndexedStep, row map[string]string) error {
	def, err := e.resolver.Resolve(step.Text, e.feature)
	if err != nil {
		e.logger.Error("Step resolution failed", zap.Int("index", step.Index), zap.String("step", step.Text), zap.Error(err))
		return &shared.StepError{Step: step, Err: err}
	}

	e.session.OnStartStep(step)
	start := time.Now()

	if err := e.runBody(ctx, def.Config, step, row); err != nil {
		e.logger.Error("Step failed",
			zap.Int("index", step.Index),
			zap.String("step", step.Text),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return &shared.StepError{Step: step, Err: err}
	}

	e.session.OnFinishStep(step, shared.StatusPassed)
	e.logger.Debug("Step passed", zap.Int("index", step.Index), zap.String("step", step.Text), zap.Duration("duration", time.Since(start)))
	return nil
}

// runBody runs the definition, bounded by cfg.Timeout when set. Panics in the
// step body are turned into errors. A body that outlives its deadline is
// still waited for so that nothing queued after the step overlaps with it.
func (e *Executor) runBody(ctx context.Context, cfg shared.StepConfig, step shared.IndexedStep, row map[string]string) error {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("step panicked: %v", r)
			}
		}()
		done <- e.resolver.RunStep(ctx, step.Step, ReplaceParameterTags, row, e.feature)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		start := time.Now()
		bodyErr := <-done
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && cfg.Timeout > 0 {
			e.logger.Warn("Step ignored its deadline",
				zap.String("step", step.Text),
				zap.Duration("timeout", cfg.Timeout),
				zap.Duration("overrun", time.Since(start)),
				zap.NamedError("bodyError", bodyErr))
			return fmt.Errorf("%w after %s", ErrStepTimeout, cfg.Timeout)
		}
		return ctx.Err()
	}
}
