package scenario

import (
	"context"

	"github.com/thelinuxer/cypress-cucumber-preprocessor/host"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/shared"
	"go.uber.org/zap"
)

// Runner registers concrete scenarios as host test cases
type Runner struct {
	host     host.Host
	session  Session
	resolver Resolver
	executor *Executor
	feature  string
	logger   *zap.Logger
}

// NewRunner creates a runner registering into h
func NewRunner(h host.Host, session Session, resolver Resolver, feature string, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		host:     h,
		session:  session,
		resolver: resolver,
		executor: NewExecutor(resolver, session, feature, logger),
		feature:  feature,
		logger:   logger,
	}
}

// Register adds sc to the host. Scenarios that should not run are still
// started and finished on the session so they show up in the report, and are
// then skipped.
func (r *Runner) Register(sc shared.ConcreteScenario) {
	if !sc.ShouldRun {
		r.host.It(sc.Name, func(_ context.Context, tc host.TestCase) error {
			r.session.OnStartScenario(&sc, sc.Steps)
			r.session.OnFinishScenario(&sc)
			r.logger.Info("Scenario skipped", zap.String("scenario", sc.Name))
			tc.Skip("scenario not selected by tags")
			return nil
		})
		return
	}

	r.host.It(sc.Name, func(ctx context.Context, _ host.TestCase) error {
		r.logger.Info("Scenario started", zap.String("scenario", sc.Name), zap.Int("steps", len(sc.Steps)))
		return r.pipeline(&sc).Run(ctx)
	})
}

// pipeline queues start, before hooks, every step in index order, after hooks
// and finish. A failure anywhere stops the rest of the queue.
func (r *Runner) pipeline(sc *shared.ConcreteScenario) *Pipeline {
	p := NewPipeline().
		Then(func(context.Context) error {
			r.session.OnStartScenario(sc, sc.Steps)
			return nil
		}).
		Then(func(ctx context.Context) error {
			return r.resolver.RunBeforeHooks(ctx, sc.Tags, r.feature)
		})

	for _, step := range sc.Steps {
		step := step
		p.Then(func(ctx context.Context) error {
			return r.executor.Run(ctx, step, sc.Row)
		})
	}

	return p.
		Then(func(ctx context.Context) error {
			return r.resolver.RunAfterHooks(ctx, sc.Tags, r.feature)
		}).
		Then(func(context.Context) error {
			r.session.OnFinishScenario(sc)
			r.logger.Info("Scenario finished", zap.String("scenario", sc.Name))
			return nil
		})
}
