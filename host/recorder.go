package host

import (
	"context"
	"fmt"
)

// Outcome is how a test ended on a Recorder
type Outcome string

const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Result is one executed test
type Result struct {
	Name    string
	Outcome Outcome
	Err     error
	Reason  string
}

// Recorder is an in-memory Host. It runs everything sequentially on the
// calling goroutine and records how each test ended.
type Recorder struct {
	registry
	Results  []Result
	AfterErr error
}

// NewRecorder returns an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

type recorderCase struct {
	name     string
	skipped  bool
	reason   string
	failures Failures
}

func (c *recorderCase) Name() string { return c.name }

func (c *recorderCase) Skip(reason string) {
	c.skipped = true
	c.reason = reason
}

func (c *recorderCase) OnFail(h FailHandler) Subscription { return c.failures.Subscribe(h) }

// Names lists the registered test names in order
func (r *Recorder) Names() []string {
	names := make([]string, len(r.tests))
	for i, test := range r.tests {
		names[i] = test.name
	}
	return names
}

// Run executes the suite. A failing before hook aborts it.
func (r *Recorder) Run(ctx context.Context) error {
	for _, fn := range r.before {
		if err := fn(ctx); err != nil {
			return fmt.Errorf("before all: %w", err)
		}
	}

	for _, test := range r.tests {
		r.Results = append(r.Results, r.runOne(ctx, test))
	}

	for _, fn := range r.after {
		if err := fn(ctx); err != nil && r.AfterErr == nil {
			r.AfterErr = fmt.Errorf("after all: %w", err)
		}
	}
	return r.AfterErr
}

func (r *Recorder) runOne(ctx context.Context, test registration) Result {
	tc := &recorderCase{name: test.name}
	defer tc.failures.Close()
	for _, fn := range r.beforeEach {
		fn(tc)
	}

	err := test.body(ctx, tc)
	if err != nil {
		err = tc.failures.Dispatch(err)
	}
	switch {
	case err != nil:
		return Result{Name: test.name, Outcome: OutcomeFailed, Err: err}
	case tc.skipped:
		return Result{Name: test.name, Outcome: OutcomeSkipped, Reason: tc.reason}
	default:
		return Result{Name: test.name, Outcome: OutcomePassed}
	}
}

// Outcomes returns outcome by test name
func (r *Recorder) Outcomes() map[string]Outcome {
	out := make(map[string]Outcome, len(r.Results))
	for _, res := range r.Results {
		out[res.Name] = res.Outcome
	}
	return out
}
