package host

import (
	"context"
	"testing"
)

// Testing runs a registered suite as subtests of a *testing.T
type Testing struct {
	registry
	t *testing.T
}

// NewTesting returns a Host backed by t. Call Run once everything is registered.
func NewTesting(t *testing.T) *Testing {
	return &Testing{t: t}
}

type testingCase struct {
	t        *testing.T
	failures Failures
}

func (c *testingCase) Name() string { return c.t.Name() }

func (c *testingCase) Skip(reason string) { c.t.Skip(reason) }

func (c *testingCase) OnFail(h FailHandler) Subscription { return c.failures.Subscribe(h) }

// Run executes before hooks, every test as a subtest, then after hooks.
// After hooks run even when tests failed.
func (h *Testing) Run() {
	h.t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, fn := range h.before {
		if err := fn(ctx); err != nil {
			h.t.Fatalf("before all: %v", err)
		}
	}

	for _, test := range h.tests {
		test := test
		h.t.Run(test.name, func(t *testing.T) {
			tc := &testingCase{t: t}
			t.Cleanup(tc.failures.Close)
			for _, fn := range h.beforeEach {
				fn(tc)
			}

			testCtx, cancelTest := context.WithCancel(ctx)
			defer cancelTest()
			if err := test.body(testCtx, tc); err != nil {
				if err = tc.failures.Dispatch(err); err != nil {
					t.Fatal(err)
				}
			}
		})
	}

	for _, fn := range h.after {
		if err := fn(ctx); err != nil {
			h.t.Errorf("after all: %v", err)
		}
	}
}
