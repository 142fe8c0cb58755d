// Package resolver matches step text to registered step definitions and runs
// tag filtered hooks.
package resolver

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	tagexpressions "github.com/cucumber/tag-expressions/go/v6"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/scenario"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/shared"
	"go.uber.org/zap"
)

// Call is what a step definition receives
type Call struct {
	Text      string
	Args      []string
	DocString *shared.DocString
	Table     [][]string
}

// StepFunc implements a step
type StepFunc func(ctx context.Context, call Call) error

// HookFunc implements a Before or After hook
type HookFunc func(ctx context.Context) error

type definition struct {
	expr    *regexp.Regexp
	fn      StepFunc
	feature string
	config  shared.StepConfig
}

type hook struct {
	expr    string
	filter  tagexpressions.Evaluatable
	feature string
	fn      HookFunc
}

// StepOption configures a step definition
type StepOption func(*definition)

// WithTimeout bounds how long the step may run
func WithTimeout(d time.Duration) StepOption {
	return func(def *definition) { def.config.Timeout = d }
}

// WithRetries reruns a failing step up to n more times
func WithRetries(n int) StepOption {
	return func(def *definition) { def.config.Retries = n }
}

// InFeature limits the definition to the named feature
func InFeature(name string) StepOption {
	return func(def *definition) { def.feature = name }
}

// Registry holds step definitions and hooks. It is filled before the suite
// runs and only read afterwards.
type Registry struct {
	steps  []*definition
	before []*hook
	after  []*hook
	logger *zap.Logger
}

var _ scenario.Resolver = (*Registry)(nil)

// New returns an empty registry
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{logger: logger}
}

// Step registers fn for step texts matching pattern. The pattern is anchored
// at both ends if it is not already.
func (r *Registry) Step(pattern string, fn StepFunc, opts ...StepOption) error {
	anchored := pattern
	if !strings.HasPrefix(anchored, "^") {
		anchored = "^" + anchored
	}
	if !strings.HasSuffix(anchored, "$") {
		anchored += "$"
	}
	expr, err := regexp.Compile(anchored)
	if err != nil {
		return fmt.Errorf("invalid step pattern %q: %w", pattern, err)
	}

	def := &definition{expr: expr, fn: fn}
	for _, opt := range opts {
		opt(def)
	}
	r.steps = append(r.steps, def)
	return nil
}

// Before registers a hook run before scenarios whose tags match tagExpr.
// An empty expression matches every scenario.
func (r *Registry) Before(tagExpr string, fn HookFunc, opts ...StepOption) error {
	h, err := newHook(tagExpr, fn, opts)
	if err != nil {
		return err
	}
	r.before = append(r.before, h)
	return nil
}

// After registers a hook run after scenarios whose tags match tagExpr
func (r *Registry) After(tagExpr string, fn HookFunc, opts ...StepOption) error {
	h, err := newHook(tagExpr, fn, opts)
	if err != nil {
		return err
	}
	r.after = append(r.after, h)
	return nil
}

func newHook(tagExpr string, fn HookFunc, opts []StepOption) (*hook, error) {
	h := &hook{expr: tagExpr, fn: fn}
	if strings.TrimSpace(tagExpr) != "" {
		filter, err := scenario.ParseTagExpression(tagExpr)
		if err != nil {
			return nil, fmt.Errorf("invalid hook: %w", err)
		}
		h.filter = filter
	}
	var def definition
	for _, opt := range opts {
		opt(&def)
	}
	h.feature = def.feature
	return h, nil
}

// Resolve finds the single definition matching text
func (r *Registry) Resolve(text, featureName string) (scenario.Definition, error) {
	def, _, err := r.match(text, featureName)
	if err != nil {
		return scenario.Definition{}, err
	}
	return scenario.Definition{Pattern: def.expr.String(), Config: def.config}, nil
}

func (r *Registry) match(text, featureName string) (*definition, []string, error) {
	var (
		found *definition
		args  []string
		count int
	)
	for _, def := range r.steps {
		if def.feature != "" && def.feature != featureName {
			continue
		}
		m := def.expr.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		count++
		if found == nil {
			found, args = def, m[1:]
		}
	}

	switch count {
	case 0:
		return nil, nil, fmt.Errorf("%w for: %s", shared.ErrUndefinedStep, text)
	case 1:
		return found, args, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q matched %d definitions", shared.ErrAmbiguousStep, text, count)
	}
}

// RunStep runs the definition for step. Doc string and data table arguments
// get the example row substituted first. A failing step is retried as often
// as its definition allows.
func (r *Registry) RunStep(ctx context.Context, step shared.Step, substitute scenario.SubstituteFunc, row map[string]string, featureName string) error {
	def, args, err := r.match(step.Text, featureName)
	if err != nil {
		return err
	}

	call := Call{Text: step.Text, Args: args}
	if step.DocString != nil {
		doc := *step.DocString
		doc.Content = substitute(row, doc.Content)
		call.DocString = &doc
	}
	for _, cells := range step.DataTable {
		out := make([]string, len(cells))
		for i, cell := range cells {
			out[i] = substitute(row, cell)
		}
		call.Table = append(call.Table, out)
	}

	for attempt := 0; ; attempt++ {
		err = def.fn(ctx, call)
		if err == nil || attempt >= def.config.Retries || ctx.Err() != nil {
			return err
		}
		r.logger.Warn("Retrying step", zap.String("step", step.Text), zap.Int("attempt", attempt+1), zap.Error(err))
	}
}

func (r *Registry) RunBeforeHooks(ctx context.Context, tags []string, featureName string) error {
	return r.runHooks(ctx, "before", r.before, tags, featureName)
}

func (r *Registry) RunAfterHooks(ctx context.Context, tags []string, featureName string) error {
	return r.runHooks(ctx, "after", r.after, tags, featureName)
}

func (r *Registry) runHooks(ctx context.Context, kind string, hooks []*hook, tags []string, featureName string) error {
	for i, h := range hooks {
		if h.feature != "" && h.feature != featureName {
			continue
		}
		if h.filter != nil && !h.filter.Evaluate(tags) {
			continue
		}
		if err := h.fn(ctx); err != nil {
			return fmt.Errorf("%s hook %d (%q) failed: %w", kind, i, h.expr, err)
		}
	}
	return nil
}
