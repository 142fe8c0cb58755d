package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/stretchr/testify/mock"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/shared"
)

// recordingSession logs every lifecycle call as a string
type recordingSession struct {
	events []string
}

func (s *recordingSession) OnStartTest()  { s.events = append(s.events, "startTest") }
func (s *recordingSession) OnFinishTest() { s.events = append(s.events, "finishTest") }
func (s *recordingSession) OnStartScenario(sc *shared.ConcreteScenario, steps []shared.IndexedStep) {
	s.events = append(s.events, fmt.Sprintf("startScenario %s (%d steps)", sc.Name, len(steps)))
}
func (s *recordingSession) OnFinishScenario(sc *shared.ConcreteScenario) {
	s.events = append(s.events, "finishScenario "+sc.Name)
}
func (s *recordingSession) OnStartStep(step shared.IndexedStep) {
	s.events = append(s.events, fmt.Sprintf("startStep %d %s", step.Index, step.Text))
}
func (s *recordingSession) OnFinishStep(step shared.IndexedStep, status shared.Status) {
	s.events = append(s.events, fmt.Sprintf("finishStep %d %s", step.Index, status))
}
func (s *recordingSession) OnFail(err error) {
	s.events = append(s.events, "fail "+err.Error())
}

// fakeResolver resolves every step unless its text is listed as undefined,
// and fails steps whose text contains "fail".
type fakeResolver struct {
	events    []string
	undefined map[string]bool
	config    shared.StepConfig
	run       func(ctx context.Context, step shared.Step) error
	beforeErr error
}

func (r *fakeResolver) Resolve(text, featureName string) (Definition, error) {
	if r.undefined[text] {
		return Definition{}, fmt.Errorf("%w for: %s", shared.ErrUndefinedStep, text)
	}
	return Definition{Pattern: text, Config: r.config}, nil
}

func (r *fakeResolver) RunStep(ctx context.Context, step shared.Step, substitute SubstituteFunc, row map[string]string, featureName string) error {
	r.events = append(r.events, "run "+step.Text)
	if r.run != nil {
		return r.run(ctx, step)
	}
	if strings.Contains(step.Text, "fail") {
		return fmt.Errorf("%s went wrong", step.Text)
	}
	return nil
}

func (r *fakeResolver) RunBeforeHooks(ctx context.Context, tags []string, featureName string) error {
	r.events = append(r.events, "before "+strings.Join(tags, ","))
	return r.beforeErr
}

func (r *fakeResolver) RunAfterHooks(ctx context.Context, tags []string, featureName string) error {
	r.events = append(r.events, "after "+strings.Join(tags, ","))
	return nil
}

// mockResolver is a testify mock for call-level expectations
type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(text, featureName string) (Definition, error) {
	args := m.Called(text, featureName)
	return args.Get(0).(Definition), args.Error(1)
}

func (m *mockResolver) RunStep(ctx context.Context, step shared.Step, substitute SubstituteFunc, row map[string]string, featureName string) error {
	return m.Called(ctx, step, row, featureName).Error(0)
}

func (m *mockResolver) RunBeforeHooks(ctx context.Context, tags []string, featureName string) error {
	return m.Called(ctx, tags, featureName).Error(0)
}

func (m *mockResolver) RunAfterHooks(ctx context.Context, tags []string, featureName string) error {
	return m.Called(ctx, tags, featureName).Error(0)
}

func steps(texts ...string) []shared.Step {
	out := make([]shared.Step, len(texts))
	for i, text := range texts {
		out[i] = shared.Step{Keyword: "Given ", Text: text, Location: shared.Location{Line: i + 1}}
	}
	return out
}

func stepTexts(in []shared.IndexedStep) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = s.Text
	}
	return out
}
