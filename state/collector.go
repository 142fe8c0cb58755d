// Package state records what happens during a suite run so the cucumber json
// report can be assembled from it.
package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/shared"
	"go.uber.org/zap"
)

// Collector is the session state of one feature run. It is written by the
// lifecycle callbacks and read by the report assembler. Scenarios are kept
// in the order they were started.
//
// Collector is not safe for concurrent use; a suite runs one step at a time.
type Collector struct {
	feature *shared.Feature
	runID   string
	logger  *zap.Logger
	metrics *SuiteMetrics
	now     func() time.Time

	runs        []*shared.ScenarioRun
	byName      map[string]*shared.ScenarioRun
	current     *shared.ScenarioRun
	currentStep int
	stepStarted time.Time
	testError   error
}

// NewCollector creates the session state for feature
func NewCollector(feature *shared.Feature, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.NewString()
	return &Collector{
		feature: feature,
		runID:   runID,
		logger:  logger.With(zap.String("runID", runID), zap.String("feature", feature.Name)),
		metrics: NewSuiteMetrics(),
		now:     time.Now,
		byName:  make(map[string]*shared.ScenarioRun),
	}
}

// RunID identifies this run in logs
func (c *Collector) RunID() string { return c.runID }

// Metrics returns the suite metrics
func (c *Collector) Metrics() *SuiteMetrics { return c.metrics }

// Feature implements report.Source
func (c *Collector) Feature() *shared.Feature { return c.feature }

// Runs implements report.Source. The returned runs are copies.
func (c *Collector) Runs() []shared.ScenarioRun {
	out := make([]shared.ScenarioRun, len(c.runs))
	for i, run := range c.runs {
		out[i] = *run
		out[i].Results = append([]shared.StepResult(nil), run.Results...)
	}
	return out
}

// Err is the last failure seen by OnFail
func (c *Collector) Err() error { return c.testError }

func (c *Collector) OnStartTest() {
	c.metrics = NewSuiteMetrics()
	c.logger.Info("Test run started")
}

func (c *Collector) OnFinishTest() {
	c.metrics.FinishExecution()
	c.metrics.LogMetrics(c.logger)
}

// OnStartScenario seeds every step as pending. Starting a scenario name that
// was seen before replaces its results in place.
func (c *Collector) OnStartScenario(sc *shared.ConcreteScenario, steps []shared.IndexedStep) {
	run, ok := c.byName[sc.Name]
	if !ok {
		run = &shared.ScenarioRun{}
		c.byName[sc.Name] = run
		c.runs = append(c.runs, run)
	}

	run.Scenario = *sc
	run.Steps = steps
	run.Results = make([]shared.StepResult, len(steps))
	for i := range run.Results {
		run.Results[i] = shared.StepResult{Status: shared.StatusPending}
	}
	run.Status = shared.StatusPending
	run.Finished = false

	c.current = run
	c.currentStep = 0
	c.stepStarted = time.Time{}
	c.testError = nil
	c.logger.Debug("Scenario started", zap.String("scenario", sc.Name))
}

func (c *Collector) OnStartStep(step shared.IndexedStep) {
	if c.current == nil {
		return
	}
	c.currentStep = step.Index
	c.setResult(step.Index, shared.StepResult{Status: shared.StatusPending})
	c.stepStarted = c.now()
}

func (c *Collector) OnFinishStep(step shared.IndexedStep, status shared.Status) {
	if c.current == nil {
		return
	}
	c.setResult(step.Index, shared.StepResult{Status: status, Duration: c.timeTaken()})
}

// OnFail records err against the failing step and finishes the scenario.
// Resolution failures are recorded as undefined.
func (c *Collector) OnFail(err error) {
	c.testError = err
	if c.current == nil {
		c.logger.Error("Failure outside of a scenario", zap.Error(err))
		return
	}

	index := c.currentStep
	var stepErr *shared.StepError
	if errors.As(err, &stepErr) {
		index = stepErr.Step.Index
	}

	if errors.Is(err, shared.ErrUndefinedStep) {
		c.setResult(index, shared.StepResult{Status: shared.StatusUndefined, Error: err})
	} else {
		c.setResult(index, shared.StepResult{Status: shared.StatusFailed, Duration: c.timeTaken(), Error: err})
	}
	c.logger.Error("Scenario failed", zap.String("scenario", c.current.Scenario.Name), zap.Int("index", index), zap.Error(err))
	c.OnFinishScenario(&c.current.Scenario)
}

// OnFinishScenario turns still pending steps into skipped and records the
// scenario status. Calling it again for a finished scenario does nothing.
func (c *Collector) OnFinishScenario(sc *shared.ConcreteScenario) {
	run, ok := c.byName[sc.Name]
	if !ok || run.Finished {
		return
	}

	allSkipped, anyFailed := true, false
	for i := range run.Results {
		res := &run.Results[i]
		if res.Status == shared.StatusPending {
			res.Status = shared.StatusSkipped
		}
		switch res.Status {
		case shared.StatusSkipped:
		case shared.StatusFailed, shared.StatusUndefined:
			anyFailed = true
			allSkipped = false
		default:
			allSkipped = false
		}
		c.metrics.RecordStep(fmt.Sprintf("%s#%d", sc.Name, i), *res)
	}

	switch {
	case allSkipped:
		run.Status = shared.StatusSkipped
	case anyFailed:
		run.Status = shared.StatusFailed
	default:
		run.Status = shared.StatusPassed
	}
	run.Finished = true
	c.metrics.RecordScenario(run.Status)
	c.logger.Debug("Scenario finished", zap.String("scenario", sc.Name), zap.String("status", string(run.Status)))
}

func (c *Collector) setResult(index int, res shared.StepResult) {
	if index < 0 || index >= len(c.current.Results) {
		c.logger.Warn("Step index out of range", zap.Int("index", index), zap.Int("steps", len(c.current.Results)))
		return
	}
	c.current.Results[index] = res
}

func (c *Collector) timeTaken() time.Duration {
	if c.stepStarted.IsZero() {
		return 0
	}
	return c.now().Sub(c.stepStarted)
}
