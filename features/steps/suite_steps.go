// Package steps drives feature files through the scenario runner and checks
// what the session recorded and what the report contains.
package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/assert"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/config"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/feature"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/host"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/report"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/resolver"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/scenario"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/shared"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/state"
	"go.uber.org/zap"
)

// SuiteTestContext holds state across the steps of one scenario
type SuiteTestContext struct {
	dir      string
	logger   *zap.Logger
	cfg      config.Config
	uri      string
	feature  *shared.Feature
	registry *resolver.Registry
	session  *state.Collector
	recorder *host.Recorder
	suite    *scenario.Suite
	report   string
	calls    []string
}

// NewSuiteTestContext creates a new context for a scenario
func NewSuiteTestContext() *SuiteTestContext {
	return &SuiteTestContext{logger: zap.NewNop()}
}

// RegisterSteps connects Gherkin steps to Go functions
func (stc *SuiteTestContext) RegisterSteps(ctx *godog.ScenarioContext) {
	ctx.Before(stc.setUp)
	ctx.After(stc.tearDown)

	ctx.Step(`^the feature file "([^"]*)":$`, stc.theFeatureFile)
	ctx.Step(`^the tag expression "([^"]*)"$`, stc.theTagExpression)
	ctx.Step(`^report generation is disabled$`, stc.reportGenerationIsDisabled)
	ctx.Step(`^steps matching "([^"]*)" pass$`, stc.stepsMatchingPass)
	ctx.Step(`^steps matching "([^"]*)" fail with "([^"]*)"$`, stc.stepsMatchingFailWith)
	ctx.Step(`^a before hook for "([^"]*)" fails with "([^"]*)"$`, stc.aBeforeHookForFailsWith)
	ctx.Step(`^a screenshot "([^"]*)"$`, stc.aScreenshot)
	ctx.Step(`^a video "([^"]*)"$`, stc.aVideo)

	ctx.Step(`^I run the feature$`, stc.iRunTheFeature)
	ctx.Step(`^I embed the evidence into the report again$`, stc.iEmbedTheEvidenceIntoTheReportAgain)

	ctx.Step(`^the registered tests are:$`, stc.theRegisteredTestsAre)
	ctx.Step(`^the test "([^"]*)" is (passed|failed|skipped)$`, stc.theTestIs)
	ctx.Step(`^the step calls were:$`, stc.theStepCallsWere)
	ctx.Step(`^the step results of "([^"]*)" are "([^"]*)"$`, stc.theStepResultsOfAre)
	ctx.Step(`^the report "([^"]*)" is written$`, stc.theReportIsWritten)
	ctx.Step(`^no report is written$`, stc.noReportIsWritten)
	ctx.Step(`^in the report step (\d+) of "([^"]*)" has (\d+) embeddings?$`, stc.inTheReportStepOfHasEmbeddings)
	ctx.Step(`^in the report step (\d+) of "([^"]*)" has an error containing "([^"]*)"$`, stc.inTheReportStepOfHasAnErrorContaining)
}

func (stc *SuiteTestContext) setUp(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
	dir, err := os.MkdirTemp("", "cukejson-*")
	if err != nil {
		return ctx, fmt.Errorf("failed to create work dir: %w", err)
	}
	stc.dir = dir
	stc.cfg = config.Default()
	stc.cfg.Generate = true
	stc.cfg.OutputFolder = filepath.Join(dir, "cucumber-json")
	stc.cfg.ScreenshotsFolder = filepath.Join(dir, "screenshots")
	stc.cfg.VideosFolder = filepath.Join(dir, "videos")
	stc.registry = resolver.New(stc.logger)
	return ctx, nil
}

func (stc *SuiteTestContext) tearDown(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
	if stc.dir != "" {
		os.RemoveAll(stc.dir)
	}
	return ctx, nil
}

func (stc *SuiteTestContext) theFeatureFile(uri string, doc *godog.DocString) error {
	f, err := feature.Parse(strings.NewReader(doc.Content), uri)
	if err != nil {
		return err
	}
	stc.uri = uri
	stc.feature = f
	return nil
}

func (stc *SuiteTestContext) theTagExpression(expr string) error {
	stc.cfg.Tags = expr
	return nil
}

func (stc *SuiteTestContext) reportGenerationIsDisabled() error {
	stc.cfg.Generate = false
	return nil
}

func (stc *SuiteTestContext) record(_ context.Context, call resolver.Call) {
	stc.calls = append(stc.calls, call.Text)
}

func (stc *SuiteTestContext) stepsMatchingPass(pattern string) error {
	return stc.registry.Step(pattern, func(ctx context.Context, call resolver.Call) error {
		stc.record(ctx, call)
		return nil
	})
}

func (stc *SuiteTestContext) stepsMatchingFailWith(pattern, message string) error {
	return stc.registry.Step(pattern, func(ctx context.Context, call resolver.Call) error {
		stc.record(ctx, call)
		return fmt.Errorf("%s", message)
	})
}

func (stc *SuiteTestContext) aBeforeHookForFailsWith(tagExpr, message string) error {
	return stc.registry.Before(tagExpr, func(context.Context) error {
		return fmt.Errorf("%s", message)
	})
}

func (stc *SuiteTestContext) evidenceFolder(root string) (string, error) {
	if stc.uri == "" {
		return "", fmt.Errorf("no feature file given yet")
	}
	tree := []report.Feature{{URI: stc.uri}}
	return filepath.Join(root, report.FeatureFolder(tree, stc.cfg.IntegrationFolder)), nil
}

func (stc *SuiteTestContext) writeEvidence(root, name string) error {
	folder, err := stc.evidenceFolder(root)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(folder, name), []byte("evidence of "+name), 0o644)
}

func (stc *SuiteTestContext) aScreenshot(name string) error {
	return stc.writeEvidence(stc.cfg.ScreenshotsFolder, name)
}

func (stc *SuiteTestContext) aVideo(name string) error {
	return stc.writeEvidence(stc.cfg.VideosFolder, name)
}

func (stc *SuiteTestContext) iRunTheFeature(ctx context.Context) error {
	if stc.feature == nil {
		return fmt.Errorf("no feature file given yet")
	}
	stc.session = state.NewCollector(stc.feature, stc.logger)
	stc.recorder = host.NewRecorder()

	suite, err := scenario.NewSuite(stc.feature, stc.registry, stc.session,
		scenario.WithConfig(stc.cfg), scenario.WithLogger(stc.logger))
	if err != nil {
		return err
	}
	stc.suite = suite
	suite.Register(stc.recorder)

	if err := stc.recorder.Run(ctx); err != nil {
		return fmt.Errorf("suite run failed: %w", err)
	}
	stc.report = report.OutputPath(stc.cfg, report.Generate(stc.session))
	return nil
}

func (stc *SuiteTestContext) iEmbedTheEvidenceIntoTheReportAgain() error {
	tree, err := report.ReadFile(stc.report)
	if err != nil {
		return err
	}
	folder := report.FeatureFolder(tree, stc.cfg.IntegrationFolder)
	if _, err := report.NewEmbedder(stc.cfg, stc.logger).Embed(tree, folder); err != nil {
		return err
	}
	return report.WriteFile(stc.report, tree)
}

func (stc *SuiteTestContext) theRegisteredTestsAre(table *godog.Table) error {
	var want []string
	for _, row := range table.Rows {
		want = append(want, row.Cells[0].Value)
	}
	return assertExpectedAndActual(assert.Equal, want, stc.recorder.Names(), "registered tests")
}

func (stc *SuiteTestContext) theTestIs(name, outcome string) error {
	got, ok := stc.recorder.Outcomes()[name]
	if !ok {
		return fmt.Errorf("test %q did not run; ran %v", name, stc.recorder.Names())
	}
	if string(got) != outcome {
		return fmt.Errorf("test %q is %s, expected %s", name, got, outcome)
	}
	return nil
}

func (stc *SuiteTestContext) theStepCallsWere(table *godog.Table) error {
	var want []string
	for _, row := range table.Rows {
		want = append(want, row.Cells[0].Value)
	}
	return assertExpectedAndActual(assert.Equal, want, stc.calls, "step calls")
}

func (stc *SuiteTestContext) run(name string) (shared.ScenarioRun, error) {
	for _, run := range stc.session.Runs() {
		if run.Scenario.Name == name {
			return run, nil
		}
	}
	return shared.ScenarioRun{}, fmt.Errorf("no scenario %q was recorded", name)
}

// theStepResultsOfAre compares a comma separated status list, e.g.
// "passed, failed, skipped".
func (stc *SuiteTestContext) theStepResultsOfAre(name, statuses string) error {
	run, err := stc.run(name)
	if err != nil {
		return err
	}
	want := strings.Split(statuses, ",")
	for i := range want {
		want[i] = strings.TrimSpace(want[i])
	}
	got := make([]string, len(run.Results))
	for i, res := range run.Results {
		got[i] = string(res.Status)
	}
	return assertExpectedAndActual(assert.Equal, want, got, "step results of "+name)
}

func (stc *SuiteTestContext) theReportIsWritten(rel string) error {
	want := filepath.Join(stc.cfg.OutputFolder, rel)
	if stc.report != want {
		return fmt.Errorf("report path is %s, expected %s", stc.report, want)
	}
	_, err := report.ReadFile(want)
	return err
}

func (stc *SuiteTestContext) noReportIsWritten() error {
	if _, err := os.Stat(stc.cfg.OutputFolder); !os.IsNotExist(err) {
		return fmt.Errorf("expected no output folder, stat returned %v", err)
	}
	return nil
}

func (stc *SuiteTestContext) reportStep(index int, name string) (report.Step, error) {
	tree, err := report.ReadFile(stc.report)
	if err != nil {
		return report.Step{}, err
	}
	for _, f := range tree {
		for _, el := range f.Elements {
			if el.Name != name {
				continue
			}
			if index < 0 || index >= len(el.Steps) {
				return report.Step{}, fmt.Errorf("%q has %d steps", name, len(el.Steps))
			}
			return el.Steps[index], nil
		}
	}
	return report.Step{}, fmt.Errorf("no element %q in the report", name)
}

func (stc *SuiteTestContext) inTheReportStepOfHasEmbeddings(index int, name string, count int) error {
	step, err := stc.reportStep(index, name)
	if err != nil {
		return err
	}
	return assertExpectedAndActual(assert.Equal, count, len(step.Embeddings), fmt.Sprintf("embeddings of step %d of %q", index, name))
}

func (stc *SuiteTestContext) inTheReportStepOfHasAnErrorContaining(index int, name, text string) error {
	step, err := stc.reportStep(index, name)
	if err != nil {
		return err
	}
	return assertExpectedAndActual(assert.Contains, step.Result.Error, text)
}
