package features

import (
	"flag"
	"os"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"

	"github.com/thelinuxer/cypress-cucumber-preprocessor/features/steps"
)

var opts = godog.Options{
	Output: colors.Colored(os.Stdout),
	Format: "pretty",
	Paths:  []string{"."},
	Strict: true, // Fail if there are undefined or pending steps
}

func init() {
	godog.BindCommandLineFlags("godog.", &opts)
}

// TestMain runs the Godog test suite.
func TestMain(m *testing.M) {
	flag.Parse()
	if args := flag.Args(); len(args) > 0 {
		opts.Paths = args
	}

	status := godog.TestSuite{
		Name:                "cukejson",
		ScenarioInitializer: InitializeScenario,
		Options:             &opts,
	}.Run()

	if st := m.Run(); st > status {
		status = st
	}
	os.Exit(status)
}

// InitializeScenario registers step definitions for the scenarios.
// Every scenario gets its own context and work directory.
func InitializeScenario(ctx *godog.ScenarioContext) {
	stepsCtx := steps.NewSuiteTestContext()
	stepsCtx.RegisterSteps(ctx)
}
