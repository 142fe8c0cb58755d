package scenario

import (
	"context"

	"github.com/thelinuxer/cypress-cucumber-preprocessor/shared"
)

// Definition is a resolved step definition
type Definition struct {
	Pattern string
	Config  shared.StepConfig
}

// Resolver finds and runs step definitions and hooks
type Resolver interface {
	Resolve(text, featureName string) (Definition, error)
	RunStep(ctx context.Context, step shared.Step, substitute SubstituteFunc, row map[string]string, featureName string) error
	RunBeforeHooks(ctx context.Context, tags []string, featureName string) error
	RunAfterHooks(ctx context.Context, tags []string, featureName string) error
}

// Session receives lifecycle notifications in the order scenarios and steps
// execute.
type Session interface {
	OnStartTest()
	OnFinishTest()
	OnStartScenario(scenario *shared.ConcreteScenario, steps []shared.IndexedStep)
	OnFinishScenario(scenario *shared.ConcreteScenario)
	OnStartStep(step shared.IndexedStep)
	OnFinishStep(step shared.IndexedStep, status shared.Status)
	OnFail(err error)
}
