package shared

import "time"

// Status is the cucumber result status of a step or scenario
type Status string

const (
	StatusPending   Status = "pending"
	StatusPassed    Status = "passed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
	StatusUndefined Status = "undefined"
)

// Location points back into the feature file
type Location struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column,omitempty" yaml:"column,omitempty"`
}

// DocString is the multi-line argument of a step
type DocString struct {
	Content   string   `json:"value"`
	MediaType string   `json:"content_type,omitempty"`
	Location  Location `json:"-"`
}

// Step is an immutable step template. Placeholders such as <user> stay in Text
// until a row is substituted into a copy.
type Step struct {
	Keyword   string     `json:"keyword"`
	Text      string     `json:"text"`
	Location  Location   `json:"location"`
	DocString *DocString `json:"docString,omitempty"`
	DataTable [][]string `json:"dataTable,omitempty"`
}

// TableRow is one row of an Examples table
type TableRow struct {
	Cells    []string `json:"cells"`
	Location Location `json:"location"`
}

// ExamplesBlock parameterizes a Section. Every body row has len(Header) cells.
type ExamplesBlock struct {
	Name   string     `json:"name,omitempty"`
	Tags   []string   `json:"tags,omitempty"`
	Header []string   `json:"header"`
	Body   []TableRow `json:"body"`
}

// Section is a named scenario template. A Background is a Section without a name.
type Section struct {
	Keyword     string          `json:"keyword"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Steps       []Step          `json:"steps"`
	Tags        []string        `json:"tags,omitempty"`
	Examples    []ExamplesBlock `json:"examples,omitempty"`
	Location    *Location       `json:"location,omitempty"`
}

// Feature is an already parsed feature file
type Feature struct {
	URI         string    `json:"uri"`
	Keyword     string    `json:"keyword"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Location    Location  `json:"location"`
	Background  *Section  `json:"background,omitempty"`
	Sections    []Section `json:"sections"`
}

// IndexedStep is a concrete step with its zero-based position in the scenario
type IndexedStep struct {
	Step
	Index int `json:"index"`
}

// ConcreteScenario is a Section with one example row (or none) applied
type ConcreteScenario struct {
	Name      string            `json:"name"`
	Section   *Section          `json:"-"`
	Tags      []string          `json:"tags,omitempty"`
	Steps     []IndexedStep     `json:"steps"`
	Row       map[string]string `json:"row,omitempty"`
	Example   *Location         `json:"example,omitempty"`
	ShouldRun bool              `json:"shouldRun"`
}

// StepConfig is the execution configuration a step definition may carry
type StepConfig struct {
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Retries int           `json:"retries,omitempty" yaml:"retries,omitempty"`
}

// StepResult holds the recorded outcome of one step
type StepResult struct {
	Status   Status
	Duration time.Duration
	Error    error
}

// ScenarioRun is what the session recorded for one concrete scenario
type ScenarioRun struct {
	Scenario ConcreteScenario
	Steps    []IndexedStep
	Results  []StepResult
	Status   Status
	Finished bool
}
