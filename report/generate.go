package report

import (
	"strings"

	"github.com/thelinuxer/cypress-cucumber-preprocessor/shared"
)

// Source exposes what the session recorded
type Source interface {
	Feature() *shared.Feature
	Runs() []shared.ScenarioRun
}

// Generate assembles the cucumber json tree from src. Elements keep the order
// scenarios were started in. An empty feature yields an empty tree.
func Generate(src Source) []Feature {
	f := src.Feature()
	if f == nil {
		return []Feature{}
	}

	feature := Feature{
		URI:         f.URI,
		ID:          cukeID(f.Name),
		Keyword:     f.Keyword,
		Name:        f.Name,
		Description: f.Description,
		Line:        f.Location.Line,
		Tags:        tags(f.Tags),
	}
	for _, run := range src.Runs() {
		feature.Elements = append(feature.Elements, element(feature.ID, run))
	}
	return []Feature{feature}
}

func element(featureID string, run shared.ScenarioRun) Element {
	sc := run.Scenario
	el := Element{
		ID:      featureID + ";" + cukeID(sc.Name),
		Keyword: "Scenario",
		Name:    sc.Name,
		Type:    "scenario",
		Tags:    tags(sc.Tags),
	}
	if sc.Section != nil {
		if sc.Section.Keyword != "" {
			el.Keyword = sc.Section.Keyword
		}
		el.Description = sc.Section.Description
		if sc.Section.Location != nil {
			el.Line = sc.Section.Location.Line
		}
	}
	if sc.Example != nil {
		el.Line = sc.Example.Line
	}

	for i, step := range run.Steps {
		var res shared.StepResult
		if i < len(run.Results) {
			res = run.Results[i]
		}
		el.Steps = append(el.Steps, reportStep(step, res))
	}
	return el
}

func reportStep(step shared.IndexedStep, res shared.StepResult) Step {
	out := Step{
		Keyword: step.Keyword,
		Name:    step.Text,
		Line:    step.Location.Line,
		Result:  Result{Status: string(res.Status)},
	}
	if out.Result.Status == "" {
		out.Result.Status = string(shared.StatusPending)
	}
	if res.Status == shared.StatusPassed || res.Status == shared.StatusFailed {
		d := res.Duration.Nanoseconds()
		out.Result.Duration = &d
	}
	if res.Error != nil {
		out.Result.Error = res.Error.Error()
	}
	if step.DocString != nil {
		out.DocString = &DocString{
			Value:       step.DocString.Content,
			ContentType: step.DocString.MediaType,
			Line:        step.DocString.Location.Line,
		}
	}
	for _, row := range step.DataTable {
		out.Rows = append(out.Rows, Row{Cells: row})
	}
	return out
}

func tags(names []string) []Tag {
	if len(names) == 0 {
		return nil
	}
	out := make([]Tag, len(names))
	for i, name := range names {
		out[i] = Tag{Name: name}
	}
	return out
}

func cukeID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
