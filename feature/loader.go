// Package feature loads .feature files into sections and steps
package feature

import (
	"fmt"
	"io"
	"os"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/shared"
)

// Load parses the feature file at path. The path becomes the feature uri.
func Load(path string) (*shared.Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feature: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads Gherkin source. Rules are flattened into their scenarios: the
// rule's tags are added to each scenario and the rule background is
// prepended to each scenario's own steps.
func Parse(r io.Reader, uri string) (*shared.Feature, error) {
	doc, err := gherkin.ParseGherkinDocument(r, (&messages.Incrementing{}).NewId)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", uri, err)
	}
	if doc.Feature == nil {
		return nil, fmt.Errorf("%s contains no feature", uri)
	}

	gf := doc.Feature
	feature := &shared.Feature{
		URI:         uri,
		Keyword:     gf.Keyword,
		Name:        gf.Name,
		Description: strings.TrimSpace(gf.Description),
		Tags:        tagNames(gf.Tags),
		Location:    location(gf.Location),
	}

	for _, child := range gf.Children {
		switch {
		case child.Background != nil:
			feature.Background = background(child.Background)
		case child.Scenario != nil:
			feature.Sections = append(feature.Sections, section(child.Scenario, nil, nil))
		case child.Rule != nil:
			var ruleBackground *shared.Section
			for _, rc := range child.Rule.Children {
				switch {
				case rc.Background != nil:
					ruleBackground = background(rc.Background)
				case rc.Scenario != nil:
					feature.Sections = append(feature.Sections,
						section(rc.Scenario, tagNames(child.Rule.Tags), ruleBackground))
				}
			}
		}
	}
	return feature, nil
}

func background(b *messages.Background) *shared.Section {
	loc := location(b.Location)
	return &shared.Section{
		Keyword:  b.Keyword,
		Name:     b.Name,
		Steps:    steps(b.Steps),
		Location: &loc,
	}
}

func section(sc *messages.Scenario, extraTags []string, ruleBackground *shared.Section) shared.Section {
	loc := location(sc.Location)
	out := shared.Section{
		Keyword:     sc.Keyword,
		Name:        sc.Name,
		Description: strings.TrimSpace(sc.Description),
		Tags:        append(extraTags, tagNames(sc.Tags)...),
		Location:    &loc,
	}
	if ruleBackground != nil {
		out.Steps = append(out.Steps, ruleBackground.Steps...)
	}
	out.Steps = append(out.Steps, steps(sc.Steps)...)

	for _, ex := range sc.Examples {
		block := shared.ExamplesBlock{
			Name: ex.Name,
			Tags: tagNames(ex.Tags),
		}
		if ex.TableHeader != nil {
			block.Header = cells(ex.TableHeader)
		}
		for _, row := range ex.TableBody {
			block.Body = append(block.Body, shared.TableRow{
				Cells:    cells(row),
				Location: location(row.Location),
			})
		}
		out.Examples = append(out.Examples, block)
	}
	return out
}

func steps(in []*messages.Step) []shared.Step {
	out := make([]shared.Step, 0, len(in))
	for _, s := range in {
		step := shared.Step{
			Keyword:  s.Keyword,
			Text:     s.Text,
			Location: location(s.Location),
		}
		if s.DocString != nil {
			step.DocString = &shared.DocString{
				Content:   s.DocString.Content,
				MediaType: s.DocString.MediaType,
				Location:  location(s.DocString.Location),
			}
		}
		if s.DataTable != nil {
			for _, row := range s.DataTable.Rows {
				step.DataTable = append(step.DataTable, cells(row))
			}
		}
		out = append(out, step)
	}
	return out
}

func cells(row *messages.TableRow) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.Value
	}
	return out
}

func tagNames(tags []*messages.Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Name
	}
	return out
}

func location(l *messages.Location) shared.Location {
	if l == nil {
		return shared.Location{}
	}
	return shared.Location{Line: int(l.Line), Column: int(l.Column)}
}
