package scenario

import (
	"fmt"

	"github.com/thelinuxer/cypress-cucumber-preprocessor/shared"
)

// Materializer expands sections into concrete scenarios
type Materializer struct {
	background  *shared.Section
	featureTags []string
	selector    Selector
}

// NewMaterializer prepares a materializer for the sections of feature
func NewMaterializer(feature *shared.Feature, selector Selector) *Materializer {
	if selector == nil {
		selector = SelectAll
	}
	return &Materializer{
		background:  feature.Background,
		featureTags: feature.Tags,
		selector:    selector,
	}
}

// MaterializeAll expands every section of feature in declaration order
func (m *Materializer) MaterializeAll(sections []shared.Section) []shared.ConcreteScenario {
	var out []shared.ConcreteScenario
	for i := range sections {
		out = append(out, m.Materialize(&sections[i])...)
	}
	return out
}

// Materialize expands one section. Without examples it yields exactly one
// scenario; with examples one per body row, in table order.
func (m *Materializer) Materialize(section *shared.Section) []shared.ConcreteScenario {
	if len(section.Examples) == 0 {
		tags := m.tags(section, nil)
		return []shared.ConcreteScenario{{
			Name:      section.Name,
			Section:   section,
			Tags:      tags,
			Steps:     m.withBackground(section.Steps),
			ShouldRun: m.selector(tags),
		}}
	}

	var out []shared.ConcreteScenario
	for b := range section.Examples {
		block := &section.Examples[b]
		tags := m.tags(section, block)
		shouldRun := m.selector(tags)
		for i, row := range rowMappings(block) {
			steps := make([]shared.Step, len(section.Steps))
			for s, step := range section.Steps {
				steps[s] = step
				steps[s].Text = ReplaceParameterTags(row, step.Text)
			}
			location := block.Body[i].Location
			out = append(out, shared.ConcreteScenario{
				Name:      fmt.Sprintf("%s (example #%d)", ReplaceParameterTags(row, section.Name), i+1),
				Section:   section,
				Tags:      tags,
				Steps:     m.withBackground(steps),
				Row:       row,
				Example:   &location,
				ShouldRun: shouldRun,
			})
		}
	}
	return out
}

// withBackground prepends the background steps verbatim and indexes from 0
func (m *Materializer) withBackground(steps []shared.Step) []shared.IndexedStep {
	var all []shared.Step
	if m.background != nil {
		all = append(all, m.background.Steps...)
	}
	all = append(all, steps...)

	indexed := make([]shared.IndexedStep, len(all))
	for i, step := range all {
		indexed[i] = shared.IndexedStep{Step: step, Index: i}
	}
	return indexed
}

func (m *Materializer) tags(section *shared.Section, block *shared.ExamplesBlock) []string {
	tags := make([]string, 0, len(m.featureTags)+len(section.Tags))
	tags = append(tags, m.featureTags...)
	tags = append(tags, section.Tags...)
	if block != nil {
		tags = append(tags, block.Tags...)
	}
	return tags
}

// rowMappings aligns each body row with the header by column index
func rowMappings(block *shared.ExamplesBlock) []map[string]string {
	rows := make([]map[string]string, len(block.Body))
	for r, row := range block.Body {
		mapping := make(map[string]string, len(block.Header))
		for c, name := range block.Header {
			if c < len(row.Cells) {
				mapping[name] = row.Cells[c]
			}
		}
		rows[r] = mapping
	}
	return rows
}
