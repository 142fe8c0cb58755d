package scenario

import (
	"fmt"
	"strings"

	tagexpressions "github.com/cucumber/tag-expressions/go/v6"
)

// Selector decides whether a scenario with the given tags should run
type Selector func(tags []string) bool

// SelectAll runs every scenario
func SelectAll(tags []string) bool { return true }

// TagSelector builds a Selector from a cucumber tag expression such as
// "@smoke and not @wip". An empty expression selects everything.
func TagSelector(expr string) (Selector, error) {
	if strings.TrimSpace(expr) == "" {
		return SelectAll, nil
	}
	parsed, err := ParseTagExpression(expr)
	if err != nil {
		return nil, err
	}
	return parsed.Evaluate, nil
}

// ParseTagExpression parses a cucumber tag expression. The parser panics on
// some malformed input, e.g. a dangling operator; that is returned as an error.
func ParseTagExpression(expr string) (parsed tagexpressions.Evaluatable, err error) {
	defer func() {
		if r := recover(); r != nil {
			parsed, err = nil, fmt.Errorf("invalid tag expression %q: %v", expr, r)
		}
	}()

	parsed, err = tagexpressions.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid tag expression %q: %w", expr, err)
	}
	return parsed, nil
}
