package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagSelector(t *testing.T) {
	selector, err := TagSelector("@smoke and not @wip")
	require.NoError(t, err)
	assert.True(t, selector([]string{"@smoke"}))
	assert.False(t, selector([]string{"@smoke", "@wip"}))
	assert.False(t, selector(nil))

	all, err := TagSelector("  ")
	require.NoError(t, err)
	assert.True(t, all(nil))
}

func TestTagSelectorRejectsMalformedExpressions(t *testing.T) {
	for _, expr := range []string{"@a and", "@a or", "(@a"} {
		t.Run(expr, func(t *testing.T) {
			var err error
			assert.NotPanics(t, func() { _, err = TagSelector(expr) })
			assert.ErrorContains(t, err, "invalid tag expression")
		})
	}
}
