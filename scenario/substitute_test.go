package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceParameterTags(t *testing.T) {
	tests := []struct {
		name string
		row  map[string]string
		text string
		want string
	}{
		{"single", map[string]string{"user": "alice"}, "I login as <user>", "I login as alice"},
		{"repeated", map[string]string{"n": "3"}, "<n> plus <n>", "3 plus 3"},
		{"several keys", map[string]string{"a": "1", "b": "2"}, "<a>-<b>-<c>", "1-2-<c>"},
		{"no row", nil, "keep <this>", "keep <this>"},
		{"regex characters in key", map[string]string{"a.b": "x"}, "<a.b> <aXb>", "x <aXb>"},
		{"value inserted literally", map[string]string{"price": "$1"}, "costs <price>", "costs $1"},
		{"no nested substitution", map[string]string{"a": "<a>"}, "<a>", "<a>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceParameterTags(tt.row, tt.text))
		})
	}
}

func TestReplaceParameterTagsLeavesNoKnownPlaceholders(t *testing.T) {
	row := map[string]string{"user": "bob", "password": "secret", "page": "home"}
	text := "<user> logs in with <password> on <page> as <user>"
	got := ReplaceParameterTags(row, text)
	for key := range row {
		assert.NotContains(t, got, "<"+key+">")
	}
	assert.Equal(t, "bob logs in with secret on home as bob", got)
}
