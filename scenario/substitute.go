package scenario

import (
	"maps"
	"slices"
	"strings"
)

// SubstituteFunc replaces <key> placeholders in text with values from row
type SubstituteFunc func(row map[string]string, text string) string

// ReplaceParameterTags replaces every <key> in text with row[key]. Values are
// inserted literally and never substituted again. Keys are applied in sorted
// order so the result is deterministic when a value itself contains a
// placeholder.
func ReplaceParameterTags(row map[string]string, text string) string {
	for _, key := range slices.Sorted(maps.Keys(row)) {
		text = strings.ReplaceAll(text, "<"+key+">", row[key])
	}
	return text
}
