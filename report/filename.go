package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoMatch means an evidence file could not be tied to a report step
var ErrNoMatch = errors.New("no matching report step")

const titleSeparator = " -- "

var (
	attemptSuffix = regexp.MustCompile(` \(attempt (\d+)\)$`)
	failedSuffix  = regexp.MustCompile(` \(failed\)$`)
)

// ScreenshotName is a decoded screenshot file name of the form
// "<describe> -- <scenario>[ (failed)][ (attempt N)].png"
type ScreenshotName struct {
	Describe string
	Scenario string
	Failed   bool
	Attempt  int
}

// ParseScreenshotName decodes file. Names without the title separator or
// without a scenario title return ErrNoMatch.
func ParseScreenshotName(file string) (ScreenshotName, error) {
	base := filepath.Base(file)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	describe, title, ok := strings.Cut(base, titleSeparator)
	if !ok {
		return ScreenshotName{}, fmt.Errorf("%w: %q has no %q separator", ErrNoMatch, file, strings.TrimSpace(titleSeparator))
	}

	name := ScreenshotName{Describe: describe}
	if m := attemptSuffix.FindStringSubmatch(title); m != nil {
		name.Attempt, _ = strconv.Atoi(m[1])
		title = strings.TrimSuffix(title, m[0])
	}
	if failedSuffix.MatchString(title) {
		name.Failed = true
		title = failedSuffix.ReplaceAllString(title, "")
	}
	if title == "" {
		return ScreenshotName{}, fmt.Errorf("%w: %q has no scenario title", ErrNoMatch, file)
	}
	name.Scenario = title
	return name, nil
}
