package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/shared"
)

func TestSuiteMetricsSnapshotIsDetached(t *testing.T) {
	m := NewSuiteMetrics()
	m.RecordScenario(shared.StatusPassed)
	m.RecordStep("a#0", shared.StepResult{Status: shared.StatusPassed, Duration: 2 * time.Millisecond})

	snapshot := m.GetSnapshot()
	m.RecordScenario(shared.StatusFailed)
	m.RecordStep("b#0", shared.StepResult{Status: shared.StatusFailed, Duration: 4 * time.Millisecond})

	assert.Equal(t, 1, snapshot.TotalScenarios)
	assert.Equal(t, 0, snapshot.FailedScenarios)
	assert.Equal(t, map[shared.Status]int{shared.StatusPassed: 1}, snapshot.StepStatuses)
	assert.Equal(t, map[string]time.Duration{"a#0": 2 * time.Millisecond}, snapshot.StepDurations)

	assert.Equal(t, 2, m.GetSnapshot().TotalScenarios)
	assert.Equal(t, 3*time.Millisecond, m.GetAverageStepTime())
}
