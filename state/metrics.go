package state

import (
	"sync"
	"time"

	"github.com/thelinuxer/cypress-cucumber-preprocessor/shared"
	"go.uber.org/zap"
)

// SuiteMetrics counts scenario and step outcomes of one suite run
type SuiteMetrics struct {
	TotalScenarios   int
	PassedScenarios  int
	FailedScenarios  int
	SkippedScenarios int
	StepStatuses     map[shared.Status]int
	StepDurations    map[string]time.Duration
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
	mu               sync.RWMutex
}

// NewSuiteMetrics creates a new metrics instance
func NewSuiteMetrics() *SuiteMetrics {
	return &SuiteMetrics{
		StartTime:     time.Now(),
		StepStatuses:  make(map[shared.Status]int),
		StepDurations: make(map[string]time.Duration),
	}
}

// RecordScenario records a finished scenario
func (m *SuiteMetrics) RecordScenario(status shared.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalScenarios++
	switch status {
	case shared.StatusPassed:
		m.PassedScenarios++
	case shared.StatusSkipped:
		m.SkippedScenarios++
	default:
		m.FailedScenarios++
	}
}

// RecordStep records the final result of one step
func (m *SuiteMetrics) RecordStep(key string, res shared.StepResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StepStatuses[res.Status]++
	if res.Duration > 0 {
		m.StepDurations[key] = res.Duration
	}
}

// FinishExecution marks the suite as finished
func (m *SuiteMetrics) FinishExecution() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
}

// MetricsSnapshot is a point in time copy of SuiteMetrics
type MetricsSnapshot struct {
	TotalScenarios   int
	PassedScenarios  int
	FailedScenarios  int
	SkippedScenarios int
	StepStatuses     map[shared.Status]int
	StepDurations    map[string]time.Duration
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

// GetSnapshot returns a copy of the current metrics
func (m *SuiteMetrics) GetSnapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		TotalScenarios:   m.TotalScenarios,
		PassedScenarios:  m.PassedScenarios,
		FailedScenarios:  m.FailedScenarios,
		SkippedScenarios: m.SkippedScenarios,
		StepStatuses:     make(map[shared.Status]int, len(m.StepStatuses)),
		StepDurations:    make(map[string]time.Duration, len(m.StepDurations)),
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		Duration:         m.Duration,
	}
	for k, v := range m.StepStatuses {
		snapshot.StepStatuses[k] = v
	}
	for k, v := range m.StepDurations {
		snapshot.StepDurations[k] = v
	}
	return snapshot
}

// GetAverageStepTime returns the average duration of timed steps
func (m *SuiteMetrics) GetAverageStepTime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.StepDurations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range m.StepDurations {
		total += d
	}
	return total / time.Duration(len(m.StepDurations))
}

// LogMetrics logs the current counts
func (m *SuiteMetrics) LogMetrics(logger *zap.Logger) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fields := []zap.Field{
		zap.Int("scenarios", m.TotalScenarios),
		zap.Int("passed", m.PassedScenarios),
		zap.Int("failed", m.FailedScenarios),
		zap.Int("skipped", m.SkippedScenarios),
		zap.Duration("duration", m.Duration),
	}
	for status, n := range m.StepStatuses {
		fields = append(fields, zap.Int("steps."+string(status), n))
	}

	if m.FailedScenarios > 0 {
		logger.Warn("Suite metrics", fields...)
		return
	}
	logger.Info("Suite metrics", fields...)
}
