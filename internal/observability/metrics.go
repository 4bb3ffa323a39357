package observability

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// Metrics provides basic in-memory counters for requests and triage runs.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	runCount      int64
	outcomeCount  map[domain.TriageOutcome]int64
	handoffCount  map[domain.Specialist]int64
	recordErrors  int64
	casesOpened   int64
	notifications int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		outcomeCount: make(map[domain.TriageOutcome]int64),
		handoffCount: make(map[domain.Specialist]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordRun accumulates counters from a finished triage run.
func (m *Metrics) RecordRun(summary domain.WorkflowRunSummary) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runCount++
	for outcome, count := range summary.OutcomeCounts {
		m.outcomeCount[outcome] += int64(count)
	}
	for specialist, count := range summary.HandoffCounts {
		m.handoffCount[specialist] += int64(count)
	}
	m.recordErrors += int64(len(summary.Errors))
	m.casesOpened += int64(summary.CasesOpened)
	m.notifications += int64(len(summary.Notifications))
}

// RunSnapshot reports the accumulated triage counters.
func (m *Metrics) RunSnapshot() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := map[string]int64{
		"runs":          m.runCount,
		"record_errors": m.recordErrors,
		"cases_opened":  m.casesOpened,
		"notifications": m.notifications,
	}
	for outcome, count := range m.outcomeCount {
		snapshot["outcome_"+strings.ToLower(string(outcome))] = count
	}
	for specialist, count := range m.handoffCount {
		snapshot["handoff_"+strings.ToLower(string(specialist))] = count
	}
	return snapshot
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
