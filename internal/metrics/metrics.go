package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	Runs              int64
	EntriesFetched    int64
	FeedFailures      int64
	Rejected          map[string]int64
	ArticlesDelivered int64
	DigestsSent       int64
	EmptyDigests      int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunID     string
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

func New() *Metrics {
	return &Metrics{Rejected: map[string]int64{}, IsHealthy: true}
}

var Global = New()

func (m *Metrics) IncrementRuns(runID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Runs++
	m.LastRunID = runID
}

func (m *Metrics) AddEntriesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesFetched += int64(n)
}

func (m *Metrics) IncrementFeedFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedFailures++
}

// AddRejected counts n entries dropped for reason.
func (m *Metrics) AddRejected(reason string, n int) {
	if n <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rejected[reason] += int64(n)
}

// RecordDigest counts one delivered message carrying n articles.
func (m *Metrics) RecordDigest(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DigestsSent++
	m.ArticlesDelivered += int64(n)
	if n == 0 {
		m.EmptyDigests++
	}
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rejected := make(map[string]int64, len(m.Rejected))
	for k, v := range m.Rejected {
		rejected[k] = v
	}

	return map[string]interface{}{
		"runs":                       m.Runs,
		"entries_fetched":            m.EntriesFetched,
		"feed_failures":              m.FeedFailures,
		"rejected":                   rejected,
		"articles_delivered":         m.ArticlesDelivered,
		"digests_sent":               m.DigestsSent,
		"empty_digests":              m.EmptyDigests,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_id":                m.LastRunID,
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
