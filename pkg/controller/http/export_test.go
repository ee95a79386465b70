package http

import "github.com/prometheus/client_golang/prometheus"

var (
	ParseInput  = parseInput
	EncodeInput = encodeInput
	StatusOf    = statusOf
)

// SavedCounter is exported for testing
func (m *Metrics) SavedCounter() prometheus.Counter {
	return m.saved
}

// ReportsCounter is exported for testing
func (m *Metrics) ReportsCounter() prometheus.Counter {
	return m.reports
}
