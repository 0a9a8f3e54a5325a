package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

// --- Mock implementations ---

// mockExtractor implements driven.Extractor for testing.
type mockExtractor struct {
	kind  domain.SourceKind
	units []domain.RawTextUnit
	err   error

	mu    sync.Mutex
	calls []string
}

func (m *mockExtractor) Kind() domain.SourceKind {
	return m.kind
}

func (m *mockExtractor) Extract(_ context.Context, location string) ([]domain.RawTextUnit, error) {
	m.mu.Lock()
	m.calls = append(m.calls, location)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.units, nil
}

func (m *mockExtractor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockReporter implements driven.Reporter for testing.
type mockReporter struct {
	err       error
	endpoints []string
	results   []*domain.ResultSet
}

func (m *mockReporter) Report(_ context.Context, endpoint string, result *domain.ResultSet) error {
	m.endpoints = append(m.endpoints, endpoint)
	m.results = append(m.results, result)
	return m.err
}

// mockMetrics implements driven.MetricsRecorder for testing.
type mockMetrics struct {
	mu         sync.Mutex
	runs       []domain.Stage
	addresses  []int
	deliveries []string
}

func (m *mockMetrics) ObserveRun(_ domain.SourceKind, stage domain.Stage, addresses int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, stage)
	m.addresses = append(m.addresses, addresses)
}

func (m *mockMetrics) ObserveDelivery(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries = append(m.deliveries, outcome)
}

// mockPipeline implements driving.Pipeline for testing.
type mockPipeline struct {
	result *domain.ResultSet
	err    error
}

func (m *mockPipeline) Run(_ context.Context, _ domain.SourceDescriptor) (*domain.ResultSet, error) {
	return m.result, m.err
}

func (m *mockPipeline) Kinds() []domain.SourceKind {
	return []domain.SourceKind{domain.KindPDF}
}
