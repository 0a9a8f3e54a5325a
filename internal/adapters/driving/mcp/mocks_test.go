package mcp

import (
	"context"
	"fmt"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

// mockPipeline is a mock implementation of driving.Pipeline.
type mockPipeline struct {
	result *domain.ResultSet
	err    error
	kinds  []domain.SourceKind
	last   domain.SourceDescriptor
}

func (m *mockPipeline) Run(_ context.Context, source domain.SourceDescriptor) (*domain.ResultSet, error) {
	m.last = source
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.ResultSet{RunID: "run-1", Source: source}, nil
}

func (m *mockPipeline) Kinds() []domain.SourceKind {
	return m.kinds
}

// mockTracker is a mock implementation of driving.TrackService.
type mockTracker struct {
	result *domain.ResultSet
	err    error
	calls  int
}

func (m *mockTracker) Track(
	_ context.Context,
	_ domain.SourceDescriptor,
	_ domain.TrackOptions,
) (*domain.ResultSet, error) {
	m.calls++
	return m.result, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error {
	return m.err
}

func (m *mockSettingsService) Set(key, _ string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidSetting, key)
}

func (m *mockSettingsService) Keys() []string {
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func sampleResult() *domain.ResultSet {
	return &domain.ResultSet{
		RunID:  "run-42",
		Source: domain.NewSourceDescriptor("website", "https://example.com"),
		Addresses: []domain.ValidatedAddress{
			{Address: "203.0.113.7", Family: domain.FamilyIPv4, Origin: "body"},
			{Address: "2001:db8::1", Family: domain.FamilyIPv6, Origin: "headers"},
		},
	}
}
