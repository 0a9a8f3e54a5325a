package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

func newTestPipeline(extractors ...*mockExtractor) (*Pipeline, *mockMetrics) {
	registry := NewExtractorRegistry()
	for _, e := range extractors {
		registry.Register(e)
	}
	metrics := &mockMetrics{}
	return NewPipeline(registry, metrics), metrics
}

func TestPipeline_Run_DedupesAcrossPages(t *testing.T) {
	pdf := &mockExtractor{
		kind: domain.KindPDF,
		units: []domain.RawTextUnit{
			{Label: "page 1", Text: "Server at 10.0.0.1 and 10.0.0.1 again"},
			{Label: "page 2", Text: "Backup: 10.0.0.2"},
		},
	}
	pipeline, metrics := newTestPipeline(pdf)

	result, err := pipeline.Run(context.Background(), domain.NewSourceDescriptor("pdf", "report.pdf"))

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, result.Strings())
	assert.Equal(t, "page 1", result.Addresses[0].Origin)
	assert.Equal(t, "page 2", result.Addresses[1].Origin)
	assert.Equal(t, 2, result.Units)
	assert.NotEmpty(t, result.RunID)
	assert.False(t, result.CompletedAt.IsZero())
	assert.Equal(t, []string{"report.pdf"}, pdf.calls)
	assert.Equal(t, []domain.Stage{domain.StageDone}, metrics.runs)
	assert.Equal(t, []int{2}, metrics.addresses)
}

func TestPipeline_Run_HeadersAndBody(t *testing.T) {
	web := &mockExtractor{
		kind: domain.KindWebsite,
		units: []domain.RawTextUnit{
			{Label: domain.UnitBody, Text: "<p>client 203.0.113.5</p>"},
			{Label: domain.UnitHeaders, Text: "X-Forwarded-For: 203.0.113.5"},
		},
	}
	pipeline, _ := newTestPipeline(web)

	result, err := pipeline.Run(context.Background(), domain.NewSourceDescriptor("website", "https://example.com"))

	require.NoError(t, err)
	assert.Equal(t, []string{"203.0.113.5"}, result.Strings())
	assert.Equal(t, domain.UnitBody, result.Addresses[0].Origin)
}

func TestPipeline_Run_NormalisedIPv6Dedup(t *testing.T) {
	img := &mockExtractor{
		kind: domain.KindImage,
		units: []domain.RawTextUnit{
			{Label: domain.UnitMetadata, Text: "Host: 2001:0db8:0000:0000:0000:0000:0000:0001"},
			{Label: domain.UnitOCR, Text: "seen 2001:db8::1 and 192.168.1.1"},
		},
	}
	pipeline, _ := newTestPipeline(img)

	result, err := pipeline.Run(context.Background(), domain.NewSourceDescriptor("image", "shot.png"))

	require.NoError(t, err)
	assert.Equal(t, []string{"2001:db8::1", "192.168.1.1"}, result.Strings())
	assert.Equal(t, domain.FamilyIPv6, result.Addresses[0].Family)
	assert.Equal(t, domain.FamilyIPv4, result.Addresses[1].Family)
}

func TestPipeline_Run_NoAddresses(t *testing.T) {
	pdf := &mockExtractor{
		kind:  domain.KindPDF,
		units: []domain.RawTextUnit{{Label: "page 1", Text: "version 1.2.3 and 999.1.1.1"}, {Label: "page 2"}},
	}
	pipeline, _ := newTestPipeline(pdf)

	result, err := pipeline.Run(context.Background(), domain.NewSourceDescriptor("pdf", "empty.pdf"))

	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
	assert.NotNil(t, result.Addresses)
}

func TestPipeline_Run_UnsupportedKind(t *testing.T) {
	pdf := &mockExtractor{kind: domain.KindPDF}
	pipeline, metrics := newTestPipeline(pdf)

	result, err := pipeline.Run(context.Background(), domain.NewSourceDescriptor("spreadsheet", "data.xlsx"))

	assert.Nil(t, result)
	require.ErrorIs(t, err, domain.ErrUnsupportedSourceKind)

	var runErr *domain.RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, domain.StageDispatch, runErr.Stage)
	assert.Equal(t, "data.xlsx", runErr.Source.Location)
	assert.Equal(t, 0, pdf.callCount())
	assert.Equal(t, []domain.Stage{domain.StageDispatch}, metrics.runs)
}

func TestPipeline_Run_ExtractionFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"unreadable", fmt.Errorf("%w: not a pdf", domain.ErrSourceUnreadable), domain.ErrSourceUnreadable},
		{"unreachable", fmt.Errorf("%w: connection refused", domain.ErrSourceUnreachable), domain.ErrSourceUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			web := &mockExtractor{kind: domain.KindWebsite, err: tt.err}
			pipeline, _ := newTestPipeline(web)

			result, err := pipeline.Run(context.Background(), domain.NewSourceDescriptor("website", "http://127.0.0.1:1"))

			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.sentinel)
			var runErr *domain.RunError
			require.ErrorAs(t, err, &runErr)
			assert.Equal(t, domain.StageExtracting, runErr.Stage)
		})
	}
}

func TestPipeline_Run_CancelledContext(t *testing.T) {
	pdf := &mockExtractor{kind: domain.KindPDF, units: []domain.RawTextUnit{{Text: "10.0.0.1"}}}
	pipeline, _ := newTestPipeline(pdf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := pipeline.Run(ctx, domain.NewSourceDescriptor("pdf", "a.pdf"))

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPipeline_Run_ConcurrentRunsAreIndependent(t *testing.T) {
	pdf := &mockExtractor{
		kind:  domain.KindPDF,
		units: []domain.RawTextUnit{{Label: "page 1", Text: "10.0.0.1 10.0.0.2 10.0.0.1"}},
	}
	pipeline, _ := newTestPipeline(pdf)

	var wg sync.WaitGroup
	results := make([]*domain.ResultSet, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = pipeline.Run(context.Background(), domain.NewSourceDescriptor("pdf", "a.pdf"))
		}(i)
	}
	wg.Wait()

	ids := make(map[string]bool)
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, r.Strings())
		ids[r.RunID] = true
	}
	assert.Len(t, ids, len(results))
}

func TestPipeline_Kinds(t *testing.T) {
	pipeline, _ := newTestPipeline(&mockExtractor{kind: domain.KindPDF}, &mockExtractor{kind: domain.KindWebsite})

	assert.Equal(t, []domain.SourceKind{domain.KindPDF, domain.KindWebsite}, pipeline.Kinds())
}

func TestPipeline_NilMetrics(t *testing.T) {
	pipeline := NewPipeline(NewExtractorRegistry(), nil)

	_, err := pipeline.Run(context.Background(), domain.NewSourceDescriptor("pdf", "a.pdf"))

	assert.ErrorIs(t, err, domain.ErrUnsupportedSourceKind)
}
