package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

var (
	scanSources  []string
	scanType     string
	scanWebhook  string
	scanNoReport bool
	scanJSON     bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [sources...]",
	Short: "Extract IP addresses from sources",
	Long: `Extract every unique IPv4 and IPv6 address from each source and report it.

A source is a PDF file, an image file or an http(s) URL. The type is inferred
from the URL scheme or file extension unless --type is given. Each source is
an independent run; results are posted to the configured webhook unless
--no-report is set.

Examples:
  iptrace scan report.pdf
  iptrace scan -t image scan.dat
  iptrace scan https://example.com --no-report --json
  iptrace scan -s a.pdf -s b.png --webhook https://discord.com/api/webhooks/...`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringArrayVarP(&scanSources, "source", "s", nil, "source to scan (repeatable)")
	scanCmd.Flags().StringVarP(&scanType, "type", "t", "", "source type: pdf, image (img) or website")
	scanCmd.Flags().StringVar(&scanWebhook, "webhook", "", "webhook URL (overrides webhook.url)")
	scanCmd.Flags().BoolVar(&scanNoReport, "no-report", false, "print results without posting them")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(scanCmd)
}

// scanOutcome is the result of one run.
type scanOutcome struct {
	source domain.SourceDescriptor
	result *domain.ResultSet
	err    error
}

func runScan(cmd *cobra.Command, args []string) error {
	if trackService == nil {
		return errors.New("track service not configured")
	}

	locations := append(append([]string{}, args...), scanSources...)
	if len(locations) == 0 {
		return errors.New("no sources given")
	}

	sources, err := describeSources(locations, scanType)
	if err != nil {
		return err
	}

	opts := domain.TrackOptions{
		WebhookURL: scanWebhook,
		SkipReport: scanNoReport,
	}

	outcomes := make([]scanOutcome, len(sources))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(scanConcurrency())
	for i, source := range sources {
		g.Go(func() error {
			result, err := trackService.Track(ctx, source, opts)
			outcomes[i] = scanOutcome{source: source, result: result, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if scanJSON {
		if err := outputScanJSON(cmd, outcomes); err != nil {
			return err
		}
	} else {
		st := stylesFor(cmd.OutOrStdout())
		for _, o := range outcomes {
			printResult(cmd.OutOrStdout(), st, o.source, o.result, o.err)
		}
	}

	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(outcomes))
	}
	return nil
}

// describeSources builds a descriptor per location, inferring the kind when
// kind is empty.
func describeSources(locations []string, kind string) ([]domain.SourceDescriptor, error) {
	sources := make([]domain.SourceDescriptor, 0, len(locations))
	for _, loc := range locations {
		if kind != "" {
			sources = append(sources, domain.NewSourceDescriptor(kind, loc))
			continue
		}
		inferred, ok := domain.KindForLocation(loc)
		if !ok {
			return nil, fmt.Errorf("%w: cannot infer type of %q, use --type", domain.ErrInvalidInput, loc)
		}
		sources = append(sources, domain.NewSourceDescriptor(inferred.String(), loc))
	}
	return sources, nil
}

// scanConcurrency reads scan.concurrency, falling back to the default.
func scanConcurrency() int {
	defaults := domain.DefaultAppSettings().Scan.Concurrency
	if settingsService == nil {
		return defaults
	}
	settings, err := settingsService.Get()
	if err != nil || settings.Scan.Concurrency < 1 {
		return defaults
	}
	return settings.Scan.Concurrency
}

func outputScanJSON(cmd *cobra.Command, outcomes []scanOutcome) error {
	results := make([]jsonResult, len(outcomes))
	for i, o := range outcomes {
		results[i] = toJSONResult(o.source, o.result, o.err)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
