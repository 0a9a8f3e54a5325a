package cli

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/iptrace/internal/adapters/driving/watch"
	"github.com/custodia-labs/iptrace/internal/core/domain"
)

var (
	watchWebhook  string
	watchNoReport bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Scan PDFs and images as they appear in a directory",
	Long: `Watch a directory tree and scan every PDF or image that is created or
modified. Each file is scanned once it has been quiet for the debounce
interval; unchanged content is not scanned twice. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchWebhook, "webhook", "", "webhook URL (overrides webhook.url)")
	watchCmd.Flags().BoolVar(&watchNoReport, "no-report", false, "print results without posting them")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before a file is scanned")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if trackService == nil {
		return errors.New("track service not configured")
	}

	out := cmd.OutOrStdout()
	st := stylesFor(out)
	var mu sync.Mutex

	handler := func(e watch.Event) {
		mu.Lock()
		defer mu.Unlock()
		kind, _ := domain.KindForLocation(e.Path)
		printResult(out, st, domain.SourceDescriptor{Kind: kind, Location: e.Path}, e.Result, e.Err)
	}

	opts := watch.Options{
		Debounce:    watchDebounce,
		Concurrency: scanConcurrency(),
		Track: domain.TrackOptions{
			WebhookURL: watchWebhook,
			SkipReport: watchNoReport,
		},
	}

	w, err := watch.New(args[0], trackService, opts, handler)
	if err != nil {
		return fmt.Errorf("starting watch: %w", err)
	}

	fmt.Fprintf(out, "Watching %s for PDFs and images (Ctrl+C to stop)\n", w.Root())
	return w.Run(cmd.Context())
}
