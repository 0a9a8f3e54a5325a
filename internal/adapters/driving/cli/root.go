// Package cli provides the cobra command tree for iptrace.
package cli

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/iptrace/internal/core/ports/driving"
	"github.com/custodia-labs/iptrace/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services wired in by the composition root.
var (
	pipeline        driving.Pipeline
	trackService    driving.TrackService
	settingsService driving.SettingsService
	metricsHandler  http.Handler
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "iptrace",
	Short: "Extract IP addresses from PDFs, images and websites",
	Long: `iptrace finds every IPv4 and IPv6 address in a PDF document, an image
(metadata and OCR text) or a web page, removes duplicates and posts the
result to a Discord-compatible webhook.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services groups the driving ports used by the commands.
type Services struct {
	Pipeline driving.Pipeline
	Tracker  driving.TrackService
	Settings driving.SettingsService
	Metrics  http.Handler
}

// SetServices installs the services used by the commands.
func SetServices(s Services) {
	pipeline = s.Pipeline
	trackService = s.Tracker
	settingsService = s.Settings
	metricsHandler = s.Metrics
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
