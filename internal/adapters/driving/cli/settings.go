package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the webhook, website fetching, OCR, PDF engine and
scan options.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a single setting by its dotted key.

Available keys:
  webhook.url              Discord-compatible webhook endpoint ("" disables delivery)
  webhook.username         display name for posted messages
  website.timeout_seconds  fetch timeout in seconds
  website.max_body_bytes   maximum response body size in bytes
  website.user_agent       User-Agent header ("" uses iptrace/<version>)
  ocr.enabled              run tesseract on images (true/false)
  ocr.language             tesseract language code (e.g. eng)
  pdf.engine               library or pdftotext
  scan.concurrency         sources scanned at once`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Webhook]")
	if settings.Webhook.IsConfigured() {
		cmd.Printf("  URL: %s\n", settings.Webhook.MaskedURL())
	} else {
		cmd.Printf("  URL: (not set, results are printed only)\n")
	}
	cmd.Printf("  Username: %s\n", settings.Webhook.Username)
	cmd.Println()

	cmd.Println("[Website]")
	cmd.Printf("  Timeout: %s\n", settings.Website.Timeout())
	cmd.Printf("  Max body: %d bytes\n", settings.Website.MaxBodyBytes)
	cmd.Printf("  User agent: %s\n", orDefault(settings.Website.UserAgent, "iptrace/"+version))
	cmd.Println()

	cmd.Println("[OCR]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.OCR.Enabled))
	cmd.Printf("  Language: %s\n", settings.OCR.Language)
	cmd.Println()

	cmd.Println("[PDF]")
	cmd.Printf("  Engine: %s\n", settings.PDF.Engine.Description())
	cmd.Println()

	cmd.Println("[Scan]")
	cmd.Printf("  Concurrency: %d\n", settings.Scan.Concurrency)
	cmd.Println()

	cmd.Printf("Change a value with 'iptrace settings set <key> <value>'. Keys: %s\n",
		strings.Join(settingsService.Keys(), ", "))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", strings.ToLower(strings.TrimSpace(key)))
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
