// Command iptrace extracts IP addresses from PDFs, images and websites and
// reports them to a webhook.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/custodia-labs/iptrace/internal/adapters/driven/config/file"
	"github.com/custodia-labs/iptrace/internal/adapters/driven/metrics"
	"github.com/custodia-labs/iptrace/internal/adapters/driven/ocr/tesseract"
	"github.com/custodia-labs/iptrace/internal/adapters/driven/webhook"
	"github.com/custodia-labs/iptrace/internal/adapters/driving/cli"
	"github.com/custodia-labs/iptrace/internal/core/domain"
	"github.com/custodia-labs/iptrace/internal/core/ports/driven"
	"github.com/custodia-labs/iptrace/internal/core/services"
	"github.com/custodia-labs/iptrace/internal/extractors/image"
	"github.com/custodia-labs/iptrace/internal/extractors/pdf"
	"github.com/custodia-labs/iptrace/internal/extractors/website"
	"github.com/custodia-labs/iptrace/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Extractors are built before flag parsing; honour --verbose for their warnings.
	logger.SetVerbose(slices.Contains(os.Args[1:], "-v") || slices.Contains(os.Args[1:], "--verbose"))

	store, err := file.NewConfigStore("")
	if err != nil {
		return err
	}

	settingsService := services.NewSettingsService(store)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	m := metrics.New()
	registry := services.NewExtractorRegistry(buildExtractors(settings)...)
	pipeline := services.NewPipeline(registry, m)
	reporter := webhook.New(settings.Webhook.Username)
	tracker := services.NewTrackService(pipeline, reporter, settings.Webhook.URL, m)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Pipeline: pipeline,
		Tracker:  tracker,
		Settings: settingsService,
		Metrics:  m.Handler(),
	})

	return cli.Execute(ctx)
}

// buildExtractors creates one extractor per source kind from settings.
// Optional external tools that are missing degrade with a warning.
func buildExtractors(settings *domain.AppSettings) []driven.Extractor {
	return []driven.Extractor{
		buildPDFExtractor(settings.PDF),
		buildImageExtractor(settings.OCR),
		website.New(website.Config{
			Timeout:      settings.Website.Timeout(),
			MaxBodyBytes: int64(settings.Website.MaxBodyBytes),
			UserAgent:    userAgent(settings.Website),
		}),
	}
}

func buildPDFExtractor(s domain.PDFSettings) *pdf.Extractor {
	if s.Engine != domain.PDFEnginePDFToText {
		return pdf.New()
	}

	reader, err := pdf.NewToolReader()
	if err != nil {
		logger.Warn("%v, using the built-in PDF reader\n%s", err, pdf.InstallInstructions())
		return pdf.New()
	}
	return pdf.NewWithReader(reader)
}

func buildImageExtractor(s domain.OCRSettings) *image.Extractor {
	if !s.Enabled {
		return image.New(nil)
	}

	recogniser, err := tesseract.New(s.Language)
	if err != nil {
		logger.Warn("%v, images are scanned for metadata only\n%s", err, tesseract.InstallInstructions())
		return image.New(nil)
	}
	return image.New(recogniser)
}

func userAgent(s domain.WebsiteSettings) string {
	if s.UserAgent != "" {
		return s.UserAgent
	}
	return "iptrace/" + version
}
