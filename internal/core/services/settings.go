package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/iptrace/internal/core/domain"
	"github.com/custodia-labs/iptrace/internal/core/ports/driven"
	"github.com/custodia-labs/iptrace/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyWebhookURL      = "webhook.url"
	keyWebhookUsername = "webhook.username"
	keyWebsiteTimeout  = "website.timeout_seconds"
	keyWebsiteMaxBody  = "website.max_body_bytes"
	keyWebsiteAgent    = "website.user_agent"
	keyOCREnabled      = "ocr.enabled"
	keyOCRLanguage     = "ocr.language"
	keyPDFEngine       = "pdf.engine"
	keyScanConcurrency = "scan.concurrency"
)

// settingKind is the value type of a settings key.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindBool
	kindPDFEngine
)

// settingKeys lists every recognised key in display order.
var settingKeys = []struct {
	key  string
	kind settingKind
}{
	{keyWebhookURL, kindString},
	{keyWebhookUsername, kindString},
	{keyWebsiteTimeout, kindInt},
	{keyWebsiteMaxBody, kindInt},
	{keyWebsiteAgent, kindString},
	{keyOCREnabled, kindBool},
	{keyOCRLanguage, kindString},
	{keyPDFEngine, kindPDFEngine},
	{keyScanConcurrency, kindInt},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Webhook: domain.WebhookSettings{
			URL:      s.configStore.GetString(keyWebhookURL), // No default - empty disables delivery
			Username: s.getString(keyWebhookUsername, defaults.Webhook.Username),
		},
		Website: domain.WebsiteSettings{
			TimeoutSeconds: s.getPositiveInt(keyWebsiteTimeout, defaults.Website.TimeoutSeconds),
			MaxBodyBytes:   s.getPositiveInt(keyWebsiteMaxBody, defaults.Website.MaxBodyBytes),
			UserAgent:      s.configStore.GetString(keyWebsiteAgent),
		},
		OCR: domain.OCRSettings{
			Enabled:  s.getBool(keyOCREnabled, defaults.OCR.Enabled),
			Language: s.getString(keyOCRLanguage, defaults.OCR.Language),
		},
		PDF: domain.PDFSettings{
			Engine: s.getPDFEngine(defaults.PDF.Engine),
		},
		Scan: domain.ScanSettings{
			Concurrency: s.getPositiveInt(keyScanConcurrency, defaults.Scan.Concurrency),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyWebhookURL, settings.Webhook.URL},
		{keyWebhookUsername, settings.Webhook.Username},
		{keyWebsiteTimeout, settings.Website.TimeoutSeconds},
		{keyWebsiteMaxBody, settings.Website.MaxBodyBytes},
		{keyWebsiteAgent, settings.Website.UserAgent},
		{keyOCREnabled, settings.OCR.Enabled},
		{keyOCRLanguage, settings.OCR.Language},
		{keyPDFEngine, settings.PDF.Engine.String()},
		{keyScanConcurrency, settings.Scan.Concurrency},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// Set updates a single setting, converting value to the key's type.
func (s *SettingsService) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	for _, k := range settingKeys {
		if k.key != key {
			continue
		}

		parsed, err := parseSetting(k.kind, value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidSetting, key, err)
		}
		if err := s.configStore.Set(key, parsed); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
		return nil
	}

	return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidSetting, key)
}

// Keys returns all recognised setting keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func parseSetting(kind settingKind, value string) (any, error) {
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", value)
		}
		if n <= 0 {
			return nil, fmt.Errorf("must be positive, got %d", n)
		}
		return n, nil
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("expected true or false, got %q", value)
		}
		return b, nil
	case kindPDFEngine:
		engine := domain.PDFEngine(strings.ToLower(value))
		if !engine.IsValid() {
			return nil, fmt.Errorf("unknown pdf engine %q", value)
		}
		return engine.String(), nil
	default:
		return value, nil
	}
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getPDFEngine(defaultVal domain.PDFEngine) domain.PDFEngine {
	val := s.configStore.GetString(keyPDFEngine)
	if val == "" {
		return defaultVal
	}
	engine := domain.PDFEngine(val)
	if !engine.IsValid() {
		return defaultVal
	}
	return engine
}
