package services

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/custodia-labs/vedika/internal/core/domain"
	"github.com/custodia-labs/vedika/internal/core/ports/driven"
	"github.com/custodia-labs/vedika/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEmbedProvider   = "embedding.provider"
	KeyEmbedModel      = "embedding.model"
	KeyEmbedBaseURL    = "embedding.base_url"
	KeyEmbedAPIKey     = "embedding.api_key"
	KeyEmbedDimensions = "embedding.dimensions"
	KeyLLMProvider     = "llm.provider"
	KeyLLMModel        = "llm.model"
	KeyLLMBaseURL      = "llm.base_url"
	KeyLLMAPIKey       = "llm.api_key"
	KeyLLMSiteURL      = "llm.site_url"
	KeyLLMSiteName     = "llm.site_name"
	KeyIndexPath       = "index.path"
	KeyIndexCollection = "index.collection"
	KeyIndexDistance   = "index.distance"
	KeyServerHost      = "server.host"
	KeyServerPort      = "server.port"
	KeyCorpusDir       = "corpus.dir"
	KeyCorpusSourceURL = "corpus.source_url"
)

// SettingKeys returns every key accepted by Set, in display order.
func SettingKeys() []string {
	return []string{
		KeyEmbedProvider, KeyEmbedModel, KeyEmbedBaseURL, KeyEmbedAPIKey, KeyEmbedDimensions,
		KeyLLMProvider, KeyLLMModel, KeyLLMBaseURL, KeyLLMAPIKey, KeyLLMSiteURL, KeyLLMSiteName,
		KeyIndexPath, KeyIndexCollection, KeyIndexDistance,
		KeyServerHost, KeyServerPort,
		KeyCorpusDir, KeyCorpusSourceURL,
	}
}

// overrideSource is implemented by config stores that layer read-only
// overrides (environment variables) over the persisted values.
type overrideSource interface {
	Source(key string) (string, bool)
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
// The aiValidator parameter is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings, filling unset keys with defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(KeyEmbedProvider, defaults.Embedding.Provider),
			Model:      s.getString(KeyEmbedModel, defaults.Embedding.Model),
			BaseURL:    s.configStore.GetString(KeyEmbedBaseURL),
			APIKey:     s.configStore.GetString(KeyEmbedAPIKey),
			Dimensions: s.getInt(KeyEmbedDimensions, defaults.Embedding.Dimensions),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(KeyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(KeyLLMModel, defaults.LLM.Model),
			BaseURL:  s.getString(KeyLLMBaseURL, defaults.LLM.BaseURL),
			APIKey:   s.configStore.GetString(KeyLLMAPIKey),
			SiteURL:  s.getString(KeyLLMSiteURL, defaults.LLM.SiteURL),
			SiteName: s.getString(KeyLLMSiteName, defaults.LLM.SiteName),
		},
		Index: domain.IndexSettings{
			Path:       s.configStore.GetString(KeyIndexPath),
			Collection: s.getString(KeyIndexCollection, defaults.Index.Collection),
			Distance:   s.getDistance(defaults.Index.Distance),
		},
		Server: domain.ServerSettings{
			Host: s.getString(KeyServerHost, defaults.Server.Host),
			Port: s.getInt(KeyServerPort, defaults.Server.Port),
		},
		Corpus: domain.CorpusSettings{
			Dir:       s.getString(KeyCorpusDir, defaults.Corpus.Dir),
			SourceURL: s.getString(KeyCorpusSourceURL, defaults.Corpus.SourceURL),
		},
	}

	return settings, nil
}

// Save persists application settings.
// Empty API keys are not written so a stored key is never cleared by accident,
// and keys currently overridden by the environment keep their stored value.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
		skip  bool
	}{
		{KeyEmbedProvider, settings.Embedding.Provider.String(), false},
		{KeyEmbedModel, settings.Embedding.Model, false},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL, false},
		{KeyEmbedAPIKey, settings.Embedding.APIKey, settings.Embedding.APIKey == ""},
		{KeyEmbedDimensions, settings.Embedding.Dimensions, false},
		{KeyLLMProvider, settings.LLM.Provider.String(), false},
		{KeyLLMModel, settings.LLM.Model, false},
		{KeyLLMBaseURL, settings.LLM.BaseURL, false},
		{KeyLLMAPIKey, settings.LLM.APIKey, settings.LLM.APIKey == ""},
		{KeyLLMSiteURL, settings.LLM.SiteURL, false},
		{KeyLLMSiteName, settings.LLM.SiteName, false},
		{KeyIndexPath, settings.Index.Path, false},
		{KeyIndexCollection, settings.Index.Collection, false},
		{KeyIndexDistance, settings.Index.Distance.String(), false},
		{KeyServerHost, settings.Server.Host, false},
		{KeyServerPort, settings.Server.Port, false},
		{KeyCorpusDir, settings.Corpus.Dir, false},
		{KeyCorpusSourceURL, settings.Corpus.SourceURL, false},
	}

	for _, v := range values {
		if v.skip || s.overridden(v.key) {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

func (s *SettingsService) overridden(key string) bool {
	src, ok := s.configStore.(overrideSource)
	if !ok {
		return false
	}
	_, ok = src.Source(key)
	return ok
}

type setting struct {
	key   string
	value any
}

// setEach writes only the given keys, stopping at the first error.
func (s *SettingsService) setEach(values []setting) error {
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set updates one setting by key, validating typed values.
func (s *SettingsService) Set(key, value string) error {
	if !slices.Contains(SettingKeys(), key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	switch key {
	case KeyEmbedProvider, KeyLLMProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: invalid provider %q", domain.ErrInvalidInput, value)
		}
	case KeyIndexDistance:
		if !domain.DistanceMetric(value).IsValid() {
			return fmt.Errorf("%w: invalid distance %q (use l2 or cosine)", domain.ErrInvalidInput, value)
		}
	case KeyServerPort, KeyEmbedDimensions:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)
	}

	return s.configStore.Set(key, value)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	values := []setting{
		{KeyEmbedProvider, provider.String()},
		{KeyEmbedModel, modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])},
	}
	if apiKey != "" {
		values = append(values, setting{KeyEmbedAPIKey, apiKey})
	}
	if provider == domain.AIProviderOllama && s.configStore.GetString(KeyEmbedBaseURL) == "" {
		values = append(values, setting{KeyEmbedBaseURL, "http://localhost:11434"})
	}

	return s.setEach(values)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !slices.Contains(domain.AllLLMProviders(), provider) {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	var baseURL string
	switch provider {
	case domain.AIProviderOllama:
		baseURL = "http://localhost:11434"
	case domain.AIProviderOpenAI:
		baseURL = domain.DefaultOpenRouterURL
	}

	values := []setting{
		{KeyLLMProvider, provider.String()},
		{KeyLLMModel, modelOrDefault(model, domain.DefaultLLMModels()[provider])},
		{KeyLLMBaseURL, baseURL},
	}
	if apiKey != "" {
		values = append(values, setting{KeyLLMAPIKey, apiKey})
	}

	return s.setEach(values)
}

// Validate checks that the settings can run the pipeline.
// Hard errors stop ingestion and queries; warnings describe degraded features.
func (s *SettingsService) Validate() ([]string, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	if !settings.Embedding.IsConfigured() {
		return nil, fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider)
	}
	if !settings.Index.Distance.IsValid() {
		return nil, fmt.Errorf("invalid distance metric %q", settings.Index.Distance)
	}
	if settings.Index.Collection == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyIndexCollection)
	}

	var warnings []string
	if !settings.LLM.IsConfigured() {
		warnings = append(warnings, fmt.Sprintf(
			"LLM provider %s has no API key: answers will use the extractive fallback",
			settings.LLM.Provider.Description()))
	}
	return warnings, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getDistance(defaultVal domain.DistanceMetric) domain.DistanceMetric {
	metric := domain.DistanceMetric(s.configStore.GetString(KeyIndexDistance))
	if !metric.IsValid() {
		return defaultVal
	}
	return metric
}

func modelOrDefault(model, defaultModel string) string {
	if model != "" {
		return model
	}
	return defaultModel
}
