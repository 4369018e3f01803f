package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderHashing is the built-in feature-hashing embedder.
	// It runs offline and needs no model download.
	AIProviderHashing AIProvider = "hashing"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is any OpenAI-compatible API (OpenAI, OpenRouter).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderHashing, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderHashing:
		return "Feature hashing (built-in)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size for the hashing embedder.
	// Remote providers report their own dimensions.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// SiteURL is sent as HTTP-Referer for OpenRouter attribution.
	SiteURL string

	// SiteName is sent as X-Title for OpenRouter attribution.
	SiteName string
}

// IsConfigured returns true if the LLM provider is set up.
// An unconfigured LLM switches answer synthesis to the extractive fallback.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderHashing {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// DistanceMetric is the vector index distance function.
type DistanceMetric string

// Available distance metrics.
const (
	// DistanceL2 is squared Euclidean distance.
	DistanceL2 DistanceMetric = "l2"

	// DistanceCosine is one minus cosine similarity.
	DistanceCosine DistanceMetric = "cosine"
)

// IsValid returns true if the metric is recognised.
func (m DistanceMetric) IsValid() bool {
	return m == DistanceL2 || m == DistanceCosine
}

// String returns the string representation.
func (m DistanceMetric) String() string {
	return string(m)
}

// IndexSettings holds vector index configuration.
type IndexSettings struct {
	// Path is the SQLite database file. Empty means <config dir>/index.db.
	Path string

	// Collection is the named document set queried and rebuilt.
	Collection string

	// Distance is the metric used for nearest-neighbour queries.
	Distance DistanceMetric
}

// ServerSettings holds HTTP transport configuration.
type ServerSettings struct {
	Host string
	Port int
}

// CorpusSettings holds source batch configuration.
type CorpusSettings struct {
	// Dir is the directory of *.json source batches.
	Dir string

	// SourceURL is the base URL the fetch command downloads batches from.
	SourceURL string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Index     IndexSettings
	Server    ServerSettings
	Corpus    CorpusSettings
}

// Defaults for the application settings.
const (
	DefaultCollection      = "isro_data"
	DefaultHashingModel    = "hashing-v1"
	DefaultHashingDims     = 384
	DefaultOpenRouterURL   = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel = "qwen/qwen3-30b-a3b:free"
	DefaultSiteURL         = "https://vedika-isro.com"
	DefaultSiteName        = "Vedika - ISRO Knowledge Assistant"
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8000
	DefaultCorpusDir       = "data"
	DefaultSourceURL       = "https://isro.vercel.app"
)

// DefaultAppSettings returns settings with sensible defaults.
// The LLM points at OpenRouter but has no API key, so answers use the
// extractive fallback until a key is set.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderHashing,
			Model:      DefaultHashingModel,
			Dimensions: DefaultHashingDims,
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultOpenRouterModel,
			BaseURL:  DefaultOpenRouterURL,
			SiteURL:  DefaultSiteURL,
			SiteName: DefaultSiteName,
		},
		Index: IndexSettings{
			Collection: DefaultCollection,
			Distance:   DistanceL2,
		},
		Server: ServerSettings{
			Host: DefaultServerHost,
			Port: DefaultServerPort,
		},
		Corpus: CorpusSettings{
			Dir:       DefaultCorpusDir,
			SourceURL: DefaultSourceURL,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHashing,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHashing: DefaultHashingModel,
		AIProviderOllama:  "nomic-embed-text",
		AIProviderOpenAI:  "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    DefaultOpenRouterModel,
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}
