package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/thiiagovboas/eureca-assistant/types"
)

// Retrieval strategies.
const (
	RetrievalModeVector  = "vector"
	RetrievalModeKeyword = "keyword"
)

// Vector index backends.
const (
	IndexBackendMemory   = "memory"
	IndexBackendWeaviate = "weaviate"
)

// AI providers.
const (
	AIProviderOpenAI = "openai"
	AIProviderGemini = "gemini"
)

type Config struct {
	Port string `mapstructure:"port"`

	AIProvider     string   `mapstructure:"ai_provider"`
	AIEndpoint     string   `mapstructure:"ai_endpoint"`
	Model          string   `mapstructure:"model"`
	Temperature    float32  `mapstructure:"temperature"`
	EmbeddingModel string   `mapstructure:"embedding_model"`
	OpenAIAPIKey   string   `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys  []string `mapstructure:"gemini_api_keys"`

	Documents      []types.DocumentRef `mapstructure:"documents"`
	WatchDocuments bool                `mapstructure:"watch_documents"`

	ChunkSize     int           `mapstructure:"chunk_size"`
	ChunkOverlap  int           `mapstructure:"chunk_overlap"`
	CacheDuration time.Duration `mapstructure:"cache_duration"`

	RetrievalMode      string `mapstructure:"retrieval_mode"`
	RetrievalK         int    `mapstructure:"retrieval_k"`
	FallbackCharBudget int    `mapstructure:"fallback_char_budget"`

	IndexBackend        string              `mapstructure:"index_backend"`
	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`

	HistoryWindow int      `mapstructure:"history_window"`
	Greetings     []string `mapstructure:"greetings"`
	Keywords      []string `mapstructure:"keywords"`
}

type WeaviateStoreConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"`
	Class  string `mapstructure:"class"`
}

// LoadConfig reads the YAML config file at configPath and overlays
// environment variables. An empty path runs on defaults and environment
// only.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("WEAVIATE_APIKEY")
	v.BindEnv("GEMINI_API_KEY")

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if key := v.GetString("GEMINI_API_KEY"); key != "" {
		config.GeminiAPIKeys = append(config.GeminiAPIKeys, key)
	}
	config.WeaviateStoreConfig.APIKey = v.GetString("WEAVIATE_APIKEY")

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")

	v.SetDefault("ai_provider", AIProviderOpenAI)
	v.SetDefault("ai_endpoint", "https://api.openai.com/v1")
	v.SetDefault("model", "gpt-3.5-turbo")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("embedding_model", "text-embedding-ada-002")

	v.SetDefault("documents", []map[string]string{
		{"id": "manual", "path": "documents/Manual_lei_de_aprendizagem.pdf"},
		{"id": "boas_praticas", "path": "documents/Boas_Práticas_na_Seleção_de_Jovens_Aprendizes.pdf"},
		{"id": "sobre_eureca", "path": "documents/Sobre_Eureca.pdf"},
	})
	v.SetDefault("watch_documents", false)

	v.SetDefault("chunk_size", 1000)
	v.SetDefault("chunk_overlap", 200)
	v.SetDefault("cache_duration", "12h")

	v.SetDefault("retrieval_mode", RetrievalModeVector)
	v.SetDefault("retrieval_k", 3)
	v.SetDefault("fallback_char_budget", 4000)

	v.SetDefault("index_backend", IndexBackendMemory)
	v.SetDefault("weaviate_store_config.host", "http://localhost:8080")
	v.SetDefault("weaviate_store_config.class", "ApprenticeChunk")

	v.SetDefault("history_window", 3)
	v.SetDefault("greetings", []string{
		"oi", "olá", "ola", "hi", "hello", "ei",
		"bom dia", "boa tarde", "boa noite", "hey",
	})
	v.SetDefault("keywords", []string{
		"aprendiz", "contrato", "idade", "salário", "curso",
		"escola", "horário", "férias", "direitos", "deveres",
		"cota", "contratação", "rescisão", "benefícios",
	})
}

func (c *Config) validate() error {
	switch c.RetrievalMode {
	case RetrievalModeVector, RetrievalModeKeyword:
	default:
		return fmt.Errorf("invalid retrieval_mode %q", c.RetrievalMode)
	}
	switch c.IndexBackend {
	case IndexBackendMemory, IndexBackendWeaviate:
	default:
		return fmt.Errorf("invalid index_backend %q", c.IndexBackend)
	}
	switch c.AIProvider {
	case AIProviderOpenAI, AIProviderGemini:
	default:
		return fmt.Errorf("invalid ai_provider %q", c.AIProvider)
	}
	if len(c.Documents) == 0 {
		return fmt.Errorf("at least one document must be configured")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size)")
	}
	if c.RetrievalK < 1 {
		return fmt.Errorf("retrieval_k must be at least 1")
	}
	return nil
}
