package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"campusrag/crawler"

	"gopkg.in/yaml.v3"
)

const (
	VectorStoreBolt   = "bolt"
	VectorStoreQdrant = "qdrant"
)

type Config struct {
	AppPort  int
	ProxyURL string

	SiteConfigPath    string
	CrawlOutputPath   string
	CrawlOutputFormat string

	EmbeddingURL string

	VectorStore      string
	BoltPath         string
	QdrantHost       string
	QdrantPort       int
	QdrantCollection string

	ChunkSize      int
	ChunkOverlap   int
	ChunkingMethod string

	LLMBaseURL    string
	LLMModel      string
	GroqAPIKey    string
	RetrieverTopK int
	// ServeTopK is the retriever k of the HTTP API, smaller than the CLI's.
	ServeTopK int
}

func Load() (*Config, error) {
	cfg := &Config{
		ProxyURL:          os.Getenv("PROXY_URL"),
		SiteConfigPath:    os.Getenv("SITE_CONFIG_PATH"),
		CrawlOutputPath:   getEnv("CRAWL_OUTPUT_PATH", "data/raw_text.txt"),
		CrawlOutputFormat: getEnv("CRAWL_OUTPUT_FORMAT", crawler.OutputText),
		EmbeddingURL:      getEnv("EMBEDDING_URL", "http://localhost:8080"),
		VectorStore:       getEnv("VECTOR_STORE", VectorStoreBolt),
		BoltPath:          getEnv("BOLT_PATH", "data/index.db"),
		QdrantHost:        getEnv("QDRANT_HOST", "localhost"),
		QdrantCollection:  getEnv("QDRANT_COLLECTION", "campus_chunks"),
		ChunkingMethod:    getEnv("CHUNKING_METHOD", "text"),
		LLMBaseURL:        getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMModel:          getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
		GroqAPIKey:        os.Getenv("GROQ_API_KEY"),
	}

	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"APP_PORT", 8000, &cfg.AppPort},
		{"QDRANT_PORT", 6334, &cfg.QdrantPort},
		{"CHUNK_SIZE", 1000, &cfg.ChunkSize},
		{"CHUNK_OVERLAP", 200, &cfg.ChunkOverlap},
		{"RETRIEVER_TOP_K", 5, &cfg.RetrieverTopK},
		{"SERVE_RETRIEVER_TOP_K", 2, &cfg.ServeTopK},
	}
	for _, v := range ints {
		n, err := getEnvInt(v.key, v.def)
		if err != nil {
			return nil, err
		}
		*v.dest = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.VectorStore != VectorStoreBolt && c.VectorStore != VectorStoreQdrant {
		return fmt.Errorf("VECTOR_STORE must be %q or %q, got %q", VectorStoreBolt, VectorStoreQdrant, c.VectorStore)
	}
	if c.CrawlOutputFormat != crawler.OutputText && c.CrawlOutputFormat != crawler.OutputJSONL {
		return fmt.Errorf("CRAWL_OUTPUT_FORMAT must be %q or %q, got %q", crawler.OutputText, crawler.OutputJSONL, c.CrawlOutputFormat)
	}
	if c.ChunkingMethod != "text" && c.ChunkingMethod != "md" {
		return fmt.Errorf("CHUNKING_METHOD must be text or md, got %q", c.ChunkingMethod)
	}
	if c.ChunkSize <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("invalid chunk size %d / overlap %d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.RetrieverTopK <= 0 {
		return errors.New("RETRIEVER_TOP_K must be positive")
	}
	if c.ServeTopK <= 0 {
		return errors.New("SERVE_RETRIEVER_TOP_K must be positive")
	}
	return nil
}

// LoadCrawlerConfig reads a YAML site file over crawler.DefaultConfig. An empty
// path returns the defaults.
func LoadCrawlerConfig(path string) (*crawler.CrawlerConfig, error) {
	if path == "" {
		return crawler.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open site config: %w", err)
	}
	defer f.Close()
	return ParseCrawlerConfig(f)
}

func ParseCrawlerConfig(r io.Reader) (*crawler.CrawlerConfig, error) {
	cfg := crawler.DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", crawler.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s: %w", key, err)
	}
	return n, nil
}
