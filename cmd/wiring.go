package main

import (
	"fmt"

	"campusrag/config"
	"campusrag/crawler"
	"campusrag/pkg/boltdb"
	"campusrag/pkg/embedding"
	"campusrag/pkg/qdrantdb"
	"campusrag/rag"
	"campusrag/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func loadSiteConfig(cmd *cobra.Command, cfg *config.Config) (*crawler.CrawlerConfig, error) {
	path := cfg.SiteConfigPath
	if flagPath, _ := cmd.Flags().GetString("site-config"); flagPath != "" {
		path = flagPath
	}
	return config.LoadCrawlerConfig(path)
}

func openRepo(cfg *config.Config) (repository.ChunkVectorRepo, error) {
	switch cfg.VectorStore {
	case config.VectorStoreQdrant:
		return qdrantdb.NewClient(cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantCollection)
	case config.VectorStoreBolt:
		return boltdb.NewClient(cfg.BoltPath)
	default:
		return nil, fmt.Errorf("unknown vector store %q", cfg.VectorStore)
	}
}

func newAnswerer(cfg *config.Config, repo repository.ChunkVectorRepo, topK int, logger *zap.Logger) (*rag.Answerer, error) {
	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is required")
	}
	llm, err := rag.NewGroqLLM(cfg.LLMBaseURL, cfg.LLMModel, cfg.GroqAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	retriever := rag.NewRetriever(embedding.NewAllMinilmL6V2(cfg.EmbeddingURL), repo, topK)
	return rag.NewAnswerer(retriever, llm, logger), nil
}
