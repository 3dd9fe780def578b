package main

import (
	"fmt"

	"campusrag/config"
	"campusrag/indexer"
	"campusrag/pkg/chunking"
	"campusrag/pkg/embedding"

	"github.com/spf13/cobra"
)

func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Chunk, embed and index the crawl output",
		Long: `Index reads the crawl output, splits it into overlapping chunks, embeds
them with the text-embeddings-inference service at EMBEDDING_URL and
replaces the contents of the vector index (VECTOR_STORE).`,
		Args: cobra.NoArgs,
		RunE: runIndexCmd,
	}
	cmd.Flags().StringP("input", "i", "", "Crawl output file (overrides CRAWL_OUTPUT_PATH)")
	cmd.Flags().StringP("format", "f", "", "Input format: text or jsonl (overrides CRAWL_OUTPUT_FORMAT)")
	return cmd
}

func runIndexCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("input"); v != "" {
		cfg.CrawlOutputPath = v
	}
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		cfg.CrawlOutputFormat = v
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	docs, err := indexer.LoadCrawlOutput(cfg.CrawlOutputPath, cfg.CrawlOutputFormat)
	if err != nil {
		return err
	}

	chunker, err := chunking.NewChunker(cfg.ChunkingMethod, cfg.ChunkSize, cfg.ChunkOverlap,
		embedding.NewAllMinilmL6V2(cfg.EmbeddingURL))
	if err != nil {
		return err
	}

	repo, err := openRepo(cfg)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer repo.Close()

	stats, err := indexer.NewIndexer(chunker, repo, logger).Build(cmd.Context(), docs)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d chunks from %d documents (dimension %d)\n",
		stats.Chunks, stats.Documents, stats.Dimension)
	return nil
}
