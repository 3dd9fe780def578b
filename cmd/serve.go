package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"campusrag/api"
	"campusrag/config"

	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the question answering HTTP API",
		Long: `Serve exposes POST /api/ask {"question": "..."} -> {"answer": "..."} and
GET /health on APP_PORT. Answers use the SERVE_RETRIEVER_TOP_K closest chunks.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}
	cmd.Flags().IntP("port", "P", 0, "Listen port (overrides APP_PORT)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.AppPort = port
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	repo, err := openRepo(cfg)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer repo.Close()

	answerer, err := newAnswerer(cfg, repo, cfg.ServeTopK, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return api.NewServer(answerer, cfg.AppPort, logger).Start(ctx)
}
