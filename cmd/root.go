package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campusrag",
		Short: "Crawl a campus website and answer questions about it",
		Long: `campusrag crawls the allow-listed sections of a university website, indexes
the relevant page text as embeddings, and answers questions with an LLM
grounded on the retrieved passages.

Typical flow:
  campusrag crawl --site-config site.yaml
  campusrag index
  campusrag ask`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("site-config", "c", "", "Site YAML file (overrides SITE_CONFIG_PATH)")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewIndexCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
