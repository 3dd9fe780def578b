package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"campusrag/api"
	"campusrag/config"

	"github.com/spf13/cobra"
)

func NewAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask questions about the indexed site",
		Long: `Ask answers a single question given as arguments, or starts an interactive
loop that reads questions until "exit".`,
		RunE: runAskCmd,
	}
}

func runAskCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
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

	answerer, err := newAnswerer(cfg, repo, cfg.RetrieverTopK, logger)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		answer, err := answerer.Ask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
		return nil
	}
	return askLoop(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), answerer)
}

// askLoop answers one question per input line until "exit" or EOF. A failed
// question is reported and the loop goes on.
func askLoop(ctx context.Context, in io.Reader, out io.Writer, asker api.Asker) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nAsk a question (or type 'exit'): ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(question, "exit") {
			fmt.Fprintln(out, "Exiting...")
			return nil
		}
		if question == "" {
			continue
		}

		answer, err := asker.Ask(ctx, question)
		if err != nil {
			fmt.Fprintf(out, "\nError: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "\nAnswer:\n%s\n", answer.Text)
	}
}
