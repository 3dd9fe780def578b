package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campusrag/repository"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"go.uber.org/zap"
)

var ErrEmptyQuestion = errors.New("question is empty")

const NotAvailableAnswer = "Information not available on the website."

const answerTemplate = `You are an assistant answering questions using ONLY the context below.
If the answer is not present, say:
"` + NotAvailableAnswer + `"

Context:
{{.context}}

Question:
{{.question}}
`

type Answer struct {
	Text    string
	Sources []repository.ScoredChunk
}

// Answerer composes retrieved context and the question into one prompt and
// returns the model's reply unchanged.
type Answerer struct {
	retriever *Retriever
	llm       llms.Model
	prompt    prompts.PromptTemplate
	logger    *zap.Logger
}

func NewAnswerer(retriever *Retriever, llm llms.Model, logger *zap.Logger) *Answerer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Answerer{
		retriever: retriever,
		llm:       llm,
		prompt:    prompts.NewPromptTemplate(answerTemplate, []string{"context", "question"}),
		logger:    logger,
	}
}

func (a *Answerer) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	chunks, err := a.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	prompt, err := a.BuildPrompt(question, chunks)
	if err != nil {
		return nil, err
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, a.llm, prompt, llms.WithTemperature(0))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	a.logger.Info("question answered",
		zap.Int("question_length", len(question)),
		zap.Int("sources", len(chunks)),
		zap.Int("answer_length", len(text)))
	return &Answer{Text: text, Sources: chunks}, nil
}

// BuildPrompt renders the prompt for question over the given chunks.
func (a *Answerer) BuildPrompt(question string, chunks []repository.ScoredChunk) (string, error) {
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}
	prompt, err := a.prompt.Format(map[string]any{
		"context":  strings.Join(texts, "\n\n"),
		"question": question,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return prompt, nil
}
