package rag

import (
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	DefaultLLMBaseURL = "https://api.groq.com/openai/v1"
	DefaultLLMModel   = "llama-3.1-8b-instant"
)

// NewGroqLLM returns a chat model served by Groq's OpenAI-compatible endpoint.
func NewGroqLLM(baseURL, model, apiKey string) (*openai.LLM, error) {
	if baseURL == "" {
		baseURL = DefaultLLMBaseURL
	}
	if model == "" {
		model = DefaultLLMModel
	}
	return openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
		openai.WithToken(apiKey),
	)
}
