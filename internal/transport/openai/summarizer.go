package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/domain"
)

const systemPrompt = "You answer questions using only the provided context. " +
	"If the context does not contain the answer, say that you do not know."

const emptyContextPrompt = "No relevant context was found for this question. " +
	"Tell the user that their documents contain nothing relevant to the question."

// defaultSummarizeTimeout bounds one completion request when no timeout is
// configured. Completions run longer than embeddings.
const defaultSummarizeTimeout = 60 * time.Second

// Summarizer produces answers via an OpenAI-compatible chat completion API.
type Summarizer struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// SummarizerConfig holds the summarization provider settings.
type SummarizerConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewSummarizer creates an OpenAI-compatible summarization provider.
func NewSummarizer(cfg *SummarizerConfig) *Summarizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSummarizeTimeout
	}

	return &Summarizer{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
		logger:      cfg.Logger,
	}
}

// Summarize implements domain.Summarizer. An empty context is a defined
// outcome of retrieval, so it is answered with an explicit "nothing found"
// instruction instead of failing.
func (s *Summarizer) Summarize(ctx context.Context, query, contextText string) (string, error) {
	var userContent string
	if contextText == "" {
		userContent = fmt.Sprintf("%s\n\nQuestion: %s", emptyContextPrompt, query)
	} else {
		userContent = fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, query)
	}

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userContent},
		},
	}

	// Each provider call is individually time-bounded; the server's write
	// timeout does not cancel handler contexts.
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("summarization timed out: %w",
				errors.Join(domain.ErrTimeout, domain.ErrSummarizationFailed))
		}
		return "", fmt.Errorf("chat completion: %w: %w", domain.ErrSummarizationFailed, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response: %w", domain.ErrSummarizationFailed)
	}

	return resp.Choices[0].Message.Content, nil
}
