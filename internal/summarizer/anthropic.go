package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
)

const DefaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicSummarizer calls the Anthropic Messages API.
type AnthropicSummarizer struct {
	client          anthropic.Client
	model           string
	maxOutputTokens int64
}

func NewAnthropicSummarizer(opts Options, reqOpts ...option.RequestOption) *AnthropicSummarizer {
	clientOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	clientOpts = append(clientOpts, reqOpts...)

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultAnthropicModel
	}

	return &AnthropicSummarizer{
		client:          anthropic.NewClient(clientOpts...),
		model:           model,
		maxOutputTokens: opts.maxOutputTokens(),
	}
}

func (s *AnthropicSummarizer) Model() string {
	return s.model
}

func (s *AnthropicSummarizer) Summarize(
	ctx context.Context,
	req Request,
) (domain.Summary, error) {
	resp, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: s.maxOutputTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(Prompt(req))),
		},
	})
	if err != nil {
		return domain.Summary{}, fmt.Errorf("do request: %w", err)
	}

	return anthropicSummary(resp), nil
}

// anthropicSummary reads the first content block of the reply.
func anthropicSummary(resp *anthropic.Message) domain.Summary {
	if resp == nil {
		return unstructured(nil)
	}

	if len(resp.Content) > 0 && resp.Content[0].Type == "text" {
		if text := strings.TrimSpace(resp.Content[0].Text); text != "" {
			return domain.Summary{Text: text}
		}
	}

	return unstructured(resp)
}
