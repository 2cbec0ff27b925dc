package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
)

const DefaultOpenAIModel = string(openai.ChatModelGPT4oMini)

// OpenAISummarizer calls OpenAI's Chat Completions API to produce summaries.
type OpenAISummarizer struct {
	client          openai.Client
	model           string
	maxOutputTokens int64
}

// NewOpenAISummarizer builds a new summarizer instance.
func NewOpenAISummarizer(opts Options, reqOpts ...option.RequestOption) *OpenAISummarizer {
	clientOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	clientOpts = append(clientOpts, reqOpts...)

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAISummarizer{
		client:          openai.NewClient(clientOpts...),
		model:           model,
		maxOutputTokens: opts.maxOutputTokens(),
	}
}

func (s *OpenAISummarizer) Model() string {
	return s.model
}

// Summarize sends one user message and reads the first choice.
func (s *OpenAISummarizer) Summarize(
	ctx context.Context,
	req Request,
) (domain.Summary, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(Prompt(req)),
		},
		MaxCompletionTokens: openai.Int(s.maxOutputTokens),
	})
	if err != nil {
		return domain.Summary{}, fmt.Errorf("do request: %w", err)
	}

	return openAISummary(resp), nil
}

func openAISummary(resp *openai.ChatCompletion) domain.Summary {
	if resp == nil {
		return unstructured(nil)
	}

	if len(resp.Choices) > 0 {
		if text := strings.TrimSpace(resp.Choices[0].Message.Content); text != "" {
			return domain.Summary{Text: text}
		}
	}

	return unstructured(resp)
}
