package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
)

const DefaultMaxOutputTokens int64 = 200

// Request describes the payload for a summary request.
type Request struct {
	// Text is the trimmed review text.
	Text string
	// Category is the label assigned by the classifier.
	Category domain.Category
}

// Summarizer turns a classified review into a short PM-facing summary.
// Transport failures are returned as errors; a response whose generated
// text cannot be located is returned as an unstructured summary.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (domain.Summary, error)
}

// Options configure a provider-backed summarizer.
type Options struct {
	APIKey          string
	Model           string
	MaxOutputTokens int64
	// BaseURL overrides the provider endpoint. Empty means the SDK default.
	BaseURL string
}

func (o Options) maxOutputTokens() int64 {
	if o.MaxOutputTokens <= 0 {
		return DefaultMaxOutputTokens
	}
	return o.MaxOutputTokens
}

// Prompt renders the single user message sent for a review.
func Prompt(req Request) string {
	promptBuilder := strings.Builder{}
	promptBuilder.WriteString("Review: ")
	promptBuilder.WriteString(req.Text)
	promptBuilder.WriteString("\nCategory: ")
	promptBuilder.WriteString(string(req.Category))
	promptBuilder.WriteString("\nSummarize in 1-2 sentences for a Product Manager.")

	return promptBuilder.String()
}

type rawJSONer interface {
	RawJSON() string
}

func unstructured(resp rawJSONer) domain.Summary {
	raw := ""
	if resp != nil {
		raw = resp.RawJSON()
	}
	if raw == "" {
		raw = fmt.Sprintf("%+v", resp)
	}

	return domain.Summary{Raw: raw, Unstructured: true}
}
