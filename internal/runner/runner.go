package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/greyCat08/LLMAgentsForPM/internal/classifier"
	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
	"github.com/greyCat08/LLMAgentsForPM/internal/pacing"
	"github.com/greyCat08/LLMAgentsForPM/internal/summarizer"
)

const previewMaxChars = 80

type Options struct {
	Summarizer summarizer.Summarizer
	// Pacer is consulted before every summarization call. Nil means no pacing.
	Pacer pacing.Pacer
	Log   *slog.Logger
}

// Runner classifies and summarizes reviews one at a time, in input order.
type Runner struct {
	summarizer summarizer.Summarizer
	pacer      pacing.Pacer
	log        *slog.Logger
}

func New(opts Options) *Runner {
	pacer := opts.Pacer
	if pacer == nil {
		pacer = pacing.None()
	}

	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	return &Runner{
		summarizer: opts.Summarizer,
		pacer:      pacer,
		log:        log,
	}
}

// Run returns one record per review. Any summarization failure aborts the
// whole run and no records are returned.
func (r *Runner) Run(ctx context.Context, reviews []domain.Review) ([]domain.OutputRecord, error) {
	records := make([]domain.OutputRecord, 0, len(reviews))
	total := len(reviews)

	for i, review := range reviews {
		text := strings.TrimSpace(review.Text)

		r.log.InfoContext(ctx, "Classifying review",
			"index", i+1,
			"total", total,
			"preview", preview(text))

		record, err := r.process(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("process review %d/%d: %w", i+1, total, err)
		}

		records = append(records, record)
	}

	return records, nil
}

func (r *Runner) process(ctx context.Context, text string) (domain.OutputRecord, error) {
	result := classifier.ClassifyReview(text)

	toolOutput, err := marshalToolOutput(result)
	if err != nil {
		return domain.OutputRecord{}, fmt.Errorf("marshal classification: %w", err)
	}

	if err = r.pacer.Wait(ctx); err != nil {
		return domain.OutputRecord{}, fmt.Errorf("wait for pacer: %w", err)
	}

	summary, err := r.summarizer.Summarize(ctx, summarizer.Request{
		Text:     result.Text,
		Category: result.Category,
	})
	if err != nil {
		return domain.OutputRecord{}, fmt.Errorf("summarize: %w", err)
	}

	if summary.Unstructured {
		r.log.WarnContext(ctx, "Summary text is missing so raw response is used",
			"category", result.Category,
			"rawLength", len(summary.Raw))
	}

	return domain.OutputRecord{
		Review:           result.Text,
		Category:         result.Category,
		ToolOutput:       toolOutput,
		AssistantSummary: summary.String(),
		Unstructured:     summary.Unstructured,
	}, nil
}

// marshalToolOutput keeps "&", "<" and ">" as written in the review.
func marshalToolOutput(result domain.ClassificationResult) (string, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(result); err != nil {
		return "", err
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewMaxChars {
		return text
	}

	runes := []rune(text)
	return string(runes[:previewMaxChars]) + "..."
}

// CategoryCounts tallies records per category.
func CategoryCounts(records []domain.OutputRecord) map[domain.Category]int {
	counts := make(map[domain.Category]int, len(domain.Categories()))
	for _, record := range records {
		counts[record.Category]++
	}
	return counts
}

func UnstructuredCount(records []domain.OutputRecord) int {
	count := 0
	for _, record := range records {
		if record.Unstructured {
			count++
		}
	}
	return count
}
