package runner_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
	"github.com/greyCat08/LLMAgentsForPM/internal/runner"
	"github.com/greyCat08/LLMAgentsForPM/internal/summarizer"
)

type recordingSummarizer struct {
	mu       sync.Mutex
	requests []summarizer.Request
	failOn   int
	results  map[string]domain.Summary
}

func (s *recordingSummarizer) Summarize(_ context.Context, req summarizer.Request) (domain.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)
	if s.failOn > 0 && len(s.requests) == s.failOn {
		return domain.Summary{}, errors.New("connection reset")
	}

	if summary, ok := s.results[req.Text]; ok {
		return summary, nil
	}

	return domain.Summary{Text: "summary of " + req.Text}, nil
}

type countingPacer struct {
	waits int
}

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits++
	return ctx.Err()
}

func newRunner(s summarizer.Summarizer, p *countingPacer) *runner.Runner {
	return runner.New(runner.Options{
		Summarizer: s,
		Pacer:      p,
		Log:        slog.New(slog.DiscardHandler),
	})
}

func TestRunClassifiesAndSummarizesInOrder(t *testing.T) {
	s := &recordingSummarizer{}
	p := &countingPacer{}

	records, err := newRunner(s, p).Run(context.Background(), []domain.Review{
		{Text: "App crashes constantly"},
		{Text: "  Love the new UI but it's pricey  "},
		{Text: "Please add dark mode"},
	})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []domain.Category{
		domain.CategoryBugCrash,
		domain.CategorySubscriptionPrice,
		domain.CategoryFeatureRequest,
	}, []domain.Category{records[0].Category, records[1].Category, records[2].Category})

	assert.Equal(t, "Love the new UI but it's pricey", records[1].Review)
	assert.JSONEq(t,
		`{"text":"Love the new UI but it's pricey","category":"Subscription/Price"}`,
		records[1].ToolOutput)
	assert.Equal(t, "summary of Please add dark mode", records[2].AssistantSummary)

	require.Len(t, s.requests, 3)
	assert.Equal(t, summarizer.Request{Text: "App crashes constantly", Category: domain.CategoryBugCrash}, s.requests[0])
	assert.Equal(t, 3, p.waits)
}

func TestRunEmptyReviewIsOther(t *testing.T) {
	s := &recordingSummarizer{}

	records, err := newRunner(s, &countingPacer{}).Run(context.Background(), []domain.Review{{Text: "   "}})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "", records[0].Review)
	assert.Equal(t, domain.CategoryOther, records[0].Category)
}

func TestRunUsesRawPayloadForUnstructuredSummary(t *testing.T) {
	s := &recordingSummarizer{results: map[string]domain.Summary{
		"Meh": {Raw: `{"id":"x","choices":[]}`, Unstructured: true},
	}}

	records, err := newRunner(s, &countingPacer{}).Run(context.Background(), []domain.Review{{Text: "Meh"}})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, `{"id":"x","choices":[]}`, records[0].AssistantSummary)
	assert.True(t, records[0].Unstructured)
	assert.Equal(t, 1, runner.UnstructuredCount(records))
}

func TestRunCallsSummarizerOncePerRecord(t *testing.T) {
	s := &recordingSummarizer{}
	p := &countingPacer{}

	records, err := newRunner(s, p).Run(context.Background(), []domain.Review{
		{Text: "Love it"},
		{Text: "Love it"},
		{Text: "Love it"},
	})
	require.NoError(t, err)

	assert.Len(t, records, 3)
	assert.Len(t, s.requests, 3)
	assert.Equal(t, 3, p.waits)
}

func TestRunToolOutputKeepsHTMLCharacters(t *testing.T) {
	records, err := newRunner(&recordingSummarizer{}, &countingPacer{}).Run(context.Background(), []domain.Review{
		{Text: "Tom & Jerry <3"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, `{"text":"Tom & Jerry <3","category":"Other"}`, records[0].ToolOutput)
	assert.False(t, records[0].Unstructured)
}

func TestRunAbortsOnSummarizerError(t *testing.T) {
	s := &recordingSummarizer{failOn: 2}

	records, err := newRunner(s, &countingPacer{}).Run(context.Background(), []domain.Review{
		{Text: "one"},
		{Text: "two"},
		{Text: "three"},
	})
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Len(t, s.requests, 2)
}

func TestRunStopsWhenPacerIsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &recordingSummarizer{}

	_, err := newRunner(s, &countingPacer{}).Run(ctx, []domain.Review{{Text: "one"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.requests)
}

func TestRunNoReviews(t *testing.T) {
	records, err := newRunner(&recordingSummarizer{}, &countingPacer{}).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUnstructuredCount(t *testing.T) {
	assert.Equal(t, 0, runner.UnstructuredCount(nil))
	assert.Equal(t, 2, runner.UnstructuredCount([]domain.OutputRecord{
		{Unstructured: true},
		{},
		{Unstructured: true},
	}))
}

func TestCategoryCounts(t *testing.T) {
	counts := runner.CategoryCounts([]domain.OutputRecord{
		{Category: domain.CategoryBugCrash},
		{Category: domain.CategoryBugCrash},
		{Category: domain.CategoryPraise},
	})

	assert.Equal(t, map[domain.Category]int{
		domain.CategoryBugCrash: 2,
		domain.CategoryPraise:   1,
	}, counts)
}
