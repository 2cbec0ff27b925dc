package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
)

// Store persists structured summaries between runs.
type Store interface {
	GetSummary(ctx context.Context, key string) (string, bool, error)
	PutSummary(ctx context.Context, key string, category domain.Category, model string, summary string) error
}

// Cached answers repeated reviews from memory or from a Store before
// delegating to the wrapped summarizer. Unstructured summaries are never
// cached.
type Cached struct {
	next   Summarizer
	model  string
	store  Store
	memory *memo
	log    *slog.Logger
}

// NewCached wraps next. store may be nil.
func NewCached(next Summarizer, model string, store Store, log *slog.Logger) *Cached {
	return &Cached{
		next:   next,
		model:  model,
		store:  store,
		memory: newMemo(memoMaxEntries),
		log:    log,
	}
}

func (c *Cached) Summarize(ctx context.Context, req Request) (domain.Summary, error) {
	memoized := newMemoKey(c.model, req)
	if summary, ok := c.memory.get(memoized); ok {
		return summary, nil
	}

	key := cacheKey(c.model, req)

	if c.store != nil {
		text, ok, err := c.store.GetSummary(ctx, key)
		if err != nil {
			c.log.WarnContext(ctx, "Failed to read cached summary",
				"error", err,
				"category", req.Category)
		} else if ok {
			summary := domain.Summary{Text: text}
			c.memory.put(memoized, summary)

			return summary, nil
		}
	}

	summary, err := c.next.Summarize(ctx, req)
	if err != nil {
		return domain.Summary{}, err
	}

	if summary.Unstructured {
		return summary, nil
	}

	c.memory.put(memoized, summary)

	if c.store != nil {
		if err = c.store.PutSummary(ctx, key, req.Category, c.model, summary.Text); err != nil {
			c.log.WarnContext(ctx, "Failed to store summary",
				"error", err,
				"category", req.Category)
		}
	}

	return summary, nil
}

func cacheKey(model string, req Request) string {
	text := strings.TrimSpace(req.Text)

	hasher := sha256.New()
	hasher.Write([]byte(strings.TrimSpace(model)))
	hasher.Write([]byte{0})
	hasher.Write([]byte(req.Category))
	hasher.Write([]byte{0})
	hasher.Write([]byte(text))

	return hex.EncodeToString(hasher.Sum(nil))
}
