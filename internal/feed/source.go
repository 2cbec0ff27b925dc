package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"mvdan.cc/xurls/v2"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
)

const feedClientTimeout = 20 * time.Second

// IsFeedURL reports whether input is a single http(s) URL rather than a
// file path.
func IsFeedURL(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	urlRe, err := xurls.StrictMatchingScheme(`https?://`)
	if err != nil {
		return false
	}

	return urlRe.FindString(input) == input
}

// Source reads reviews from an RSS or Atom feed, such as an App Store
// customer reviews feed.
type Source struct {
	parser *gofeed.Parser
	log    *slog.Logger
}

func NewSource(log *slog.Logger) *Source {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: feedClientTimeout}

	return &Source{
		parser: parser,
		log:    log,
	}
}

func (s *Source) Reviews(ctx context.Context, feedURL string) ([]domain.Review, error) {
	feedURL = strings.TrimSpace(feedURL)

	parsed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed by URL %q: %w", feedURL, err)
	}

	reviews := reviewsFromFeed(parsed)

	s.log.InfoContext(ctx, "Feed is parsed",
		"feedURL", feedURL,
		"feedTitle", strings.TrimSpace(parsed.Title),
		"itemCount", len(parsed.Items),
		"reviewCount", len(reviews))

	return reviews, nil
}

func reviewsFromFeed(parsed *gofeed.Feed) []domain.Review {
	if parsed == nil {
		return nil
	}

	reviews := make([]domain.Review, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}

		text := itemText(item)
		if text == "" {
			continue
		}

		reviews = append(reviews, domain.Review{Text: text})
	}

	return reviews
}

func itemText(item *gofeed.Item) string {
	for _, candidate := range []string{item.Content, item.Description, item.Title} {
		if text := plainText(candidate); text != "" {
			return text
		}
	}
	return ""
}

// plainText drops markup and collapses whitespace.
func plainText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	text := raw
	if strings.Contains(raw, "<") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
		if err == nil {
			text = doc.Text()
		}
	}

	return strings.Join(strings.Fields(text), " ")
}
