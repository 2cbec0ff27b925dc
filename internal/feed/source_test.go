package feed_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
	"github.com/greyCat08/LLMAgentsForPM/internal/feed"
)

func TestIsFeedURL(t *testing.T) {
	assert.True(t, feed.IsFeedURL("https://itunes.apple.com/us/rss/customerreviews/id=1/xml"))
	assert.True(t, feed.IsFeedURL(" http://127.0.0.1:8080/feed "))
	assert.False(t, feed.IsFeedURL("reviews.csv"))
	assert.False(t, feed.IsFeedURL("data/https.csv"))
	assert.False(t, feed.IsFeedURL(""))
}

func TestSourceReviews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>Reviews</title>
<item><title>Bad</title><description>Billing charged me twice</description></item>
<item><title>Good</title><description>Amazing app</description></item>
</channel></rss>`))
	}))
	defer server.Close()

	reviews, err := feed.NewSource(slog.New(slog.DiscardHandler)).Reviews(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, []domain.Review{
		{Text: "Billing charged me twice"},
		{Text: "Amazing app"},
	}, reviews)
}

func TestSourceReviewsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := feed.NewSource(slog.New(slog.DiscardHandler)).Reviews(context.Background(), server.URL)
	require.Error(t, err)
}
