package domain

import "time"

type Category string

const (
	CategoryBugCrash          Category = "Bug/Crash"
	CategorySubscriptionPrice Category = "Subscription/Price"
	CategoryFeatureRequest    Category = "Feature Request"
	CategoryPraise            Category = "Praise"
	CategoryUsability         Category = "Usability"
	CategoryOther             Category = "Other"
)

// Categories returns every category in classification priority order.
func Categories() []Category {
	return []Category{
		CategoryBugCrash,
		CategorySubscriptionPrice,
		CategoryFeatureRequest,
		CategoryPraise,
		CategoryUsability,
		CategoryOther,
	}
}

type Review struct {
	Text string
}

type ClassificationResult struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Summary is the outcome of a summarization call. Unstructured summaries
// carry the raw provider payload because the generated text could not be
// located in the response.
type Summary struct {
	Text         string
	Raw          string
	Unstructured bool
}

func (s Summary) String() string {
	if s.Unstructured {
		return s.Raw
	}
	return s.Text
}

type OutputRecord struct {
	Review           string
	Category         Category
	ToolOutput       string
	AssistantSummary string

	// Unstructured marks records whose summary is a raw provider payload.
	// It is not part of the written table.
	Unstructured bool
}

type RunReport struct {
	InputPath         string
	OutputPath        string
	Count             int
	UnstructuredCount int
	CategoryCounts    map[Category]int
	StartedAt         time.Time
	FinishedAt        time.Time
}

func (r RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
