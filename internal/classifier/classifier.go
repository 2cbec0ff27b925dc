package classifier

import (
	"strings"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
)

type rule struct {
	category domain.Category
	keywords []string
}

// Order is part of the contract: when a review matches several groups the
// earliest group wins. "add " keeps its trailing space on purpose.
//
//nolint:gochecknoglobals // Rule table is immutable.
var rules = []rule{
	{
		category: domain.CategoryBugCrash,
		keywords: []string{"crash", "crashes", "crashed", "bug", "error", "freezing"},
	},
	{
		category: domain.CategorySubscriptionPrice,
		keywords: []string{"too expensive", "expensive", "price", "subscription", "billing", "charged"},
	},
	{
		category: domain.CategoryFeatureRequest,
		keywords: []string{"wish", "would be great", "should", "could you", "add ", "feature", "please add"},
	},
	{
		category: domain.CategoryPraise,
		keywords: []string{"love", "great", "amazing", "helped", "enjoy"},
	},
	{
		category: domain.CategoryUsability,
		keywords: []string{"hard to", "difficult", "confusing", "navigate", "usability", "ux", "ui"},
	},
}

// Classify maps review text to a category with a case-insensitive,
// first-match-wins substring scan.
func Classify(text string) domain.Category {
	lowered := strings.ToLower(text)

	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(lowered, keyword) {
				return r.category
			}
		}
	}

	return domain.CategoryOther
}

// ClassifyReview pairs the text with its category.
func ClassifyReview(text string) domain.ClassificationResult {
	return domain.ClassificationResult{
		Text:     text,
		Category: Classify(text),
	}
}
