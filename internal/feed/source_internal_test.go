package feed

import (
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
)

const reviewsAtom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Customer Reviews</title>
  <entry>
    <title>Unusable</title>
    <content type="html">&lt;p&gt;App &lt;b&gt;crashes&lt;/b&gt;
      constantly&lt;/p&gt;</content>
  </entry>
  <entry>
    <title>Please add dark mode</title>
  </entry>
  <entry>
    <title></title>
    <content type="text">   </content>
  </entry>
</feed>`

func TestReviewsFromFeed(t *testing.T) {
	parsed, err := gofeed.NewParser().ParseString(reviewsAtom)
	require.NoError(t, err)

	assert.Equal(t, []domain.Review{
		{Text: "App crashes constantly"},
		{Text: "Please add dark mode"},
	}, reviewsFromFeed(parsed))
}

func TestReviewsFromNilFeed(t *testing.T) {
	assert.Nil(t, reviewsFromFeed(nil))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "", plainText("   "))
	assert.Equal(t, "no markup here", plainText("  no   markup\nhere "))
	assert.Equal(t, "Love it a lot", plainText("<div>Love <i>it</i><br/> a lot</div>"))
}
