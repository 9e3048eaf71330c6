package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		body  string
		want  domain.Category
	}{
		{
			name:  "gpt model release",
			title: "OpenAI releases new GPT model",
			want:  domain.CategoryAIML,
		},
		{
			name:  "standalone ai token",
			title: "How AI is reshaping logistics",
			want:  domain.CategoryAIML,
		},
		{
			name:  "startup funding",
			title: "Fintech startup raises $40M in funding round",
			want:  domain.CategoryStartups,
		},
		{
			name:  "ransomware attack",
			title: "Hospital chain hit by ransomware attack",
			want:  domain.CategoryCybersecurity,
		},
		{
			name:  "iphone launch",
			title: "Apple unveils the next iPhone lineup",
			want:  domain.CategoryMobile,
		},
		{
			name:  "crypto markets",
			title: "Bitcoin climbs as traders return",
			want:  domain.CategoryWeb3,
		},
		{
			name:  "keyword in body only",
			title: "Quarterly roundup",
			body:  "This quarter the startup scene cooled considerably.",
			want:  domain.CategoryStartups,
		},
		{
			name:  "first match wins over later categories",
			title: "Machine learning startup secures funding",
			want:  domain.CategoryAIML,
		},
		{
			name:  "no recognized keyword",
			title: "Local bakery wins regional award",
			want:  domain.CategoryOthers,
		},
		{
			name: "empty input",
			want: domain.CategoryOthers,
		},
		{
			name:  "air is not ai",
			title: "Airlines expand their routes",
			want:  domain.CategoryOthers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.title, tt.body))
		})
	}
}

func TestSnippetShortBody(t *testing.T) {
	t.Parallel()

	got := Snippet("<p>A short  body</p>")
	assert.Equal(t, "A short body", got)
	assert.NotContains(t, got, "...")
}

func TestSnippetTruncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", 100)
	got := Snippet(long)

	assert.True(t, strings.HasSuffix(got, "..."), "truncated snippet must end with ellipsis")
	assert.LessOrEqual(t, len([]rune(got)), 203)
}

func TestSnippetStripsMarkup(t *testing.T) {
	t.Parallel()

	got := Snippet("<div>clean &amp; <b>simple</b></div>")
	assert.Equal(t, "clean & simple", got)
}
