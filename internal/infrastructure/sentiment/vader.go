package sentiment

import (
	"context"
	"math"

	"github.com/jonreiter/govader"

	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
)

const (
	positiveThreshold = 0.20
	negativeThreshold = -0.20
)

// Analyzer scores text locally with VADER. It is never "unavailable": empty
// or unscorable input yields a neutral result instead of an error.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// NewAnalyzer builds a ready-to-use analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// AnalyzeSentiment maps the VADER compound score onto a label.
func (a *Analyzer) AnalyzeSentiment(_ context.Context, text string) (domain.Sentiment, error) {
	if text == "" {
		return neutral(), nil
	}

	scores := a.vader.PolarityScores(text)

	result := domain.Sentiment{
		Score:      scores.Compound,
		Confidence: math.Abs(scores.Compound),
	}
	switch {
	case scores.Compound >= positiveThreshold:
		result.Label = "positive"
	case scores.Compound <= negativeThreshold:
		result.Label = "negative"
	default:
		result.Label = "neutral"
	}

	return result, nil
}

func neutral() domain.Sentiment {
	return domain.Sentiment{Label: "neutral", Score: 0, Confidence: 0}
}
