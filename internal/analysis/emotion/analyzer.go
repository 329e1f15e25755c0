package emotion

import (
	"math"
	"strings"
	"unicode"

	"github.com/jonreiter/govader"

	"github.com/zhouzirui/charbot/internal/model/persona"
)

// Classification thresholds on the polarity score.
const (
	ExcitedThreshold  = 0.5
	AgitatedThreshold = -0.5
)

// Scorer turns free text into a sentiment polarity in [-1, 1].
type Scorer interface {
	Polarity(text string) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(text string) float64

func (f ScorerFunc) Polarity(text string) float64 { return f(text) }

// Classify maps a polarity score onto a mood. Thoughtful is never produced
// here; it can only be pinned manually.
func Classify(score float64) persona.Mood {
	switch {
	case score > ExcitedThreshold:
		return persona.Excited
	case score < AgitatedThreshold:
		return persona.Agitated
	default:
		return persona.Calm
	}
}

// VaderScorer scores text with the VADER lexicon and returns the compound score.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer loads the VADER lexicon. The analyzer is read-only after
// construction and safe to share.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (s *VaderScorer) Polarity(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return clamp(s.analyzer.PolarityScores(text).Compound)
}

// LexiconScorer is a small keyword lexicon used when the VADER data is not
// wanted. Each hit adds its weight; exclamation marks amplify whichever
// direction dominates.
type LexiconScorer struct {
	weights map[string]float64
}

var lexicon = map[string]float64{
	// positive
	"happy": 2, "glad": 2, "great": 3, "awesome": 3, "amazing": 3, "love": 3,
	"thanks": 2, "thank": 2, "wonderful": 3, "excellent": 3, "fantastic": 3,
	"excited": 3, "wow": 2, "cool": 1.5, "nice": 1.5, "good": 1.5, "fun": 2,
	"yay": 2.5, "perfect": 3, "best": 2.5, "enjoy": 2, "brilliant": 3,
	// negative
	"sad": -2, "upset": -2.5, "angry": -3, "furious": -3.5, "hate": -3,
	"terrible": -3, "awful": -3, "horrible": -3, "worst": -3, "annoyed": -2,
	"mad": -2.5, "depressed": -3, "hurt": -2, "cry": -2, "bad": -2,
	"stupid": -2.5, "useless": -2.5, "frustrated": -2.5, "sucks": -2.5,
	"disappointed": -2.5, "rage": -3.5, "miserable": -3,
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "don't": {}, "dont": {}, "isn't": {},
	"isnt": {}, "wasn't": {}, "can't": {}, "cant": {}, "won't": {},
}

// NewLexiconScorer returns a scorer over the built-in lexicon.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{weights: lexicon}
}

func (s *LexiconScorer) Polarity(text string) float64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	var sum float64
	for i, w := range words {
		weight, ok := s.weights[w]
		if !ok {
			continue
		}
		if i > 0 {
			if _, negated := negations[words[i-1]]; negated {
				weight *= -0.5
			}
		}
		sum += weight
	}
	if sum == 0 {
		return 0
	}

	boost := float64(min(strings.Count(text, "!"), 4)) * 0.3
	if sum > 0 {
		sum += boost
	} else {
		sum -= boost
	}
	return clamp(sum / math.Sqrt(sum*sum+15))
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
