package emotion

import (
	"fmt"
	"log"
	"strings"

	analysis "github.com/zhouzirui/charbot/internal/analysis/emotion"
	"github.com/zhouzirui/charbot/internal/model/persona"
)

// Analyzer names accepted by Config.
const (
	AnalyzerVader   = "vader"
	AnalyzerLexicon = "lexicon"
)

// Sources reported on Guidance.
const (
	SourceManual     = "manual"
	SourceClassifier = "classifier"
)

// Config selects the sentiment scorer.
type Config struct {
	Analyzer string
}

// Guidance is the mood chosen for one turn and how it was chosen.
type Guidance struct {
	Mood     persona.Mood `json:"mood"`
	Polarity float64      `json:"polarity"`
	Source   string       `json:"source"`
}

// Service resolves the mood of a turn from a manual override or the
// sentiment of the latest user message.
type Service struct {
	scorer analysis.Scorer
}

// NewService builds the scorer named in cfg.
func NewService(cfg Config) (*Service, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Analyzer)) {
	case "", AnalyzerVader:
		return &Service{scorer: analysis.NewVaderScorer()}, nil
	case AnalyzerLexicon:
		return &Service{scorer: analysis.NewLexiconScorer()}, nil
	default:
		return nil, fmt.Errorf("unknown sentiment analyzer %q", cfg.Analyzer)
	}
}

// NewServiceWithScorer injects a scorer, mainly for tests.
func NewServiceWithScorer(scorer analysis.Scorer) *Service {
	return &Service{scorer: scorer}
}

// Resolve returns the mood for a turn. An empty or "None" override defers to
// the classifier; any other valid mood is pinned without scoring the text.
func (s *Service) Resolve(override, text string) (Guidance, error) {
	override = strings.TrimSpace(override)
	if override != "" && !strings.EqualFold(override, persona.NoOverride) {
		mood, err := persona.ParseMood(override)
		if err != nil {
			return Guidance{}, err
		}
		return Guidance{Mood: mood, Source: SourceManual}, nil
	}

	score := s.scorer.Polarity(text)
	mood := analysis.Classify(score)
	log.Printf("[emotion] polarity=%.3f mood=%s", score, mood)
	return Guidance{Mood: mood, Polarity: score, Source: SourceClassifier}, nil
}
