package emotion

import (
	"testing"

	"github.com/zhouzirui/charbot/internal/model/persona"
)

func TestClassifyThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  persona.Mood
	}{
		{0.6, persona.Excited},
		{-0.7, persona.Agitated},
		{0.1, persona.Calm},
		{0.5, persona.Calm},
		{-0.5, persona.Calm},
		{1, persona.Excited},
		{-1, persona.Agitated},
	}
	for _, tc := range cases {
		if got := Classify(tc.score); got != tc.want {
			t.Fatalf("Classify(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestClassifyNeverThoughtful(t *testing.T) {
	for score := -1.0; score <= 1.0; score += 0.05 {
		if Classify(score) == persona.Thoughtful {
			t.Fatalf("Classify(%v) produced Thoughtful", score)
		}
	}
}

func TestLexiconScorerPolarity(t *testing.T) {
	s := NewLexiconScorer()

	if got := s.Polarity("I love this, it is amazing!!"); Classify(got) != persona.Excited {
		t.Fatalf("expected excited polarity, got %f", got)
	}
	if got := s.Polarity("I hate this, it is terrible"); Classify(got) != persona.Agitated {
		t.Fatalf("expected agitated polarity, got %f", got)
	}
	if got := s.Polarity("what time is it"); got != 0 {
		t.Fatalf("expected neutral polarity, got %f", got)
	}
	if got := s.Polarity("not good"); got >= 0 {
		t.Fatalf("expected negation to flip polarity, got %f", got)
	}
}

func TestLexiconScorerStaysInRange(t *testing.T) {
	s := NewLexiconScorer()
	got := s.Polarity("amazing amazing amazing amazing amazing amazing!!!!!!!!")
	if got > 1 || got < -1 {
		t.Fatalf("polarity out of range: %f", got)
	}
}

func TestVaderScorer(t *testing.T) {
	s := NewVaderScorer()

	if got := s.Polarity("I love this so much, it is amazing!"); Classify(got) != persona.Excited {
		t.Fatalf("expected excited polarity, got %f", got)
	}
	if got := s.Polarity("I hate this, it is terrible and awful"); Classify(got) != persona.Agitated {
		t.Fatalf("expected agitated polarity, got %f", got)
	}
	if got := s.Polarity("   "); got != 0 {
		t.Fatalf("expected zero polarity for blank text, got %f", got)
	}
}

func TestScorerFunc(t *testing.T) {
	var s Scorer = ScorerFunc(func(string) float64 { return -0.7 })
	if Classify(s.Polarity("anything")) != persona.Agitated {
		t.Fatal("expected ScorerFunc score to drive classification")
	}
}
