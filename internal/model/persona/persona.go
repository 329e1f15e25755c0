package persona

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultName is used when the user leaves the name field blank.
const DefaultName = "Harsvardhan"

var (
	ErrInvalidGender    = errors.New("invalid gender")
	ErrInvalidExpertise = errors.New("invalid expertise")
	ErrInvalidTone      = errors.New("invalid tone")
	ErrInvalidMood      = errors.New("invalid mood")
	ErrInvalidVariant   = errors.New("invalid variant")
)

// Gender selects the pronoun set the character uses.
type Gender string

const (
	Male    Gender = "Male"
	Female  Gender = "Female"
	Neutral Gender = "Neutral"
)

// Pronouns returns the pronoun phrase interpolated into prompts.
func (g Gender) Pronouns() string {
	switch g {
	case Male:
		return "he/him"
	case Female:
		return "she/her"
	default:
		return "they/them"
	}
}

// Expertise is the knowledge domain the character claims.
type Expertise string

const (
	Education  Expertise = "Education"
	Healthcare Expertise = "Healthcare"
	Gaming     Expertise = "Gaming"
	Finance    Expertise = "Finance"
)

// Tone is the fixed personality of the tone variant.
type Tone string

const (
	Friendly   Tone = "Friendly"
	Formal     Tone = "Formal"
	Humorous   Tone = "Humorous"
	Empathetic Tone = "Empathetic"
)

// Mood is the coarse emotional label of the mood variant.
type Mood string

const (
	Calm       Mood = "Calm"
	Agitated   Mood = "Agitated"
	Excited    Mood = "Excited"
	Thoughtful Mood = "Thoughtful"
)

// DefaultMood is the mood a conversation starts in.
const DefaultMood = Calm

// NoOverride is the manual-override value that defers to the classifier.
const NoOverride = "None"

// Variant chooses between a fixed tone and a per-turn mood.
type Variant string

const (
	VariantTone Variant = "tone"
	VariantMood Variant = "mood"
)

func Genders() []Gender { return []Gender{Male, Female, Neutral} }
func Expertises() []Expertise { return []Expertise{Education, Healthcare, Gaming, Finance} }
func Tones() []Tone { return []Tone{Friendly, Formal, Humorous, Empathetic} }
func Moods() []Mood { return []Mood{Calm, Agitated, Excited, Thoughtful} }
func Variants() []Variant { return []Variant{VariantTone, VariantMood} }
func MoodOverrides() []string { return []string{NoOverride, string(Calm), string(Agitated), string(Excited), string(Thoughtful)} }

// ParseGender matches raw case-insensitively against the gender set.
func ParseGender(raw string) (Gender, error) {
	for _, g := range Genders() {
		if strings.EqualFold(strings.TrimSpace(raw), string(g)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGender, raw)
}

func ParseExpertise(raw string) (Expertise, error) {
	for _, e := range Expertises() {
		if strings.EqualFold(strings.TrimSpace(raw), string(e)) {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidExpertise, raw)
}

func ParseTone(raw string) (Tone, error) {
	for _, t := range Tones() {
		if strings.EqualFold(strings.TrimSpace(raw), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTone, raw)
}

func ParseMood(raw string) (Mood, error) {
	for _, m := range Moods() {
		if strings.EqualFold(strings.TrimSpace(raw), string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMood, raw)
}

// ParseVariant defaults to the tone variant when raw is empty.
func ParseVariant(raw string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(VariantTone):
		return VariantTone, nil
	case string(VariantMood):
		return VariantMood, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVariant, raw)
	}
}

// Config is the persona a conversation is started with. Tone is set in the
// tone variant, Mood in the mood variant.
type Config struct {
	Name      string    `json:"name" yaml:"name"`
	Gender    Gender    `json:"gender" yaml:"gender"`
	Expertise Expertise `json:"expertise" yaml:"expertise"`
	Tone      Tone      `json:"tone,omitempty" yaml:"tone,omitempty"`
	Mood      Mood      `json:"mood,omitempty" yaml:"mood,omitempty"`
}

// Default mirrors the initial state of the sidebar controls.
func Default() Config {
	return Config{
		Name:      DefaultName,
		Gender:    Male,
		Expertise: Education,
		Tone:      Friendly,
		Mood:      Calm,
	}
}

// Normalize validates every enumerated field for the given variant and
// fills the defaults. The returned config only carries the field that
// belongs to the variant.
func (c Config) Normalize(variant Variant) (Config, error) {
	out := Config{Name: strings.TrimSpace(c.Name)}
	if out.Name == "" {
		out.Name = DefaultName
	}

	var err error
	if out.Gender, err = ParseGender(string(c.Gender)); err != nil {
		return Config{}, err
	}
	if out.Expertise, err = ParseExpertise(string(c.Expertise)); err != nil {
		return Config{}, err
	}

	switch variant {
	case VariantMood:
		if c.Mood == "" {
			out.Mood = DefaultMood
		} else if out.Mood, err = ParseMood(string(c.Mood)); err != nil {
			return Config{}, err
		}
	case VariantTone:
		if out.Tone, err = ParseTone(string(c.Tone)); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidVariant, variant)
	}
	return out, nil
}

// Temperament is the tone or mood label interpolated into prompts.
func (c Config) Temperament() string {
	if c.Tone != "" {
		return string(c.Tone)
	}
	return string(c.Mood)
}
