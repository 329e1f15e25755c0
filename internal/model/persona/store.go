package persona

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownPreset is returned when a preset id is not in the store.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named persona the sidebar can be pre-filled with.
type Preset struct {
	ID          string  `json:"id" yaml:"id"`
	Label       string  `json:"label" yaml:"label"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Variant     Variant `json:"variant" yaml:"variant"`
	Persona     Config  `json:"persona" yaml:"persona"`
}

// Store exposes preset retrieval for HTTP handlers.
type Store interface {
	List() []Preset
	FindByID(id string) (Preset, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Preset
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied presets.
func NewMemoryStore(items []Preset) *MemoryStore {
	return &MemoryStore{items: append([]Preset(nil), items...)}
}

// List returns the preset list.
func (s *MemoryStore) List() []Preset {
	return append([]Preset(nil), s.items...)
}

// FindByID looks up a preset by identifier.
func (s *MemoryStore) FindByID(id string) (Preset, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Preset{}, false
}

// Seed provides the built-in presets.
func Seed() []Preset {
	return []Preset{
		{
			ID:          "default",
			Label:       "Harsvardhan",
			Description: "The sidebar defaults: a friendly education expert.",
			Variant:     VariantTone,
			Persona:     Default(),
		},
		{
			ID:          "study-buddy",
			Label:       "Study Buddy",
			Description: "A humorous tutor who keeps lessons light.",
			Variant:     VariantTone,
			Persona:     Config{Name: "Mira", Gender: Female, Expertise: Education, Tone: Humorous},
		},
		{
			ID:          "bedside",
			Label:       "Bedside Companion",
			Description: "An empathetic healthcare guide.",
			Variant:     VariantTone,
			Persona:     Config{Name: "Sam", Gender: Neutral, Expertise: Healthcare, Tone: Empathetic},
		},
		{
			ID:          "moody-gamer",
			Label:       "Moody Gamer",
			Description: "A gaming expert whose mood follows the conversation.",
			Variant:     VariantMood,
			Persona:     Config{Name: "Kai", Gender: Male, Expertise: Gaming, Mood: Calm},
		},
	}
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// LoadPresets reads presets from a YAML file. Every preset is validated so
// a bad file fails at startup rather than on the first start request.
func LoadPresets(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}

	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse presets %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(file.Presets))
	out := make([]Preset, 0, len(file.Presets))
	for i, p := range file.Presets {
		if p.ID == "" {
			return nil, fmt.Errorf("preset #%d: id is required", i+1)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("preset %q: duplicate id", p.ID)
		}
		seen[p.ID] = struct{}{}

		variant, err := ParseVariant(string(p.Variant))
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.ID, err)
		}
		cfg, err := p.Persona.Normalize(variant)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.ID, err)
		}
		p.Variant = variant
		p.Persona = cfg
		if p.Label == "" {
			p.Label = cfg.Name
		}
		out = append(out, p)
	}
	return out, nil
}
