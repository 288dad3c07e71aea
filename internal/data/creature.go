package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnimationSpec is one timed animation, keyed by creature state name.
type AnimationSpec struct {
	LengthMS float64 `yaml:"length_ms"`
	Frames   int     `yaml:"frames"`
	OneShot  bool    `yaml:"one_shot"`
}

// AttackSpec describes a melee attack: windup, then hit, then cooldown.
type AttackSpec struct {
	Damage     float64 `yaml:"damage"`
	WindupMS   float64 `yaml:"windup_ms"`
	CooldownMS float64 `yaml:"cooldown_ms"`
}

// Kind holds static data for one creature type loaded from YAML.
type Kind struct {
	Name       string                   `yaml:"name"`
	Hostile    bool                     `yaml:"hostile"`
	Width      float64                  `yaml:"width"`
	Height     float64                  `yaml:"height"`
	Speed      float64                  `yaml:"speed"` // px per game-ms
	MaxHealth  float64                  `yaml:"max_health"`
	Attack     AttackSpec               `yaml:"attack"`
	Animations map[string]AnimationSpec `yaml:"animations"`
}

type kindListFile struct {
	Player  string `yaml:"player"`
	Hostile string `yaml:"default_hostile"`
	Kinds   []Kind `yaml:"kinds"`
}

// KindTable holds all creature kinds indexed by name.
type KindTable struct {
	kinds   map[string]*Kind
	player  string
	hostile string
}

// LoadKindTable loads creature kinds from a YAML file.
func LoadKindTable(path string) (*KindTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read creature kinds: %w", err)
	}
	return ParseKindTable(raw)
}

// ParseKindTable parses the creatures.yaml document.
func ParseKindTable(raw []byte) (*KindTable, error) {
	var f kindListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse creature kinds: %w", err)
	}
	t := &KindTable{
		kinds:   make(map[string]*Kind, len(f.Kinds)),
		player:  f.Player,
		hostile: f.Hostile,
	}
	for i := range f.Kinds {
		k := &f.Kinds[i]
		if k.Name == "" {
			return nil, fmt.Errorf("creature kind #%d has no name", i)
		}
		if k.Width <= 0 || k.Height <= 0 {
			return nil, fmt.Errorf("creature kind %q: box %vx%v must be positive", k.Name, k.Width, k.Height)
		}
		if k.MaxHealth <= 0 {
			return nil, fmt.Errorf("creature kind %q: max_health must be positive", k.Name)
		}
		if _, dup := t.kinds[k.Name]; dup {
			return nil, fmt.Errorf("creature kind %q defined twice", k.Name)
		}
		t.kinds[k.Name] = k
	}
	if t.kinds[t.player] == nil {
		return nil, fmt.Errorf("player kind %q not defined", t.player)
	}
	if t.hostile != "" && t.kinds[t.hostile] == nil {
		return nil, fmt.Errorf("default hostile kind %q not defined", t.hostile)
	}
	return t, nil
}

// Get returns a kind by name, or nil if not found.
func (t *KindTable) Get(name string) *Kind {
	return t.kinds[name]
}

// Player returns the kind used for the player creature.
func (t *KindTable) Player() *Kind {
	return t.kinds[t.player]
}

// Hostile returns the kind for a spawn. An empty name selects the default.
func (t *KindTable) Hostile(name string) *Kind {
	if name == "" {
		name = t.hostile
	}
	return t.kinds[name]
}

// Count returns the number of loaded kinds.
func (t *KindTable) Count() int {
	return len(t.kinds)
}
