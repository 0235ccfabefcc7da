package data

import (
	"fmt"
	"math/rand"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// CreatureTemplate holds static data for one creature type loaded from YAML.
type CreatureTemplate struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Glyph    string `yaml:"glyph"`
	Color    string `yaml:"color"`
	HP       int    `yaml:"hp"`
	Damage   int    `yaml:"damage"`
	Profile  string `yaml:"profile"`
	MinDepth int    `yaml:"min_depth"`
	MaxDepth int    `yaml:"max_depth"`
	Weight   int    `yaml:"weight"`
}

// Rune returns the template's single display rune.
func (t *CreatureTemplate) Rune() rune {
	r, _ := utf8.DecodeRuneInString(t.Glyph)
	return r
}

type creatureListFile struct {
	Creatures []CreatureTemplate `yaml:"creatures"`
}

// CreatureTable holds all creature templates, ordered as loaded so weighted
// picks stay reproducible, and indexed by ID.
type CreatureTable struct {
	ordered []CreatureTemplate
	byID    map[string]*CreatureTemplate
}

// ParseCreatureTable parses and validates a creature list.
func ParseCreatureTable(raw []byte) (*CreatureTable, error) {
	var f creatureListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse creatures: %w", err)
	}
	if len(f.Creatures) == 0 {
		return nil, fmt.Errorf("parse creatures: empty table")
	}
	t := &CreatureTable{
		ordered: f.Creatures,
		byID:    make(map[string]*CreatureTemplate, len(f.Creatures)),
	}
	for i := range t.ordered {
		c := &t.ordered[i]
		if c.ID == "" {
			return nil, fmt.Errorf("creature %d: missing id", i)
		}
		if _, dup := t.byID[c.ID]; dup {
			return nil, fmt.Errorf("creature %s: duplicate id", c.ID)
		}
		if utf8.RuneCountInString(c.Glyph) != 1 {
			return nil, fmt.Errorf("creature %s: glyph must be one rune, got %q", c.ID, c.Glyph)
		}
		if c.HP <= 0 || c.Damage < 0 {
			return nil, fmt.Errorf("creature %s: bad stats hp=%d damage=%d", c.ID, c.HP, c.Damage)
		}
		if c.Weight <= 0 {
			return nil, fmt.Errorf("creature %s: weight must be positive", c.ID)
		}
		if c.MaxDepth < c.MinDepth {
			return nil, fmt.Errorf("creature %s: max_depth below min_depth", c.ID)
		}
		t.byID[c.ID] = c
	}
	return t, nil
}

// Get returns a template by ID, or nil if not found.
func (t *CreatureTable) Get(id string) *CreatureTemplate {
	return t.byID[id]
}

// Count returns the number of loaded templates.
func (t *CreatureTable) Count() int {
	return len(t.ordered)
}

// ForDepth returns the templates eligible at a depth, in table order.
func (t *CreatureTable) ForDepth(depth int) []*CreatureTemplate {
	out := make([]*CreatureTemplate, 0, len(t.ordered))
	for i := range t.ordered {
		c := &t.ordered[i]
		if depth >= c.MinDepth && depth <= c.MaxDepth {
			out = append(out, c)
		}
	}
	return out
}

// PickForDepth draws one eligible template by spawn weight. Returns nil
// when nothing is eligible at that depth.
func (t *CreatureTable) PickForDepth(rng *rand.Rand, depth int) *CreatureTemplate {
	eligible := t.ForDepth(depth)
	if len(eligible) == 0 {
		return nil
	}
	total := 0
	for _, c := range eligible {
		total += c.Weight
	}
	roll := rng.Intn(total)
	for _, c := range eligible {
		roll -= c.Weight
		if roll < 0 {
			return c
		}
	}
	return eligible[len(eligible)-1]
}
