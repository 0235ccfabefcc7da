package data

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// SpawnRule sets how a floor at a given depth gets populated.
type SpawnRule struct {
	Depth        int `yaml:"depth"`
	MinCreatures int `yaml:"min_creatures"`
	MaxCreatures int `yaml:"max_creatures"`
	MinPotions   int `yaml:"min_potions"`
	MaxPotions   int `yaml:"max_potions"`
	PotionHeal   int `yaml:"potion_heal"`
}

type spawnListFile struct {
	Spawns []SpawnRule `yaml:"spawns"`
}

// SpawnTable maps depths to spawn rules. Depths past the deepest rule
// clamp to it, so the table never runs out.
type SpawnTable struct {
	rules []SpawnRule
}

// ParseSpawnTable parses and validates spawn rules, sorted by depth.
func ParseSpawnTable(raw []byte) (*SpawnTable, error) {
	var f spawnListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spawns: %w", err)
	}
	if len(f.Spawns) == 0 {
		return nil, fmt.Errorf("parse spawns: empty table")
	}
	rules := f.Spawns
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Depth < rules[j].Depth })
	for i, r := range rules {
		if r.Depth < 1 {
			return nil, fmt.Errorf("spawn rule %d: depth must be >= 1", i)
		}
		if i > 0 && rules[i-1].Depth == r.Depth {
			return nil, fmt.Errorf("spawn rule depth %d: duplicate", r.Depth)
		}
		if r.MinCreatures < 0 || r.MaxCreatures < r.MinCreatures {
			return nil, fmt.Errorf("spawn rule depth %d: bad creature range %d..%d", r.Depth, r.MinCreatures, r.MaxCreatures)
		}
		if r.MinPotions < 0 || r.MaxPotions < r.MinPotions {
			return nil, fmt.Errorf("spawn rule depth %d: bad potion range %d..%d", r.Depth, r.MinPotions, r.MaxPotions)
		}
		if r.PotionHeal < 0 {
			return nil, fmt.Errorf("spawn rule depth %d: negative potion_heal", r.Depth)
		}
	}
	return &SpawnTable{rules: rules}, nil
}

// Count returns the number of explicit depth rules.
func (t *SpawnTable) Count() int {
	return len(t.rules)
}

// ForDepth returns the rule for a depth. Depths below the shallowest rule
// use the shallowest; depths beyond the deepest use the deepest.
func (t *SpawnTable) ForDepth(depth int) SpawnRule {
	rule := t.rules[0]
	for _, r := range t.rules {
		if r.Depth > depth {
			break
		}
		rule = r
	}
	return rule
}
