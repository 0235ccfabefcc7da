// Package data loads the static game tables (creatures, spawns) from YAML.
// Defaults are compiled into the binary; a data directory on disk overrides
// individual files without rebuilding.
package data

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// Tables bundles every loaded game table.
type Tables struct {
	Creatures *CreatureTable
	Spawns    *SpawnTable
}

// Load reads all tables. For each file it prefers dir/<name>.yaml when it
// exists, falling back to the embedded default. An empty dir loads pure
// defaults.
func Load(dir string) (*Tables, error) {
	creatures, err := readTable(dir, "creatures.yaml")
	if err != nil {
		return nil, err
	}
	spawns, err := readTable(dir, "spawns.yaml")
	if err != nil {
		return nil, err
	}

	t := &Tables{}
	if t.Creatures, err = ParseCreatureTable(creatures); err != nil {
		return nil, err
	}
	if t.Spawns, err = ParseSpawnTable(spawns); err != nil {
		return nil, err
	}
	return t, nil
}

func readTable(dir, name string) ([]byte, error) {
	if dir != "" {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read table %s: %w", name, err)
		}
	}
	raw, err := defaultsFS.ReadFile("defaults/" + name)
	if err != nil {
		return nil, fmt.Errorf("read embedded table %s: %w", name, err)
	}
	return raw, nil
}
