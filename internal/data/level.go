package data

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/swarmgrid/swarmcore/internal/tilegrid"
)

// Point is a pixel position in level files.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Spawn places one hostile at level load.
type Spawn struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Health float64 `yaml:"health"` // fraction of max health; outside [0,1] means full
	Kind   string  `yaml:"kind,omitempty"`
}

// LevelInfo holds metadata for a single level, loaded from level_list.yaml.
type LevelInfo struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Tiles    string  `yaml:"tiles,omitempty"` // defaults to {id}.txt
	Player   Point   `yaml:"player"`
	Hostiles []Spawn `yaml:"hostiles"`
}

// Level is one playable layout with its tile codes.
type Level struct {
	LevelInfo
	Codes [][]tilegrid.Code
}

type levelListFile struct {
	Levels []LevelInfo `yaml:"levels"`
}

// LevelTable keeps levels in file order for progression.
type LevelTable struct {
	order []*Level
	byID  map[string]*Level
}

// LoadLevels loads level metadata from YAML and tile data from text files.
// yamlPath: path to level_list.yaml
// tileDir: directory containing the CSV tile files
func LoadLevels(yamlPath, tileDir string) (*LevelTable, error) {
	raw, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("read level list %s: %w", yamlPath, err)
	}
	var file levelListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse level list: %w", err)
	}

	levels := make([]*Level, 0, len(file.Levels))
	for _, info := range file.Levels {
		if info.ID == "" {
			return nil, fmt.Errorf("level %q has no id", info.Name)
		}
		name := info.Tiles
		if name == "" {
			name = info.ID + ".txt"
		}
		codes, err := loadTileFile(filepath.Join(tileDir, name))
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", info.ID, err)
		}
		levels = append(levels, &Level{LevelInfo: info, Codes: codes})
	}
	return NewLevelTable(levels...)
}

// NewLevelTable orders levels as given. IDs must be unique.
func NewLevelTable(levels ...*Level) (*LevelTable, error) {
	table := &LevelTable{byID: make(map[string]*Level, len(levels))}
	for _, lvl := range levels {
		if _, dup := table.byID[lvl.ID]; dup {
			return nil, fmt.Errorf("level %q listed twice", lvl.ID)
		}
		table.order = append(table.order, lvl)
		table.byID[lvl.ID] = lvl
	}
	return table, nil
}

// loadTileFile reads a CSV tile file: one line per row, comma-separated codes.
// Blank lines and lines starting with '#' are skipped.
func loadTileFile(path string) ([][]tilegrid.Code, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows [][]tilegrid.Code
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		toks := strings.Split(line, ",")
		row := make([]tilegrid.Code, 0, len(toks))
		for _, tok := range toks {
			val, err := strconv.ParseUint(strings.TrimSpace(tok), 10, 8)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: bad tile code %q", filepath.Base(path), lineNo, tok)
			}
			row = append(row, tilegrid.Code(val))
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no tile rows", filepath.Base(path))
	}
	return rows, nil
}

// WriteTileFile is the inverse of loadTileFile, used by the level converter.
func WriteTileFile(path string, codes [][]tilegrid.Code) error {
	var b strings.Builder
	for _, row := range codes {
		for c, code := range row {
			if c > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(int(code)))
		}
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// MarshalLevelList renders level metadata in the level_list.yaml layout.
func MarshalLevelList(levels []LevelInfo) ([]byte, error) {
	return yaml.Marshal(levelListFile{Levels: levels})
}

// Count returns the number of loaded levels.
func (t *LevelTable) Count() int {
	return len(t.order)
}

// Get returns a level by id, or nil if not found.
func (t *LevelTable) Get(id string) *Level {
	return t.byID[id]
}

// First returns the first level in file order, or nil when empty.
func (t *LevelTable) First() *Level {
	if len(t.order) == 0 {
		return nil
	}
	return t.order[0]
}

// Next returns the level after id, or nil after the last one.
func (t *LevelTable) Next(id string) *Level {
	for i, l := range t.order {
		if l.ID == id && i+1 < len(t.order) {
			return t.order[i+1]
		}
	}
	return nil
}

// HealthFraction clamps a spawn's health fraction: anything outside [0, 1]
// means full health.
func HealthFraction(v float64) float64 {
	if v < 0 || v > 1 {
		return 1
	}
	return v
}
