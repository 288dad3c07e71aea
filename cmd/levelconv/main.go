// levelconv converts browser-era map JSON files to level_list.yaml plus one
// CSV tile file per level.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/swarmgrid/swarmcore/internal/data"
	"github.com/swarmgrid/swarmcore/internal/tilegrid"
)

// mapFile is the JSON layout: player spawn, tile codes by row, hostiles.
type mapFile struct {
	Player      data.Point `json:"player"`
	GameObjects [][]int    `json:"gameObjects"`
	Enemies     []struct {
		X                float64 `json:"x"`
		Y                float64 `json:"y"`
		HealthPercentage float64 `json:"healthPercentage"`
	} `json:"enemies"`
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: levelconv <output_dir> <Map-01.json> [Map-02.json ...]")
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outDir string, inputs []string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	infos := make([]data.LevelInfo, 0, len(inputs))
	for i, in := range inputs {
		raw, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		id := fmt.Sprintf("%d", i+1)
		name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		lvl, err := convert(raw, id, name)
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
		if err := data.WriteTileFile(filepath.Join(outDir, id+".txt"), lvl.Codes); err != nil {
			return err
		}
		infos = append(infos, lvl.LevelInfo)
		fmt.Printf("%s -> %s.txt (%dx%d, %d hostiles)\n", in, id, len(lvl.Codes[0]), len(lvl.Codes), len(lvl.Hostiles))
	}

	out, err := data.MarshalLevelList(infos)
	if err != nil {
		return err
	}
	listPath := filepath.Join(outDir, "level_list.yaml")
	if err := os.WriteFile(listPath, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %d levels to %s\n", len(infos), listPath)
	return nil
}

// convert parses one map file and validates its tiles the way the server
// will when it loads the level.
func convert(raw []byte, id, name string) (*data.Level, error) {
	var m mapFile
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	codes := make([][]tilegrid.Code, len(m.GameObjects))
	for r, row := range m.GameObjects {
		codes[r] = make([]tilegrid.Code, len(row))
		for c, v := range row {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("tile (%d,%d): code %d out of range", r, c, v)
			}
			codes[r][c] = tilegrid.Code(v)
		}
	}
	if _, err := tilegrid.New(codes, 16); err != nil {
		return nil, err
	}

	lvl := &data.Level{
		LevelInfo: data.LevelInfo{ID: id, Name: name, Player: m.Player},
		Codes:     codes,
	}
	for _, e := range m.Enemies {
		lvl.Hostiles = append(lvl.Hostiles, data.Spawn{X: e.X, Y: e.Y, Health: e.HealthPercentage})
	}
	return lvl, nil
}
