package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmgrid/swarmcore/internal/tilegrid"
)

const kindsYAML = `
player: player
default_hostile: crawler
kinds:
  - name: player
    width: 12
    height: 12
    speed: 0.18
    max_health: 100
    animations:
      moving: { length_ms: 330, frames: 7 }
      dying: { length_ms: 600, frames: 6, one_shot: true }
  - name: crawler
    hostile: true
    width: 14
    height: 14
    speed: 0.14
    max_health: 100
    attack: { damage: 10, windup_ms: 450, cooldown_ms: 400 }
`

func TestParseKindTable(t *testing.T) {
	kt, err := ParseKindTable([]byte(kindsYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, kt.Count())

	p := kt.Player()
	require.NotNil(t, p)
	assert.False(t, p.Hostile)
	assert.Equal(t, AnimationSpec{LengthMS: 600, Frames: 6, OneShot: true}, p.Animations["dying"])

	h := kt.Hostile("")
	require.NotNil(t, h)
	assert.Equal(t, "crawler", h.Name)
	assert.Equal(t, 450.0, h.Attack.WindupMS)
	assert.Same(t, h, kt.Hostile("crawler"))
	assert.Nil(t, kt.Hostile("ghost"))
}

func TestParseKindTableRejects(t *testing.T) {
	cases := map[string]string{
		"no name":     "player: a\nkinds:\n  - { width: 1, height: 1, max_health: 1 }\n",
		"zero box":    "player: a\nkinds:\n  - { name: a, width: 0, height: 1, max_health: 1 }\n",
		"no health":   "player: a\nkinds:\n  - { name: a, width: 1, height: 1 }\n",
		"duplicate":   "player: a\nkinds:\n  - { name: a, width: 1, height: 1, max_health: 1 }\n  - { name: a, width: 1, height: 1, max_health: 1 }\n",
		"no player":   "player: b\nkinds:\n  - { name: a, width: 1, height: 1, max_health: 1 }\n",
		"bad default": "player: a\ndefault_hostile: z\nkinds:\n  - { name: a, width: 1, height: 1, max_health: 1 }\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseKindTable([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadLevels(t *testing.T) {
	dir := t.TempDir()
	list := writeFile(t, dir, "level_list.yaml", `
levels:
  - id: "1"
    name: Cellar
    player: { x: 40, y: 40 }
    hostiles:
      - { x: 100, y: 40, health: 0.5 }
      - { x: 120, y: 40, health: 3, kind: brute }
  - id: "2"
    name: Vault
    tiles: vault.csv
    player: { x: 24, y: 24 }
`)
	writeFile(t, dir, "1.txt", "# cellar\n1,1,1\n\n1,0,9\n1,1,1\n")
	writeFile(t, dir, "vault.csv", "1,1\n1,2\n")

	lt, err := LoadLevels(list, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, lt.Count())

	first := lt.First()
	require.NotNil(t, first)
	assert.Equal(t, "Cellar", first.Name)
	assert.Equal(t, [][]tilegrid.Code{{1, 1, 1}, {1, 0, 9}, {1, 1, 1}}, first.Codes)
	require.Len(t, first.Hostiles, 2)
	assert.Equal(t, "brute", first.Hostiles[1].Kind)
	assert.Equal(t, Point{X: 40, Y: 40}, first.Player)

	next := lt.Next("1")
	require.NotNil(t, next)
	assert.Equal(t, "2", next.ID)
	assert.Nil(t, lt.Next("2"))
	assert.Same(t, next, lt.Get("2"))
}

func TestLoadLevelsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadLevels(filepath.Join(dir, "missing.yaml"), dir)
	assert.Error(t, err)

	list := writeFile(t, dir, "bad_tiles.yaml", "levels:\n  - { id: x, name: X }\n")
	writeFile(t, dir, "x.txt", "1,a,1\n")
	_, err = LoadLevels(list, dir)
	assert.ErrorContains(t, err, "bad tile code")

	list = writeFile(t, dir, "dup.yaml", "levels:\n  - { id: x }\n  - { id: x }\n")
	writeFile(t, dir, "x.txt", "1\n")
	_, err = LoadLevels(list, dir)
	assert.ErrorContains(t, err, "listed twice")

	list = writeFile(t, dir, "empty.yaml", "levels:\n  - { id: e }\n")
	writeFile(t, dir, "e.txt", "# nothing\n")
	_, err = LoadLevels(list, dir)
	assert.ErrorContains(t, err, "no tile rows")
}

func TestWriteTileFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	codes := [][]tilegrid.Code{{1, 1}, {0, 9}}
	require.NoError(t, WriteTileFile(path, codes))
	got, err := loadTileFile(path)
	require.NoError(t, err)
	assert.Equal(t, codes, got)
}

func TestHealthFraction(t *testing.T) {
	assert.Equal(t, 0.5, HealthFraction(0.5))
	assert.Equal(t, 0.0, HealthFraction(0))
	assert.Equal(t, 1.0, HealthFraction(1))
	assert.Equal(t, 1.0, HealthFraction(1.3))
	assert.Equal(t, 1.0, HealthFraction(-0.2))
}
