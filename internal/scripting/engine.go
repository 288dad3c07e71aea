package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for hostile decision scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory and its ai/ subdirectory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	for name, d := range map[string]Decision{"CHASE": Chase, "HOLD": Hold, "FLEE": Flee} {
		vm.SetGlobal(name, lua.LString(d.String()))
	}

	e := &Engine{vm: vm, log: log}

	for _, dir := range []string{scriptsDir, filepath.Join(scriptsDir, "ai")} {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source, used to install hooks without a file.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// Decision is what a hostile does this frame.
type Decision uint8

const (
	Chase Decision = iota // pursue the target, pathfinding around walls
	Hold                  // stand still
	Flee                  // move directly away from the target
)

func (d Decision) String() string {
	switch d {
	case Hold:
		return "hold"
	case Flee:
		return "flee"
	}
	return "chase"
}

func parseDecision(s string) (Decision, bool) {
	switch s {
	case "chase":
		return Chase, true
	case "hold":
		return Hold, true
	case "flee":
		return Flee, true
	}
	return Chase, false
}

// HostileContext holds pre-packed data for a hostile's decision.
type HostileContext struct {
	ID        uint64
	Kind      string
	Index     int // spawn order
	X, Y      float64
	Health    float64
	MaxHealth float64
	State     string

	// Target (the player)
	TargetAlive bool
	TargetX     float64
	TargetY     float64
	TargetDist  float64
	InRange     bool
	Obstructed  bool // no line of sight
	Stuck       bool

	LevelTimeMS float64
}

// DecideHostile calls Lua hostile_ai(ctx) and returns its decision. A missing
// hook, a script error or an unknown result means Chase.
func (e *Engine) DecideHostile(ctx HostileContext) Decision {
	fn := e.vm.GetGlobal("hostile_ai")
	if fn == lua.LNil {
		return Chase
	}

	t := e.vm.NewTable()
	t.RawSetString("id", lua.LNumber(ctx.ID))
	t.RawSetString("kind", lua.LString(ctx.Kind))
	t.RawSetString("index", lua.LNumber(ctx.Index))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("health", lua.LNumber(ctx.Health))
	t.RawSetString("max_health", lua.LNumber(ctx.MaxHealth))
	t.RawSetString("state", lua.LString(ctx.State))
	t.RawSetString("target_alive", lua.LBool(ctx.TargetAlive))
	t.RawSetString("target_x", lua.LNumber(ctx.TargetX))
	t.RawSetString("target_y", lua.LNumber(ctx.TargetY))
	t.RawSetString("target_dist", lua.LNumber(ctx.TargetDist))
	t.RawSetString("in_range", lua.LBool(ctx.InRange))
	t.RawSetString("obstructed", lua.LBool(ctx.Obstructed))
	t.RawSetString("stuck", lua.LBool(ctx.Stuck))
	t.RawSetString("level_time_ms", lua.LNumber(ctx.LevelTimeMS))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua hostile_ai error", zap.Error(err), zap.Uint64("creature", ctx.ID))
		return Chase
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	d, ok := parseDecision(lua.LVAsString(result))
	if !ok {
		e.log.Warn("lua hostile_ai returned unknown decision",
			zap.String("result", result.String()),
			zap.Uint64("creature", ctx.ID),
		)
	}
	return d
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
