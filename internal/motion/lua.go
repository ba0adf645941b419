package motion

import (
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Lua runs a script that defines
//
//	function motion(t) return q, dq, ddq end
//
// Script parameters are exposed as the global table params. A failing call is
// logged and the last good state is returned.
type Lua struct {
	mu   sync.Mutex
	vm   *lua.LState
	fn   lua.LValue
	log  *zap.Logger
	last State
}

func NewLua(source string, params map[string]float64, log *zap.Logger) (*Lua, error) {
	vm := lua.NewState()

	t := vm.NewTable()
	for k, v := range params {
		t.RawSetString(k, lua.LNumber(v))
	}
	vm.SetGlobal("params", t)

	if err := vm.DoString(source); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load motion script: %w", err)
	}
	fn := vm.GetGlobal("motion")
	if fn.Type() != lua.LTFunction {
		vm.Close()
		return nil, ErrNoMotionFunc
	}
	return &Lua{vm: vm, fn: fn, log: log}, nil
}

func NewLuaFile(path string, params map[string]float64, log *zap.Logger) (*Lua, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := NewLua(string(src), params, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("loaded motion script", zap.String("file", path))
	return m, nil
}

func (m *Lua) Name() string { return KindLua }

func (m *Lua) Sample(t float64) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.vm.CallByParam(lua.P{
		Fn:      m.fn,
		NRet:    3,
		Protect: true,
	}, lua.LNumber(t)); err != nil {
		m.log.Error("lua motion error", zap.Float64("t", t), zap.Error(err))
		return m.last
	}

	s := State{
		Q:   float64(lua.LVAsNumber(m.vm.Get(-3))),
		Dq:  float64(lua.LVAsNumber(m.vm.Get(-2))),
		Ddq: float64(lua.LVAsNumber(m.vm.Get(-1))),
	}
	m.vm.Pop(3)

	if !s.IsValid() {
		m.log.Warn("lua motion returned non-finite state", zap.Float64("t", t))
		return m.last
	}
	m.last = s
	return s
}

// Close shuts down the Lua VM.
func (m *Lua) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vm.Close()
}
