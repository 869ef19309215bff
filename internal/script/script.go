// Package script runs Lua control sequences against the pattern controller.
// Scripts get a preloaded "led" module with one function per transition.
package script

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/sweeney/dual-led/internal/pattern"
)

// Module exposes the controller to Lua.
type Module struct {
	ctrl *pattern.Controller

	// Sleep is replaceable so tests run without real delays.
	Sleep func(d time.Duration)
}

// NewModule creates a Module driving the given controller.
func NewModule(ctrl *pattern.Controller) *Module {
	return &Module{
		ctrl:  ctrl,
		Sleep: time.Sleep,
	}
}

// Run executes the Lua source with the led module preloaded. name labels the
// script in error messages.
func (m *Module) Run(source, name string) error {
	L := lua.NewState()
	defer L.Close()

	L.PreloadModule("led", m.Loader)

	if err := L.DoString(source); err != nil {
		return fmt.Errorf("run script %s: %w", name, err)
	}
	return nil
}

// Loader is the module loader for Lua.
func (m *Module) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetField(mod, "off", L.NewFunction(m.off))
	L.SetField(mod, "on", L.NewFunction(m.on))
	L.SetField(mod, "toggle", L.NewFunction(m.toggle))
	L.SetField(mod, "blink", L.NewFunction(m.blink))
	L.SetField(mod, "alternate", L.NewFunction(m.alternate))
	L.SetField(mod, "count", L.NewFunction(m.count))
	L.SetField(mod, "set_primary", L.NewFunction(m.setPrimary))
	L.SetField(mod, "colors", L.NewFunction(m.colors))
	L.SetField(mod, "state", L.NewFunction(m.state))
	L.SetField(mod, "sleep", L.NewFunction(m.sleep))

	L.Push(mod)
	return 1
}

// Transition failures are logged, not raised: a self-test script should run
// to the end even if one step fails.
func (m *Module) report(op string, err error) {
	if err != nil {
		log.Warn().Err(err).Str("source", "lua").Str("op", op).Msg("transition failed")
	}
}

func (m *Module) off(L *lua.LState) int {
	m.report("off", m.ctrl.Off())
	return 0
}

// on(color?) — no argument lights the primary color.
func (m *Module) on(L *lua.LState) int {
	color := L.OptString(1, "")
	m.report("on", m.ctrl.On(color))
	return 0
}

func (m *Module) toggle(L *lua.LState) int {
	color := L.OptString(1, "")
	m.report("toggle", m.ctrl.Toggle(color))
	return 0
}

// blink(freq?, color?) — zero or missing frequency means the default.
func (m *Module) blink(L *lua.LState) int {
	freq := L.OptNumber(1, 0)
	color := L.OptString(2, "")
	m.report("blink", m.ctrl.Blink(float64(freq), color))
	return 0
}

func (m *Module) alternate(L *lua.LState) int {
	freq := L.OptNumber(1, 0)
	m.report("alternate", m.ctrl.Alternate(float64(freq)))
	return 0
}

// count(n, freq?, color?)
func (m *Module) count(L *lua.LState) int {
	n := L.CheckInt(1)
	freq := L.OptNumber(2, 0)
	color := L.OptString(3, "")
	m.report("count", m.ctrl.Count(n, float64(freq), color))
	return 0
}

func (m *Module) setPrimary(L *lua.LState) int {
	color := L.CheckString(1)
	m.report("set_primary", m.ctrl.SetPrimary(color))
	return 0
}

// colors() returns the two configured color names in wire order, so scripts
// work unchanged when the colors are renamed.
func (m *Module) colors(L *lua.LState) int {
	cs := m.ctrl.Colors()
	L.Push(lua.LString(cs[0]))
	L.Push(lua.LString(cs[1]))
	return 2
}

// state() returns the current descriptor string.
func (m *Module) state(L *lua.LState) int {
	L.Push(lua.LString(m.ctrl.Descriptor()))
	return 1
}

// sleep(seconds)
func (m *Module) sleep(L *lua.LState) int {
	secs := float64(L.CheckNumber(1))
	if secs > 0 {
		m.Sleep(time.Duration(secs * float64(time.Second)))
	}
	return 0
}
