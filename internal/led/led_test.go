package led

import (
	"errors"
	"testing"

	"github.com/sweeney/dual-led/internal/gpio"
)

func newTestLED(t *testing.T) (*DualLED, *gpio.FakeOutput, *gpio.FakeOutput) {
	t.Helper()
	a := gpio.NewFakeOutput()
	b := gpio.NewFakeOutput()
	d, err := New(a, b, "RED", "GREEN", "RED")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, a, b
}

func TestNewValidation(t *testing.T) {
	a, b := gpio.NewFakeOutput(), gpio.NewFakeOutput()

	tests := []struct {
		name                   string
		first, second, primary string
		wantErr                bool
	}{
		{"valid", "RED", "GREEN", "RED", false},
		{"valid lowercase primary", "RED", "GREEN", "green", false},
		{"custom color names", "BLUE", "YELLOW", "BLUE", false},
		{"primary not in set", "RED", "GREEN", "BLUE", true},
		{"empty first", "", "GREEN", "GREEN", true},
		{"duplicate colors", "RED", "red", "RED", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(a, b, tt.first, tt.second, tt.primary)
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestResolveDefaultIsPrimary(t *testing.T) {
	d, _, _ := newTestLED(t)

	target, other, name, err := d.Resolve("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target != WireA || other != WireB {
		t.Errorf("expected primary A/secondary B, got %d/%d", target, other)
	}
	if name != "RED" {
		t.Errorf("expected RED, got %s", name)
	}
}

func TestResolveNamedColor(t *testing.T) {
	d, _, _ := newTestLED(t)

	target, other, name, err := d.Resolve("green")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target != WireB || other != WireA {
		t.Errorf("expected B/A for green, got %d/%d", target, other)
	}
	if name != "GREEN" {
		t.Errorf("expected canonical GREEN, got %s", name)
	}
}

func TestResolveUnknownColor(t *testing.T) {
	d, _, _ := newTestLED(t)

	_, _, _, err := d.Resolve("BLUE")
	if !errors.Is(err, ErrUnknownColor) {
		t.Errorf("expected ErrUnknownColor, got %v", err)
	}
}

func TestSetPrimaryDoesNotTouchLevels(t *testing.T) {
	d, a, b := newTestLED(t)

	if err := d.Set(WireA, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	writesBefore := len(a.Writes) + len(b.Writes)

	if err := d.SetPrimary("GREEN"); err != nil {
		t.Fatalf("SetPrimary: %v", err)
	}

	if got := len(a.Writes) + len(b.Writes); got != writesBefore {
		t.Errorf("SetPrimary wrote to hardware: %d writes before, %d after", writesBefore, got)
	}
	if !a.Level || b.Level {
		t.Error("levels changed by SetPrimary")
	}

	_, name := d.Primary()
	if name != "GREEN" {
		t.Errorf("expected primary GREEN, got %s", name)
	}
}

func TestSetPrimaryUnknownColor(t *testing.T) {
	d, _, _ := newTestLED(t)

	if err := d.SetPrimary("BLUE"); !errors.Is(err, ErrUnknownColor) {
		t.Errorf("expected ErrUnknownColor, got %v", err)
	}
	_, name := d.Primary()
	if name != "RED" {
		t.Errorf("primary changed on failed SetPrimary: %s", name)
	}
}

func TestSetGetToggle(t *testing.T) {
	d, a, _ := newTestLED(t)

	if err := d.Set(WireA, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !a.Level {
		t.Error("hardware line not driven high")
	}
	lv, err := d.Get(WireA)
	if err != nil || !lv {
		t.Errorf("Get = %v, %v; want true, nil", lv, err)
	}

	if err := d.Toggle(WireA); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	lv, _ = d.Get(WireA)
	if lv || a.Level {
		t.Error("toggle did not flip level to low")
	}
}

func TestInvalidWire(t *testing.T) {
	d, _, _ := newTestLED(t)

	if err := d.Set(Wire(5), true); !errors.Is(err, ErrInvalidWire) {
		t.Errorf("Set: expected ErrInvalidWire, got %v", err)
	}
	if _, err := d.Get(Wire(-1)); !errors.Is(err, ErrInvalidWire) {
		t.Errorf("Get: expected ErrInvalidWire, got %v", err)
	}
	if err := d.Toggle(Wire(2)); !errors.Is(err, ErrInvalidWire) {
		t.Errorf("Toggle: expected ErrInvalidWire, got %v", err)
	}
}

func TestSetWriteErrorKeepsHeldLevel(t *testing.T) {
	d, a, _ := newTestLED(t)
	a.WriteError = errors.New("simulated error")

	if err := d.Set(WireA, true); err == nil {
		t.Fatal("expected error")
	}
	lv, _ := d.Get(WireA)
	if lv {
		t.Error("held level changed although hardware write failed")
	}
}

func TestLevels(t *testing.T) {
	d, _, _ := newTestLED(t)

	d.Set(WireB, true)
	levels := d.Levels()

	if levels["RED"] {
		t.Error("RED should be low")
	}
	if !levels["GREEN"] {
		t.Error("GREEN should be high")
	}
}

func TestColors(t *testing.T) {
	a, b := gpio.NewFakeOutput(), gpio.NewFakeOutput()
	d, err := New(a, b, "blue", "yellow", "yellow")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	colors := d.Colors()
	if colors != [2]string{"BLUE", "YELLOW"} {
		t.Errorf("unexpected colors: %v", colors)
	}
	w, name := d.Primary()
	if w != WireB || name != "YELLOW" {
		t.Errorf("expected primary YELLOW on wire B, got %s on %d", name, w)
	}
}
