// Package led controls a two-wire bicolor LED: shared cathode, one anode per
// color. It owns the logical color to wire mapping and the held level of each
// wire; the GPIO lines only ever receive writes, so levels are always
// readable without touching hardware.
package led

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sweeney/dual-led/internal/gpio"
)

// Wire identifies one of the two anode wires.
type Wire int

const (
	WireA Wire = iota
	WireB
	numWires
)

var (
	// ErrInvalidWire is returned for a wire identifier outside WireA/WireB.
	// Always a programmer error.
	ErrInvalidWire = errors.New("invalid wire")

	// ErrUnknownColor is returned when a color name is not one of the two
	// configured logical colors.
	ErrUnknownColor = errors.New("unknown color")
)

// DualLED maps two logical colors onto two output wires and tracks the held
// level of each. The color set is fixed at construction; which color is
// primary is reassignable at any time.
type DualLED struct {
	outs    [numWires]gpio.Output
	colors  [numWires]string // canonical (uppercased) names, indexed by wire
	levels  [numWires]bool
	primary Wire
}

// New creates a DualLED with both wires assumed low. first and second name
// the colors wired to outA and outB; primary selects the default target for
// color-agnostic operations and must be one of the two.
func New(outA, outB gpio.Output, first, second, primary string) (*DualLED, error) {
	d := &DualLED{
		outs:   [numWires]gpio.Output{outA, outB},
		colors: [numWires]string{strings.ToUpper(first), strings.ToUpper(second)},
	}
	if d.colors[WireA] == "" || d.colors[WireB] == "" || d.colors[WireA] == d.colors[WireB] {
		return nil, fmt.Errorf("colors must be two distinct non-empty names, got %q and %q", first, second)
	}
	if err := d.SetPrimary(primary); err != nil {
		return nil, err
	}
	return d, nil
}

// Resolve maps a color name to its target wire, the opposite wire, and the
// canonical name. An empty color selects the configured primary. Matching is
// case-insensitive.
func (d *DualLED) Resolve(color string) (target, other Wire, name string, err error) {
	if color == "" {
		return d.primary, opposite(d.primary), d.colors[d.primary], nil
	}
	up := strings.ToUpper(color)
	for i := range d.colors {
		if d.colors[i] == up {
			w := Wire(i)
			return w, opposite(w), d.colors[i], nil
		}
	}
	return 0, 0, "", fmt.Errorf("%w: %q (have %s, %s)", ErrUnknownColor, color, d.colors[WireA], d.colors[WireB])
}

// SetPrimary reassigns which color is primary. Wire levels are not touched.
func (d *DualLED) SetPrimary(color string) error {
	w, _, _, err := d.Resolve(color)
	if err != nil {
		return err
	}
	d.primary = w
	return nil
}

// Primary returns the primary wire and its color name.
func (d *DualLED) Primary() (Wire, string) {
	return d.primary, d.colors[d.primary]
}

// Set drives the wire to the given level and records it.
func (d *DualLED) Set(w Wire, on bool) error {
	if w < 0 || w >= numWires {
		return fmt.Errorf("%w: %d", ErrInvalidWire, w)
	}
	if err := d.outs[w].Write(on); err != nil {
		return fmt.Errorf("write %s wire: %w", d.colors[w], err)
	}
	d.levels[w] = on
	return nil
}

// Get returns the held level of the wire.
func (d *DualLED) Get(w Wire) (bool, error) {
	if w < 0 || w >= numWires {
		return false, fmt.Errorf("%w: %d", ErrInvalidWire, w)
	}
	return d.levels[w], nil
}

// Toggle flips the held level of the wire.
func (d *DualLED) Toggle(w Wire) error {
	lv, err := d.Get(w)
	if err != nil {
		return err
	}
	return d.Set(w, !lv)
}

// Levels returns the held level of each wire keyed by color name.
func (d *DualLED) Levels() map[string]bool {
	return map[string]bool{
		d.colors[WireA]: d.levels[WireA],
		d.colors[WireB]: d.levels[WireB],
	}
}

// Colors returns the two color names in wire order.
func (d *DualLED) Colors() [2]string {
	return [2]string{d.colors[WireA], d.colors[WireB]}
}

func opposite(w Wire) Wire {
	if w == WireA {
		return WireB
	}
	return WireA
}
