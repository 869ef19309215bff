// Package pattern implements the pattern state machine for a bicolor LED:
// steady on/off, single-color blink, alternating-color blink, and counted
// blink with pause. The controller owns exactly one pattern state and at
// most one live timer; every transition tears the previous timer down before
// establishing new state.
package pattern

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sweeney/dual-led/internal/led"
)

// DefaultFreq is the blink frequency in Hz used when a transition omits one
// and the controller was constructed without an override.
const DefaultFreq = 3.0

var (
	// ErrInvalidFrequency is returned for a negative, non-finite, or
	// out-of-range frequency, or an explicit zero in a descriptor.
	ErrInvalidFrequency = errors.New("invalid frequency")

	// ErrInvalidCount is returned when a counting pattern is requested with
	// fewer than one pulse per burst.
	ErrInvalidCount = errors.New("invalid count")
)

// Kind identifies the active pattern variant.
type Kind int

const (
	Off Kind = iota
	On
	Blinking
	Alternating
	Counting
)

// String returns the descriptor tag for the kind.
func (k Kind) String() string {
	switch k {
	case On:
		return "ON"
	case Blinking:
		return "BLINK"
	case Alternating:
		return "ALTERNATE"
	case Counting:
		return "COUNT"
	default:
		return "OFF"
	}
}

// State describes the active pattern. Exactly one variant is active at a
// time; fields not used by the variant are zero.
type State struct {
	Kind  Kind
	Color string  // resolved color name; empty for Off and Alternating
	Freq  float64 // Hz; zero for Off and On
	Count int     // pulses per burst, Counting only

	// Progress is the number of completed on-pulses in the current burst.
	// Transient: it is not carried by descriptors.
	Progress int
}

// Controller drives one DualLED through the pattern state machine. All
// public transitions and timer callbacks are serialized by an internal
// mutex, mirroring the single execution context of an interrupt-driven
// timer service.
type Controller struct {
	mu    sync.Mutex
	led   *led.DualLED
	sched Scheduler

	defaultFreq float64
	state       State

	// timer is the single live timer; gen invalidates callbacks from timers
	// that have been canceled but may still have a firing in flight.
	timer Timer
	gen   uint64

	onChange func(State)
}

// New creates a Controller in the Off state. defaultFreq of 0 selects
// DefaultFreq.
func New(l *led.DualLED, sched Scheduler, defaultFreq float64) *Controller {
	if defaultFreq <= 0 {
		defaultFreq = DefaultFreq
	}
	return &Controller{
		led:         l,
		sched:       sched,
		defaultFreq: defaultFreq,
		state:       State{Kind: Off},
	}
}

// OnChange registers a hook invoked after every completed public transition,
// without the controller lock held. Internal counting-burst bookkeeping does
// not trigger it.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State returns a copy of the active pattern state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Descriptor returns the string encoding of the active pattern.
func (c *Controller) Descriptor() string {
	return c.State().Descriptor()
}

// Levels returns the held wire levels keyed by color name.
func (c *Controller) Levels() map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.led.Levels()
}

// Colors returns the two configured color names in wire order.
func (c *Controller) Colors() [2]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.led.Colors()
}

// Primary returns the current primary color name.
func (c *Controller) Primary() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, name := c.led.Primary()
	return name
}

// SetPrimary reassigns the primary color without changing wire levels or the
// active pattern.
func (c *Controller) SetPrimary(color string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.led.SetPrimary(color)
}

// Off cancels any live timer and drives both wires low.
func (c *Controller) Off() error {
	c.mu.Lock()
	err := c.offLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify()
	return nil
}

// On lights the given color steadily, the other wire low. An empty color
// selects the primary.
func (c *Controller) On(color string) error {
	c.mu.Lock()
	err := c.onLocked(color)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify()
	return nil
}

// Toggle acts as an on/off flip-flop: any active pattern goes to Off, and
// Off goes to On with the given color.
func (c *Controller) Toggle(color string) error {
	c.mu.Lock()
	var err error
	if c.state.Kind != Off {
		err = c.offLocked()
	} else {
		err = c.onLocked(color)
	}
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify()
	return nil
}

// Blink toggles the chosen wire at 2×freq firings per second, producing freq
// full on/off cycles per second. freq of 0 selects the default.
func (c *Controller) Blink(freq float64, color string) error {
	c.mu.Lock()
	err := c.blinkLocked(freq, color)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify()
	return nil
}

// Alternate lights the primary, clears the secondary, then toggles both
// wires at 2×freq firings per second so they stay in opposite phase.
func (c *Controller) Alternate(freq float64) error {
	c.mu.Lock()
	err := c.alternateLocked(freq)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify()
	return nil
}

// Count blinks the chosen color n times at freq, pauses for four full
// periods, and repeats indefinitely. n must be at least 1.
func (c *Controller) Count(n int, freq float64, color string) error {
	c.mu.Lock()
	err := c.countLocked(n, freq, color)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify()
	return nil
}

// Apply parses a descriptor and re-invokes the matching transition. Errors
// are surfaced synchronously; state is unchanged on failure.
func (c *Controller) Apply(descriptor string) error {
	st, err := ParseDescriptor(descriptor)
	if err != nil {
		return err
	}
	switch st.Kind {
	case On:
		return c.On(st.Color)
	case Blinking:
		return c.Blink(st.Freq, st.Color)
	case Alternating:
		return c.Alternate(st.Freq)
	case Counting:
		return c.Count(st.Count, st.Freq, st.Color)
	default:
		return c.Off()
	}
}

// Restore is the best-effort variant of Apply for externally persisted
// descriptors: parse and validation failures are logged and swallowed,
// leaving the active state unchanged.
func (c *Controller) Restore(descriptor string) {
	if err := c.Apply(descriptor); err != nil {
		log.Warn().Err(err).Str("descriptor", descriptor).Msg("restore failed")
	}
}

// offLocked, like all *Locked methods, requires c.mu held.
func (c *Controller) offLocked() error {
	c.cancelLocked()
	if err := c.led.Set(led.WireA, false); err != nil {
		return err
	}
	if err := c.led.Set(led.WireB, false); err != nil {
		return err
	}
	c.state = State{Kind: Off}
	return nil
}

func (c *Controller) onLocked(color string) error {
	target, other, name, err := c.led.Resolve(color)
	if err != nil {
		return err
	}
	c.cancelLocked()
	if err := c.led.Set(other, false); err != nil {
		return err
	}
	if err := c.led.Set(target, true); err != nil {
		return err
	}
	c.state = State{Kind: On, Color: name}
	return nil
}

func (c *Controller) blinkLocked(freq float64, color string) error {
	f, err := c.resolveFreq(freq)
	if err != nil {
		return err
	}
	target, _, name, err := c.led.Resolve(color)
	if err != nil {
		return err
	}
	if err := c.offLocked(); err != nil {
		return err
	}
	c.state = State{Kind: Blinking, Color: name, Freq: f}
	c.armPeriodicLocked(f, func() error {
		return c.led.Toggle(target)
	})
	return nil
}

func (c *Controller) alternateLocked(freq float64) error {
	f, err := c.resolveFreq(freq)
	if err != nil {
		return err
	}
	// Baseline: primary on, secondary off. Toggling both each firing keeps
	// them phase-opposed forever.
	if err := c.onLocked(""); err != nil {
		return err
	}
	c.state = State{Kind: Alternating, Freq: f}
	c.armPeriodicLocked(f, func() error {
		if err := c.led.Toggle(led.WireA); err != nil {
			return err
		}
		return c.led.Toggle(led.WireB)
	})
	return nil
}

func (c *Controller) countLocked(n int, freq float64, color string) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d pulses per burst", ErrInvalidCount, n)
	}
	f, err := c.resolveFreq(freq)
	if err != nil {
		return err
	}
	target, _, name, err := c.led.Resolve(color)
	if err != nil {
		return err
	}
	if err := c.offLocked(); err != nil {
		return err
	}
	c.state = State{Kind: Counting, Color: name, Freq: f, Count: n}
	c.armBurstLocked(target)
	return nil
}

// cancelLocked invalidates all outstanding timer callbacks and drops the
// live timer. Must run before any new timer is armed.
func (c *Controller) cancelLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// armPeriodicLocked schedules fn at 2×freq firings per second under the
// current generation. A firing from a canceled generation is a no-op.
func (c *Controller) armPeriodicLocked(freq float64, fn func() error) {
	gen := c.gen
	c.timer = c.sched.Periodic(togglePeriod(freq), func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			return
		}
		if err := fn(); err != nil {
			log.Error().Err(err).Msg("timer callback write failed")
		}
	})
}

// armBurstLocked starts the periodic toggle phase of the counting pattern.
// Each rising edge advances Progress; the falling edge that completes the
// burst swaps the periodic timer for a one-shot pause of four full periods,
// whose firing starts the next burst from zero.
func (c *Controller) armBurstLocked(target led.Wire) {
	gen := c.gen
	c.timer = c.sched.Periodic(togglePeriod(c.state.Freq), func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			return
		}
		if err := c.led.Toggle(target); err != nil {
			log.Error().Err(err).Msg("timer callback write failed")
			return
		}
		lv, _ := c.led.Get(target)
		if lv {
			c.state.Progress++
			return
		}
		if c.state.Progress >= c.state.Count {
			c.cancelLocked()
			pauseGen := c.gen
			c.timer = c.sched.Once(burstPause(c.state.Freq), func() {
				c.mu.Lock()
				defer c.mu.Unlock()
				if c.gen != pauseGen {
					return
				}
				c.cancelLocked()
				c.state.Progress = 0
				c.armBurstLocked(target)
			})
		}
	})
}

// resolveFreq applies the default for an omitted (zero) frequency and
// rejects anything that cannot drive a timer.
func (c *Controller) resolveFreq(freq float64) (float64, error) {
	if freq == 0 {
		return c.defaultFreq, nil
	}
	if freq < 0 || math.IsNaN(freq) || math.IsInf(freq, 0) || !freqInRange(freq) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFrequency, freq)
	}
	return freq, nil
}

// freqInRange reports whether both timer intervals derived from f fit in a
// positive time.Duration: the toggle period must be at least 1ns and the
// burst pause (8× the toggle period) must not overflow int64 nanoseconds.
// Checked in float space, before any Duration conversion can truncate to
// zero or overflow.
func freqInRange(f float64) bool {
	period := float64(time.Second) / (f * 2)
	return period >= 1 && 8*period <= float64(math.MaxInt64)
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	st := c.state
	c.mu.Unlock()
	if fn != nil {
		fn(st)
	}
}

// togglePeriod converts a visual blink frequency into the firing interval of
// the toggle timer. The timer fires on both the rising and falling edge of
// one blink cycle, so it runs at twice the requested frequency.
func togglePeriod(freq float64) time.Duration {
	return time.Duration(float64(time.Second) / (freq * 2))
}

// burstPause is the gap between counting bursts: four full periods,
// 4×(1000/freq) in milliseconds.
func burstPause(freq float64) time.Duration {
	return time.Duration(4000.0 / freq * float64(time.Millisecond))
}
