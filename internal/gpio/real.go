//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Chip owns the GPIO character device and every line requested from it.
type Chip struct {
	chip  *gpiocdev.Chip
	lines []*gpiocdev.Line
}

// OpenChip opens the named GPIO character device (e.g. "gpiochip0").
func OpenChip(name string) (*Chip, error) {
	c, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", name, err)
	}
	return &Chip{chip: c}, nil
}

// Line requests the given offset as an output, driven low initially so the
// LED starts dark regardless of what the bootloader left on the pin.
func (c *Chip) Line(pin int) (Output, error) {
	line, err := c.chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request output pin %d: %w", pin, err)
	}
	c.lines = append(c.lines, line)
	return &realOutput{line: line}, nil
}

// Close drives all requested lines low and releases them along with the
// chip, so the LED is dark after shutdown.
func (c *Chip) Close() error {
	var errs []error

	for _, line := range c.lines {
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear line: %w", err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if c.chip != nil {
		if err := c.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// realOutput drives one requested line.
type realOutput struct {
	line *gpiocdev.Line
}

// Write sets the line level.
func (o *realOutput) Write(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := o.line.SetValue(v); err != nil {
		return fmt.Errorf("set line value: %w", err)
	}
	return nil
}

// Close is a no-op; the owning Chip releases the line.
func (o *realOutput) Close() error {
	return nil
}
