// Package gpio provides GPIO output control with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Output drives a single GPIO output line.
type Output interface {
	// Write sets the physical line level. true = high = anode energized.
	Write(on bool) error

	// Close releases the line.
	Close() error
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinA = 13 // wire A anode
	DefaultPinB = 14 // wire B anode
)

// DefaultChip is the GPIO character device used when none is configured.
const DefaultChip = "gpiochip0"
