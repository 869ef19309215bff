package pattern

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBadDescriptor is returned when a state descriptor does not match the
// colon-separated grammar.
var ErrBadDescriptor = errors.New("bad state descriptor")

// Descriptor returns the colon-separated string encoding of the state:
//
//	OFF
//	ON:<COLOR>
//	BLINK:<COLOR>:<FREQ>Hz
//	COUNT:<COLOR>:<N>:<FREQ>Hz
//	ALTERNATE::<FREQ>Hz
//
// The alternating pattern is color-agnostic, so its color field is empty.
func (s State) Descriptor() string {
	switch s.Kind {
	case On:
		return "ON:" + s.Color
	case Blinking:
		return fmt.Sprintf("BLINK:%s:%sHz", s.Color, formatFreq(s.Freq))
	case Alternating:
		return fmt.Sprintf("ALTERNATE::%sHz", formatFreq(s.Freq))
	case Counting:
		return fmt.Sprintf("COUNT:%s:%d:%sHz", s.Color, s.Count, formatFreq(s.Freq))
	default:
		return "OFF"
	}
}

// ParseDescriptor parses a descriptor back into a State. Progress is never
// carried by descriptors. Color membership is not checked here; it is
// validated by the transition the state is applied through.
func ParseDescriptor(descriptor string) (State, error) {
	fields := strings.Split(strings.TrimSpace(descriptor), ":")

	switch strings.ToUpper(fields[0]) {
	case "OFF":
		if len(fields) != 1 {
			return State{}, fmt.Errorf("%w: OFF takes no fields in %q", ErrBadDescriptor, descriptor)
		}
		return State{Kind: Off}, nil

	case "ON":
		if len(fields) != 2 || fields[1] == "" {
			return State{}, fmt.Errorf("%w: want ON:<COLOR> in %q", ErrBadDescriptor, descriptor)
		}
		return State{Kind: On, Color: strings.ToUpper(fields[1])}, nil

	case "BLINK":
		if len(fields) != 3 || fields[1] == "" {
			return State{}, fmt.Errorf("%w: want BLINK:<COLOR>:<FREQ>Hz in %q", ErrBadDescriptor, descriptor)
		}
		f, err := parseFreq(fields[2], descriptor)
		if err != nil {
			return State{}, err
		}
		return State{Kind: Blinking, Color: strings.ToUpper(fields[1]), Freq: f}, nil

	case "ALTERNATE":
		if len(fields) != 3 || fields[1] != "" {
			return State{}, fmt.Errorf("%w: want ALTERNATE::<FREQ>Hz in %q", ErrBadDescriptor, descriptor)
		}
		f, err := parseFreq(fields[2], descriptor)
		if err != nil {
			return State{}, err
		}
		return State{Kind: Alternating, Freq: f}, nil

	case "COUNT":
		if len(fields) != 4 || fields[1] == "" {
			return State{}, fmt.Errorf("%w: want COUNT:<COLOR>:<N>:<FREQ>Hz in %q", ErrBadDescriptor, descriptor)
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return State{}, fmt.Errorf("%w: count %q in %q", ErrBadDescriptor, fields[2], descriptor)
		}
		f, err := parseFreq(fields[3], descriptor)
		if err != nil {
			return State{}, err
		}
		return State{Kind: Counting, Color: strings.ToUpper(fields[1]), Count: n, Freq: f}, nil
	}

	return State{}, fmt.Errorf("%w: unknown pattern in %q", ErrBadDescriptor, descriptor)
}

// parseFreq strips the mandatory Hz unit suffix and parses the number.
func parseFreq(field, descriptor string) (float64, error) {
	num, ok := strings.CutSuffix(field, "Hz")
	if !ok {
		return 0, fmt.Errorf("%w: frequency %q missing Hz suffix in %q", ErrBadDescriptor, field, descriptor)
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: frequency %q in %q", ErrBadDescriptor, field, descriptor)
	}
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) || !freqInRange(f) {
		return 0, fmt.Errorf("%w: %vHz", ErrInvalidFrequency, f)
	}
	return f, nil
}

func formatFreq(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
