package pattern

import (
	"errors"
	"testing"
)

func TestParseDescriptorValid(t *testing.T) {
	tests := []struct {
		descriptor string
		want       State
	}{
		{"OFF", State{Kind: Off}},
		{"ON:RED", State{Kind: On, Color: "RED"}},
		{"ON:green", State{Kind: On, Color: "GREEN"}},
		{"BLINK:RED:5Hz", State{Kind: Blinking, Color: "RED", Freq: 5}},
		{"BLINK:GREEN:2.5Hz", State{Kind: Blinking, Color: "GREEN", Freq: 2.5}},
		{"ALTERNATE::3Hz", State{Kind: Alternating, Freq: 3}},
		{"COUNT:RED:3:5Hz", State{Kind: Counting, Color: "RED", Count: 3, Freq: 5}},
		{"COUNT:BLUE:12:0.5Hz", State{Kind: Counting, Color: "BLUE", Count: 12, Freq: 0.5}},
		{"  OFF  ", State{Kind: Off}}, // surrounding whitespace tolerated
	}

	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			got, err := ParseDescriptor(tt.descriptor)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseDescriptorInvalid(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		wantErr    error
	}{
		{"empty", "", ErrBadDescriptor},
		{"unknown pattern", "PULSE:RED:5Hz", ErrBadDescriptor},
		{"off with fields", "OFF:RED", ErrBadDescriptor},
		{"on missing color", "ON:", ErrBadDescriptor},
		{"on extra field", "ON:RED:5Hz", ErrBadDescriptor},
		{"blink missing freq", "BLINK:RED", ErrBadDescriptor},
		{"blink missing unit", "BLINK:RED:5", ErrBadDescriptor},
		{"blink lowercase unit", "BLINK:RED:5hz", ErrBadDescriptor},
		{"blink unparseable freq", "BLINK:RED:fastHz", ErrBadDescriptor},
		{"alternate with color", "ALTERNATE:RED:5Hz", ErrBadDescriptor},
		{"alternate missing empty field", "ALTERNATE:5Hz", ErrBadDescriptor},
		{"count unparseable n", "COUNT:RED:three:5Hz", ErrBadDescriptor},
		{"count missing freq", "COUNT:RED:3", ErrBadDescriptor},
		{"zero frequency", "BLINK:RED:0Hz", ErrInvalidFrequency},
		{"negative frequency", "ALTERNATE::-3Hz", ErrInvalidFrequency},
		{"frequency too fast for a timer", "BLINK:RED:1e300Hz", ErrInvalidFrequency},
		{"frequency too slow for a timer", "BLINK:RED:1e-300Hz", ErrInvalidFrequency},
		{"pause overflows", "COUNT:RED:3:4e-10Hz", ErrInvalidFrequency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescriptor(tt.descriptor)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseDescriptor(%q): got %v, want %v", tt.descriptor, err, tt.wantErr)
			}
		})
	}
}

func TestDescriptorEncoding(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{State{Kind: Off}, "OFF"},
		{State{Kind: On, Color: "GREEN"}, "ON:GREEN"},
		{State{Kind: Blinking, Color: "RED", Freq: 3}, "BLINK:RED:3Hz"},
		{State{Kind: Blinking, Color: "RED", Freq: 2.5}, "BLINK:RED:2.5Hz"},
		{State{Kind: Alternating, Freq: 5}, "ALTERNATE::5Hz"},
		{State{Kind: Counting, Color: "GREEN", Count: 4, Freq: 2}, "COUNT:GREEN:4:2Hz"},
	}

	for _, tt := range tests {
		if got := tt.state.Descriptor(); got != tt.want {
			t.Errorf("Descriptor(%+v) = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestDescriptorProgressNotEncoded(t *testing.T) {
	s := State{Kind: Counting, Color: "RED", Count: 3, Freq: 5, Progress: 2}
	if got := s.Descriptor(); got != "COUNT:RED:3:5Hz" {
		t.Errorf("progress leaked into descriptor: %q", got)
	}
}

func TestParseNegativeCountRejectedOnApply(t *testing.T) {
	// The grammar itself accepts any integer; the transition rejects it.
	st, err := ParseDescriptor("COUNT:RED:-1:5Hz")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if st.Count != -1 {
		t.Errorf("unexpected count: %d", st.Count)
	}
}
