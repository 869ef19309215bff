package gpio

// FakeOutput is a test double that records every level written to it.
type FakeOutput struct {
	// Level is the most recently written level.
	Level bool

	// Writes contains every level written, in order.
	Writes []bool

	// WriteError, if set, will be returned by Write.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeOutput creates a FakeOutput driven low.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// Write records the level.
func (f *FakeOutput) Write(on bool) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Level = on
	f.Writes = append(f.Writes, on)
	return nil
}

// Close marks the output as closed.
func (f *FakeOutput) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded writes and drives the fake low.
func (f *FakeOutput) Reset() {
	f.Level = false
	f.Writes = nil
	f.Closed = false
	f.WriteError = nil
}

// RisingEdges returns the number of low-to-high transitions recorded,
// starting from a low line.
func (f *FakeOutput) RisingEdges() int {
	edges := 0
	prev := false
	for _, w := range f.Writes {
		if w && !prev {
			edges++
		}
		prev = w
	}
	return edges
}
