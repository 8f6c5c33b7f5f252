package afsktnc

import "io"

// SampleSource is the ADC side of the sample-level I/O boundary (spec.md
// §6.1). Next is called once per 9600 Hz tick and returns the latest
// signed sample, already centered at 0.
type SampleSource interface {
	Next() int8
}

// SampleSink is the DAC side of the sample-level I/O boundary (spec.md
// §6.1). Output hands the sink the next unsigned sample to emit.
type SampleSink interface {
	Output(sample uint8)
}

// WriterSink adapts an io.Writer (a raw PCM file, a pipe to an external
// player) to SampleSink, one unsigned byte per sample.
type WriterSink struct {
	W io.Writer
}

// Output writes sample as a single byte. Write errors are swallowed: like
// ModulatorISR itself, Output must never block the sample clock on I/O
// backpressure. Callers that care about a failed drain should check W
// directly (e.g. a *bufio.Writer's buffered error) after streaming ends.
func (s WriterSink) Output(sample uint8) {
	_, _ = s.W.Write([]byte{sample})
}

// ReaderSource adapts an io.Reader of raw signed 8-bit PCM to SampleSource.
// Once the reader is exhausted (or errors) Next returns silence.
type ReaderSource struct {
	R io.Reader
}

// Next reads one signed sample, or 0 once the underlying reader is drained.
func (s ReaderSource) Next() int8 {
	var b [1]byte
	if _, err := io.ReadFull(s.R, b[:]); err != nil {
		return 0
	}
	return int8(b[0])
}
