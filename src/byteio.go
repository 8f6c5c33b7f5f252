package afsktnc

import (
	"runtime"
	"time"
)

// cpuRelax yields the processor while busy-waiting, the Go equivalent of
// BeRTOS's cpu_relax() (spec.md §4.5/§5 "Suspension points").
func cpuRelax() {
	runtime.Gosched()
}

// Read pops up to len(buf) bytes from the RX FIFO, honoring the configured
// RX timeout policy (spec.md §4.5):
//
//   - RXNonBlocking (0): returns as many bytes as are currently available,
//     returning early once the FIFO empties.
//   - RXInfinite (-1): blocks forever for each byte.
//   - positive ms: a per-byte deadline measured from entry; a timeout
//     returns a partial read (not an error, spec.md §7 point 5).
func (m *Modem) Read(buf []byte) int {
	n := 0
	for n < len(buf) {
		switch {
		case m.cfg.RXTimeoutMS == int(RXNonBlocking):
			if m.rxFIFO.isEmpty() {
				return n
			}
		case m.cfg.RXTimeoutMS == int(RXInfinite):
			for m.rxFIFO.isEmpty() {
				cpuRelax()
			}
		default:
			deadline := time.Now().Add(time.Duration(m.cfg.RXTimeoutMS) * time.Millisecond)
			for m.rxFIFO.isEmpty() {
				if time.Now().After(deadline) {
					return n
				}
				cpuRelax()
			}
		}
		buf[n] = m.rxFIFO.pop()
		n++
	}
	return n
}

// Write pushes buf onto the TX FIFO, blocking while it is full, and starts
// the modulator if it is not already sending (spec.md §4.5).
func (m *Modem) Write(buf []byte) int {
	for _, c := range buf {
		for m.txFIFO.isFull() {
			cpuRelax()
		}
		m.txFIFO.push(c)
		m.txStart()
	}
	return len(buf)
}

// Flush busy-waits until transmission completes (spec.md §4.5).
func (m *Modem) Flush() {
	for m.Sending() {
		cpuRelax()
	}
}
