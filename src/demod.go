package afsktnc

// bitDiffer reports whether the low bits of two bit-histories differ
// (BeRTOS's BIT_DIFFER macro).
func bitDiffer(a, b byte) bool {
	return (a^b)&0x01 != 0
}

// edgeFound reports a zero crossing between the two most recent bits in a
// shift register (BeRTOS's EDGE_FOUND macro).
func edgeFound(bitline byte) bool {
	return bitDiffer(bitline, bitline>>1)
}

// DemodISR is invoked once per ADC sample (9600 Hz). sample is a signed
// 8-bit value already centered at 0 (spec.md §4.3/§6.1, e.g. (raw>>2)-128
// for a 10-bit ADC). It must be non-blocking and O(1).
func (m *Modem) DemodISR(sample int8) {
	// Correlator: multiply the current sample with its half-bit-delayed
	// partner. This frequency discriminator's sign tracks which tone is
	// present (spec.md §4.3 step 1).
	m.iirX[0] = m.iirX[1]
	m.iirX[1] = int16((int32(m.delay.pop()) * int32(sample)) >> 2)

	// First-order IIR low-pass (spec.md §4.3 step 2). The shift-based
	// coefficients approximate 0.668*y (Butterworth) / 0.438*y (Chebyshev)
	// and were tuned jointly with the >>2 correlator gain above; do not
	// change independently of it.
	m.iirY[0] = m.iirY[1]
	switch m.cfg.Filter {
	case FilterButterworth:
		m.iirY[1] = m.iirX[0] + m.iirX[1] + (m.iirY[0] >> 1) + (m.iirY[0] >> 3) + (m.iirY[0] >> 5)
	default: // FilterChebyshev
		m.iirY[1] = m.iirX[0] + m.iirX[1] + (m.iirY[0] >> 1)
	}

	// Slicer: record the sign as a new bit in the sample-history register.
	m.sampledBits <<= 1
	if m.iirY[1] > 0 {
		m.sampledBits |= 1
	}

	m.delay.push(sample)

	// Phase tracker: nudge toward the center on zero crossings (soft PLL).
	if edgeFound(m.sampledBits) {
		if m.currPhase < phaseThres {
			m.currPhase += phaseInc
		} else {
			m.currPhase -= phaseInc
		}
	}
	m.currPhase += phaseBit

	if m.currPhase >= phaseMax {
		m.currPhase %= phaseMax

		m.foundBits <<= 1

		// Majority-of-3 over the last three sampled bits: a tie-break rule
		// for noisy zero crossings, load-bearing per spec.md §9 — do not
		// replace with simple mid-bit sampling.
		bits := m.sampledBits & 0x07
		if bits == 0x07 || bits == 0x06 || bits == 0x05 || bits == 0x03 {
			m.foundBits |= 1
		}

		// NRZI decode: no change between successive decoded bits -> 1.
		bitOut := !edgeFound(m.foundBits)

		if !m.hdlcFeed(bitOut) {
			m.status.Or(uint32(StatusRXFIFOOverrun))
		}
	}
}
