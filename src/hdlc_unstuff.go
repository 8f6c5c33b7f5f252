package afsktnc

// hdlcFeed implements the bit-level HDLC unstuffer (spec.md §4.4), the Go
// translation of BeRTOS's hdlc_parse (afsk.c). It is called once per
// NRZI-decoded bit from DemodISR and pushes delimiters/bytes into rxFIFO.
// Returns false if a push had to be dropped because rxFIFO was full.
func (m *Modem) hdlcFeed(bit bool) bool {
	h := &m.hdlc

	h.demodBits <<= 1
	if bit {
		h.demodBits |= 1
	}

	// HDLC flag: 0111 1110
	if h.demodBits == hdlcFlag {
		ok := true
		if !m.rxFIFO.isFull() {
			m.rxFIFO.push(hdlcFlag)
			h.rxStart = true
		} else {
			ok = false
			h.rxStart = false
		}
		h.currChar = 0
		h.bitIdx = 0
		return ok
	}

	// Reset pattern: 7+ consecutive ones.
	if h.demodBits&hdlcResetMask == hdlcResetPattern {
		h.rxStart = false
		return true
	}

	if !h.rxStart {
		return true
	}

	// Stuffed 0 after five ones: 0111 110 -> low 6 bits == 0x3e. Drop it.
	if h.demodBits&0x3f == 0x3e {
		return true
	}

	if h.demodBits&0x01 != 0 {
		h.currChar |= 0x80
	}
	h.bitIdx++

	if h.bitIdx >= 8 {
		ok := true
		if h.currChar == hdlcFlag || h.currChar == hdlcReset || h.currChar == ax25Esc {
			if !m.rxFIFO.isFull() {
				m.rxFIFO.push(ax25Esc)
			} else {
				h.rxStart = false
				ok = false
			}
		}
		if !m.rxFIFO.isFull() {
			m.rxFIFO.push(h.currChar)
		} else {
			h.rxStart = false
			ok = false
		}
		h.currChar = 0
		h.bitIdx = 0
		return ok
	}

	h.currChar >>= 1
	return true
}
