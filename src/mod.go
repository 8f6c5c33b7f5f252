package afsktnc

// switchTone toggles the DDS phase increment between the mark and space
// tones (spec.md §4.2 step 3/4, BeRTOS's SWITCH_TONE macro).
func switchTone(inc uint16) uint16 {
	if inc == markInc {
		return spaceInc
	}
	return markInc
}

// ModulatorISR is invoked once per DAC sample (9600 Hz). It must be
// non-blocking and O(1) (spec.md §4.2). It returns the next unsigned 8-bit
// DAC sample, centered at 128.
func (m *Modem) ModulatorISR() uint8 {
	if m.sampleCount == 0 {
		if m.txBit == 0 {
			// Just finished transmitting a byte (or starting cold); fetch the next one.
			if m.txFIFO.isEmpty() && m.trailerLen.Load() == 0 {
				m.sending.Store(0)
				return 128
			}

			if !m.bitStuff {
				m.stuffCnt = 0
			}
			m.bitStuff = true

			if m.preambleLen > 0 {
				m.preambleLen--
				m.currOut = hdlcFlag
			} else if m.txFIFO.isEmpty() {
				m.trailerLen.Add(-1)
				m.currOut = hdlcFlag
			} else {
				m.currOut = m.txFIFO.pop()
			}

			if m.currOut == ax25Esc {
				if m.txFIFO.isEmpty() {
					// TX FIFO emptied exactly between an escape byte and its
					// payload byte: documented unrecoverable race (spec.md
					// §7 point 4 / §9 Open Question). Writers should keep
					// escape sequences inside one Write call to avoid this.
					m.sending.Store(0)
					return 128
				}
				m.currOut = m.txFIFO.pop()
			} else if m.currOut == hdlcFlag || m.currOut == hdlcReset {
				m.bitStuff = false
			}

			m.txBit = 0x01
		}

		if m.bitStuff && m.stuffCnt >= bitStuffLen {
			m.stuffCnt = 0
			m.phaseInc = switchTone(m.phaseInc)
		} else {
			if m.currOut&m.txBit != 0 {
				// NRZI "no change": transmitting a 1.
				m.stuffCnt++
			} else {
				// NRZI "change": transmitting a 0.
				m.stuffCnt = 0
				m.phaseInc = switchTone(m.phaseInc)
			}
			m.txBit <<= 1
		}

		m.sampleCount = samplesPerBit
	}

	m.phaseAcc = (m.phaseAcc + m.phaseInc) % sinLen
	m.sampleCount--
	return sineSample(m.phaseAcc)
}

// txStart arms the modulator for transmission (spec.md §4.2 "Starting
// transmission"). Called from the foreground write() path.
func (m *Modem) txStart() {
	if m.sending.Load() == 0 {
		m.phaseInc = markInc
		m.phaseAcc = 0
		m.stuffCnt = 0
		m.preambleLen = roundDiv(m.cfg.PreambleMS*bitRate, 8000)
		m.sending.Store(1)
	}
	m.trailerLen.Store(int32(roundDiv(m.cfg.TrailerMS*bitRate, 8000)))
}

func roundDiv(num, den int) int {
	if den == 0 {
		return 0
	}
	if (num < 0) != (den < 0) {
		return -roundDiv(-num, den)
	}
	return (num + den/2) / den
}
