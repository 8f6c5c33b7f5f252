package afsktnc

// ByteSink is anything the AX.25 emitter can push a framed byte stream
// into. *Modem satisfies this directly.
type ByteSink interface {
	Write(buf []byte) int
}

// EmitUI builds and writes one UI frame: address header, control, PID,
// payload and FCS, wrapped in opening/closing HDLC flags with any literal
// flag/escape/reset bytes in the body escaped in-band (spec.md §4.7
// "Emitting a frame"). repeaters may be nil.
func EmitUI(sink ByteSink, dest, src Address, repeaters []Address, pid byte, payload []byte) {
	body := buildUIBody(dest, src, repeaters, pid, payload)
	crc := crc16AX25(body)
	lo, hi := fcsBytes(crc)

	var out []byte
	out = append(out, hdlcFlag)
	out = appendEscaped(out, body)
	out = appendEscaped(out, []byte{lo, hi})
	out = append(out, hdlcFlag)

	sink.Write(out)
}

// buildUIBody assembles the unescaped frame body (everything the FCS is
// computed over): destination, source, repeater addresses, control and
// PID, then payload.
func buildUIBody(dest, src Address, repeaters []Address, pid byte, payload []byte) []byte {
	n := len(repeaters)
	body := make([]byte, 0, 2*addrFieldLen+n*addrFieldLen+2+len(payload))

	destField := encodeAddr(dest, false)
	body = append(body, destField[:]...)

	if n == 0 {
		srcField := encodeAddr(src, true)
		body = append(body, srcField[:]...)
	} else {
		srcField := encodeAddr(src, false)
		body = append(body, srcField[:]...)
		for i, r := range repeaters {
			field := encodeAddr(r, i == n-1)
			body = append(body, field[:]...)
		}
	}

	body = append(body, CtrlUI, pid)
	body = append(body, payload...)
	return body
}

// appendEscaped appends data to out, escaping any literal HDLC_FLAG,
// HDLC_RESET or AX25_ESC byte with a leading AX25_ESC (spec.md §4.7
// "in-band escaping").
func appendEscaped(out, data []byte) []byte {
	for _, b := range data {
		if b == hdlcFlag || b == hdlcReset || b == ax25Esc {
			out = append(out, ax25Esc)
		}
		out = append(out, b)
	}
	return out
}
