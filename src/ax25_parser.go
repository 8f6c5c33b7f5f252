package afsktnc

// ByteSource is anything the AX.25 parser can pull decoded HDLC bytes from.
// *Modem satisfies this directly.
type ByteSource interface {
	Read(buf []byte) int
}

// Parser reassembles the escaped byte stream produced by the HDLC layer
// into AX.25 frames (spec.md §4.6, "AX.25 parser context"). It is not
// reentrant; one Parser per byte stream.
type Parser struct {
	buf []byte // fixed-size frame accumulation buffer
	len int

	sync       bool // true once a flag has opened a frame
	escapeSeen bool
	overflowed bool

	onFrame func(Message)
}

// NewParser allocates a parser with a frame buffer of bufLen bytes
// (spec.md §3, CONFIG_AX25_FRAME_BUF_LEN) that delivers decoded frames to
// onFrame.
func NewParser(bufLen int, onFrame func(Message)) *Parser {
	return &Parser{
		buf:     make([]byte, bufLen),
		onFrame: onFrame,
	}
}

// Feed consumes one byte of the in-band stream exactly as it arrives from
// the HDLC unstuffer, including AX25_ESC escapes and literal HDLC_FLAG
// bytes (spec.md §4.6 "Bytes").
func (p *Parser) Feed(b byte) {
	switch {
	case b == hdlcFlag && !p.escapeSeen:
		p.closeAndReopen()
	case b == ax25Esc && !p.escapeSeen:
		p.escapeSeen = true
	default:
		p.escapeSeen = false
		p.append(b)
	}
}

// closeAndReopen handles an unescaped flag byte: it closes any
// in-progress frame (dispatching it if well formed) and opens the next.
func (p *Parser) closeAndReopen() {
	if p.sync && !p.overflowed && p.len >= axMinFrameLen {
		p.tryDispatch()
	}
	p.sync = true
	p.len = 0
	p.overflowed = false
	p.escapeSeen = false
}

// append stores one literal frame byte, once a frame is open.
func (p *Parser) append(b byte) {
	if !p.sync {
		return
	}
	if p.len >= len(p.buf) {
		p.overflowed = true
		return
	}
	p.buf[p.len] = b
	p.len++
}

// tryDispatch validates the FCS of the accumulated frame and, if it
// checks out, decodes and delivers it (spec.md §4.6 "Decoding a frame").
func (p *Parser) tryDispatch() {
	frame := p.buf[:p.len]
	data := frame[:len(frame)-2]
	wantLo, wantHi := frame[len(frame)-2], frame[len(frame)-1]

	lo, hi := fcsBytes(crc16AX25(data))
	if lo != wantLo || hi != wantHi {
		return // bad FCS, silently dropped (spec.md §7 point 3)
	}

	msg, ok := decodeFrame(data)
	if !ok {
		return
	}
	if p.onFrame != nil {
		p.onFrame(msg)
	}
}

// Poll drains every byte currently available from src into the parser,
// stopping as soon as src reports nothing more to read. It is meant to be
// called from the foreground poll loop against a Modem configured with
// RXNonBlocking (spec.md §5 "Foreground context").
func (p *Parser) Poll(src ByteSource) {
	var b [1]byte
	for src.Read(b[:]) > 0 {
		p.Feed(b[0])
	}
}
