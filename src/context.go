package afsktnc

import (
	"math"
	"sync/atomic"
)

// Sample clock and tone constants (spec.md §4.1). The sample rate must be an
// integer multiple of the bit rate; the array-size assertion below
// enforces this at compile time the way BeRTOS's STATIC_ASSERT does.
const (
	sampleRate = 9600
	bitRate    = 1200

	samplesPerBit = sampleRate / bitRate

	markFreq  = 1200
	spaceFreq = 2200

	phaseBit  = 8
	phaseInc  = 1
	phaseMax  = samplesPerBit * phaseBit
	phaseThres = phaseMax / 2

	bitStuffLen = 5
)

// markInc and spaceInc are the DDS phase increments for the two tones,
// round(sinLen * tone_hz / sample_rate), matching afsk.c's MARK_INC/SPACE_INC.
var (
	markInc  = uint16(math.Round(float64(sinLen) * markFreq / sampleRate))
	spaceInc = uint16(math.Round(float64(sinLen) * spaceFreq / sampleRate))
)

// This blank assignment fails to compile if sampleRate is not an
// exact multiple of bitRate (BeRTOS: STATIC_ASSERT(!(SAMPLERATE % BITRATE))).
var _ [0]struct{} = [sampleRate % bitRate]struct{}{}

// Filter selects the demodulator's IIR low-pass variant (spec.md §4.3 step 2).
type Filter int

const (
	FilterButterworth Filter = iota
	FilterChebyshev
)

// RXTimeout selects the blocking policy of Read (spec.md §4.5).
type RXTimeout int

const (
	RXNonBlocking RXTimeout = 0  // return only what is currently available
	RXInfinite    RXTimeout = -1 // block forever for each byte
)

// HDLC/AX.25 framing bytes (spec.md §4.4/§4.6).
const (
	hdlcFlag  byte = 0x7E
	hdlcReset byte = 0x7F
	ax25Esc   byte = 0x1B

	hdlcResetMask    byte = 0x7F
	hdlcResetPattern byte = 0x7F
)

// Status bits (spec.md §3).
type Status uint32

const (
	StatusRXFIFOOverrun Status = 1 << iota
)

// Config bundles the compile-time-tunable parameters of spec.md §6.5 that
// this implementation instead resolves at modem construction time.
type Config struct {
	Filter       Filter
	RXFIFOLen    int // bytes, default >= 32
	TXFIFOLen    int // bytes, default >= 32
	RXTimeoutMS  int // 0 = non-blocking, -1 = infinite, >0 = per-byte deadline
	PreambleMS   int // default 300
	TrailerMS    int // default 50
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		Filter:      FilterChebyshev,
		RXFIFOLen:   32,
		TXFIFOLen:   32,
		RXTimeoutMS: 0,
		PreambleMS:  300,
		TrailerMS:   50,
	}
}

// hdlcState is the bit-level HDLC unstuffer's state (spec.md §4.4).
type hdlcState struct {
	demodBits byte // last 8 NRZI-decoded bits, LSB = newest
	currChar  byte // byte under construction, LSB-first
	bitIdx    int  // 0..7
	rxStart   bool // true after a frame-opening flag was seen
}

// Modem is one AFSK modem context (spec.md §3). All ISR-owned fields are
// touched only by DemodISR/ModulatorISR; rxFIFO/txFIFO are the SPSC bridges
// to the foreground byte-stream interface.
type Modem struct {
	cfg Config

	// --- Modulator ISR state (owned exclusively by ModulatorISR) ---
	sampleCount  int
	currOut      byte
	txBit        byte
	bitStuff     bool
	stuffCnt     int
	phaseAcc     uint16
	phaseInc     uint16
	preambleLen  int
	trailerLen   atomic.Int32 // written by foreground write(), read/decremented by modulator ISR
	sending      atomic.Int32 // 0/1, written by modulator ISR, read by foreground

	// --- Demodulator ISR state (owned exclusively by DemodISR) ---
	delay       *sampleDelayLine
	iirX        [2]int16
	iirY        [2]int16
	sampledBits byte
	currPhase   int
	foundBits   byte
	hdlc        hdlcState

	// --- Shared byte FIFOs (SPSC) ---
	rxFIFO *byteFIFO // demod ISR -> foreground
	txFIFO *byteFIFO // foreground -> modulator ISR

	// --- Status, atomic w.r.t. ISR ---
	status atomic.Uint32

	onTXStart func() // optional hook, e.g. to key PTT; called from foreground only
	onTXStop  func()
}

// NewModem allocates a modem context with fixed-capacity FIFOs. There is no
// teardown: contexts live for process lifetime (spec.md §5).
func NewModem(cfg Config) *Modem {
	if cfg.RXFIFOLen < 2 {
		cfg.RXFIFOLen = 32
	}
	if cfg.TXFIFOLen < 2 {
		cfg.TXFIFOLen = 32
	}
	m := &Modem{
		cfg:      cfg,
		delay:    newSampleDelayLine(),
		rxFIFO:   newByteFIFO(cfg.RXFIFOLen),
		txFIFO:   newByteFIFO(cfg.TXFIFOLen),
		phaseInc: markInc,
	}
	return m
}

// Status returns and does not clear the modem's sticky status bitmap.
func (m *Modem) Status() Status {
	return Status(m.status.Load())
}

// ClearError clears the status bitmap (spec.md §4.5).
func (m *Modem) ClearError() {
	m.status.Store(0)
}

// Sending reports whether the modulator is currently keyed (spec.md §5).
func (m *Modem) Sending() bool {
	return m.sending.Load() != 0
}

// SetTXHooks installs optional PTT-keying callbacks, invoked by
// Station.Poll on Sending() transitions in the foreground loop (spec.md
// §4.9's ISR/foreground separation), never from ISR context.
func (m *Modem) SetTXHooks(onStart, onStop func()) {
	m.onTXStart = onStart
	m.onTXStop = onStop
}
