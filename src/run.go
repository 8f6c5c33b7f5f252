package afsktnc

import (
	"context"
	"time"
)

// Station ties a Modem to an AX.25 parser and drives the foreground poll
// loop: draining decoded bytes into frames and keying PTT on sending-state
// transitions (spec.md §5 "Foreground context", §4.9 "Keying discipline").
// Every method that is not explicitly ISR-bound in Modem's own doc comments
// runs from here, single-threaded.
type Station struct {
	Modem  *Modem
	Parser *Parser
	Logger *Logger // optional; set after NewStation to log dropped-frame conditions

	wasSending bool
}

// NewStation wires a parser (frameBufLen bytes) to modem.
func NewStation(modem *Modem, frameBufLen int, onFrame func(Message)) *Station {
	return &Station{
		Modem:  modem,
		Parser: NewParser(frameBufLen, onFrame),
	}
}

// Poll runs exactly one iteration of the foreground loop: clears and logs
// a sticky RX FIFO overrun (spec.md §7 point 1), drains whatever decoded
// bytes are currently available into the AX.25 parser, then samples the
// modulator's Sending() state and fires onTXStart/onTXStop on each
// transition. Safe to call at any rate; Run calls it on a ticker.
func (s *Station) Poll() {
	if s.Modem.Status()&StatusRXFIFOOverrun != 0 {
		if s.Logger != nil {
			s.Logger.Log(SeverityError, "rx fifo overrun, byte(s) dropped")
		}
		s.Modem.ClearError()
	}

	s.Parser.Poll(s.Modem)

	sending := s.Modem.Sending()
	if sending && !s.wasSending {
		if s.Modem.onTXStart != nil {
			s.Modem.onTXStart()
		}
	} else if !sending && s.wasSending {
		if s.Modem.onTXStop != nil {
			s.Modem.onTXStop()
		}
	}
	s.wasSending = sending
}

// Run polls at interval until ctx is canceled. interval should be short
// relative to one bit period's worth of bytes arriving (a few
// milliseconds is typical for 1200 baud).
func (s *Station) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Poll()
		}
	}
}

// Send transmits payload as a UI frame from src to dest via repeaters,
// with the AX.25 no-layer-3 PID, blocking until the bytes are queued
// (not until transmission completes; call Modem.Flush for that).
func (s *Station) Send(dest, src Address, repeaters []Address, payload []byte) {
	EmitUI(s.Modem, dest, src, repeaters, PIDNoLayer3, payload)
}
