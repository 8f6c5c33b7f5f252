package afsktnc

import "fmt"

// PTTController keys and unkeys the transmitter. Exactly one backend is
// active per process (DESIGN.md "Open Question decisions"); it is wired to
// a Modem via SetTXHooks so it is only ever driven from the foreground
// poll loop (spec.md §4.9), never from ISR context.
type PTTController interface {
	Key() error
	Unkey() error
	Close() error
}

// nonePTT is the default no-op backend, used when a config selects
// method "none" (e.g. testing, or VOX-keyed radios).
type nonePTT struct{}

func (nonePTT) Key() error   { return nil }
func (nonePTT) Unkey() error { return nil }
func (nonePTT) Close() error { return nil }

// NewPTTController builds the configured PTT backend, translating the
// teacher's ptt.go method selection (RTS/DTR/GPIO/parallel/hamlib) down to
// the two backends this core wires a real dependency to.
func NewPTTController(cfg PTTFileConfig) (PTTController, error) {
	switch cfg.Method {
	case "", "none":
		return nonePTT{}, nil
	case "gpio":
		return newGPIOPTT(cfg.GPIO.Chip, cfg.GPIO.Line)
	case "hamlib":
		return newHamlibPTT(cfg.Hamlib.RigModel, cfg.Hamlib.Device)
	default:
		return nil, fmt.Errorf("afsktnc: unknown ptt method %q", cfg.Method)
	}
}

// Wire installs p on modem as the keying backend, logging failures through
// logger rather than letting them propagate into ISR-adjacent code.
func Wire(modem *Modem, p PTTController, logger *Logger) {
	modem.SetTXHooks(
		func() {
			if err := p.Key(); err != nil && logger != nil {
				logger.Log(SeverityError, "ptt key failed: %v", err)
			}
		},
		func() {
			if err := p.Unkey(); err != nil && logger != nil {
				logger.Log(SeverityError, "ptt unkey failed: %v", err)
			}
		},
	)
}
