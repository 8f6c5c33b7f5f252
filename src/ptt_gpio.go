package afsktnc

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// gpioPTT drives a single GPIO output line low=unkeyed/high=keyed, the Go
// equivalent of the teacher's Linux GPIO PTT path (ptt.go, "Ability to use
// GPIO pins on Linux").
type gpioPTT struct {
	line *gpiocdev.Line
}

func newGPIOPTT(chip string, offset int) (*gpioPTT, error) {
	if chip == "" {
		chip = "/dev/gpiochip0"
	}
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("afsktnc: requesting gpio line %s:%d: %w", chip, offset, err)
	}
	return &gpioPTT{line: line}, nil
}

func (p *gpioPTT) Key() error   { return p.line.SetValue(1) }
func (p *gpioPTT) Unkey() error { return p.line.SetValue(0) }
func (p *gpioPTT) Close() error { return p.line.Close() }
