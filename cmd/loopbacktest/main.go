// Command loopbacktest runs a purely digital encode/decode round trip
// (modulator samples fed straight back into the demodulator, no sound
// card involved) and reports whether the payload it transmitted to itself
// came back intact. Useful as a quick sanity check after touching the DSP
// or framing layers.
package main

import (
	"fmt"
	"os"

	"github.com/packetradio/afsktnc/src"
	"github.com/spf13/pflag"
)

func main() {
	var text = pflag.StringP("text", "x", "the quick brown fox", "Payload text to loop back.")
	var help = pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: loopbacktest [options]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	cfg := afsktnc.DefaultConfig()
	cfg.RXFIFOLen = 256
	cfg.TXFIFOLen = 512 // the whole frame is queued before any sample is generated
	modem := afsktnc.NewModem(cfg)

	var delivered *afsktnc.Message
	station := afsktnc.NewStation(modem, 512, func(msg afsktnc.Message) { delivered = &msg })

	dest := afsktnc.NewCallsign("APRS", 0)
	src := afsktnc.NewCallsign("N0CALL", 0)
	station.Send(dest, src, nil, []byte(*text))

	for modem.Sending() {
		out := modem.ModulatorISR()
		modem.DemodISR(int8(int(out) - 128))
	}
	for i := 0; i < 4096; i++ {
		out := modem.ModulatorISR()
		modem.DemodISR(int8(int(out) - 128))
		station.Poll()
	}
	station.Poll()

	if delivered == nil {
		fmt.Fprintln(os.Stderr, "FAIL: no frame decoded")
		os.Exit(1)
	}
	if string(delivered.Payload) != *text {
		fmt.Fprintf(os.Stderr, "FAIL: got payload %q, want %q\n", delivered.Payload, *text)
		os.Exit(1)
	}
	fmt.Printf("OK: %s\n", delivered)
}
