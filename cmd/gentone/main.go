// Command gentone modulates a short AX.25 UI frame to raw 8-bit unsigned
// PCM samples on stdout, useful for feeding into an external player or
// spectrum analyzer without any sound-card dependency.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/packetradio/afsktnc/src"
	"github.com/spf13/pflag"
)

func main() {
	var dest = pflag.StringP("dest", "d", "APRS", "Destination callsign.")
	var src = pflag.StringP("src", "s", "N0CALL", "Source callsign.")
	var ssid = pflag.IntP("ssid", "S", 0, "Source SSID.")
	var text = pflag.StringP("text", "x", "Hello, world!", "Payload text.")
	var help = pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gentone [options] > out.raw\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	cfg := afsktnc.DefaultConfig()
	cfg.TXFIFOLen = 512 // the whole frame is queued before any sample is generated
	modem := afsktnc.NewModem(cfg)
	afsktnc.EmitUI(modem, afsktnc.NewCallsign(*dest, 0), afsktnc.NewCallsign(*src, *ssid), nil, afsktnc.PIDNoLayer3, []byte(*text))

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	sink := afsktnc.WriterSink{W: w}

	for modem.Sending() {
		sink.Output(modem.ModulatorISR())
	}
}
