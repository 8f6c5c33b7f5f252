// Command afsktnc is a 1200 baud AFSK/AX.25 software TNC: it demodulates
// and decodes packets from a sound card (or loopback), dispatches them to
// connected KISS clients, and re-modulates frames clients hand it back for
// transmission.
package main

import (
	"context"
	"fmt"
	"os"
	"net"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/packetradio/afsktnc/src"
	"github.com/spf13/pflag"
)

func main() {
	var configPath = pflag.StringP("config", "c", "", "Path to YAML config file.")
	var tcpListen = pflag.StringP("kiss-tcp", "t", "", "Address to listen for KISS TCP clients, e.g. :8001. Overrides config.")
	var mycall = pflag.StringP("mycall", "m", "", "Default source callsign used by this station, e.g. N0CALL-1.")
	var help = pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: afsktnc [options]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	fileCfg, err := afsktnc.LoadFileConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *tcpListen != "" {
		fileCfg.KISS.TCPListen = *tcpListen
	}

	logger, err := afsktnc.NewLogger(os.Stderr, fileCfg.Log.DailyDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Close()

	modem := afsktnc.NewModem(fileCfg.ModemConfig())

	ptt, err := afsktnc.NewPTTController(fileCfg.PTT)
	if err != nil {
		logger.Log(afsktnc.SeverityError, "ptt setup: %v", err)
		os.Exit(1)
	}
	defer ptt.Close()
	afsktnc.Wire(modem, ptt, logger)

	audio, err := afsktnc.OpenAudioDuplex(modem, fileCfg.Modem.AudioDevice)
	if err != nil {
		logger.Log(afsktnc.SeverityError, "audio setup: %v", err)
		os.Exit(1)
	}
	defer audio.Close()
	if err := audio.Start(); err != nil {
		logger.Log(afsktnc.SeverityError, "audio start: %v", err)
		os.Exit(1)
	}
	defer audio.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var kissServer *afsktnc.KISSNetServer
	station := afsktnc.NewStation(modem, 512, func(msg afsktnc.Message) {
		logger.Log(afsktnc.SeverityDecoded, "%s", msg)
		if kissServer != nil {
			kissServer.Broadcast(msg)
		}
	})
	station.Logger = logger

	if fileCfg.KISS.TCPListen != "" {
		kissServer = afsktnc.NewKISSNetServer(station, logger)
		go func() {
			if err := kissServer.Serve(fileCfg.KISS.TCPListen); err != nil {
				logger.Log(afsktnc.SeverityError, "kiss tcp server stopped: %v", err)
			}
		}()
		if fileCfg.KISS.Advertise {
			_, port, _ := splitPort(fileCfg.KISS.TCPListen)
			if err := afsktnc.AnnounceKISSService(ctx, fileCfg.KISS.ServiceName, port, logger); err != nil {
				logger.Log(afsktnc.SeverityError, "dns-sd: %v", err)
			}
		}
	}

	if fileCfg.KISS.SerialPort != "" {
		var serialPort *afsktnc.KISSSerialPort
		openSerial := func() {
			p, err := afsktnc.OpenKISSSerialPort(station, logger, fileCfg.KISS.SerialPort, fileCfg.KISS.SerialBaud)
			if err != nil {
				logger.Log(afsktnc.SeverityError, "serial kiss open %s: %v", fileCfg.KISS.SerialPort, err)
				return
			}
			serialPort = p
			go func() {
				if err := p.Serve(); err != nil {
					logger.Log(afsktnc.SeverityError, "serial kiss port stopped: %v", err)
				}
			}()
		}
		openSerial()
		defer func() {
			if serialPort != nil {
				serialPort.Close()
			}
		}()

		watcher := afsktnc.NewDeviceWatcher(fileCfg.KISS.SerialPort,
			func(devnode string) {
				logger.Log(afsktnc.SeverityInfo, "serial kiss device %s appeared, reopening", devnode)
				openSerial()
			},
			func(devnode string) {
				logger.Log(afsktnc.SeverityInfo, "serial kiss device %s removed", devnode)
				if serialPort != nil {
					serialPort.Close()
					serialPort = nil
				}
			})
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Log(afsktnc.SeverityError, "device watcher stopped: %v", err)
			}
		}()
	}

	if *mycall != "" {
		logger.Log(afsktnc.SeverityInfo, "station callsign %s", *mycall)
	}

	station.Run(ctx, 5*time.Millisecond)
}

func splitPort(addr string) (host string, port int, err error) {
	h, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	n, err := strconv.Atoi(p)
	return h, n, err
}
