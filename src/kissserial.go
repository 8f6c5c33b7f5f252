package afsktnc

import (
	"fmt"

	"github.com/pkg/term"
)

// KISSSerialPort runs the KISS protocol over a raw serial line, the Go
// equivalent of the teacher's kissserial.go.
type KISSSerialPort struct {
	station *Station
	logger  *Logger
	port    *term.Term
}

// OpenKISSSerialPort opens device at baud and puts it in raw mode.
func OpenKISSSerialPort(station *Station, logger *Logger, device string, baud int) (*KISSSerialPort, error) {
	t, err := term.Open(device, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("afsktnc: opening serial port %s: %w", device, err)
	}
	return &KISSSerialPort{station: station, logger: logger, port: t}, nil
}

// Serve reads and decodes KISS frames from the port until it errors or is
// closed, dispatching data frames to station for transmission. It handles
// the inbound direction only; a decoded Message reaches the serial client
// only through SendFrame.
func (k *KISSSerialPort) Serve() error {
	dec := &kissDecoder{}
	buf := make([]byte, 256)
	for {
		n, err := k.port.Read(buf)
		if err != nil {
			return fmt.Errorf("afsktnc: serial kiss read: %w", err)
		}
		for _, b := range buf[:n] {
			typeChannel, payload, ok := dec.Feed(b)
			if !ok {
				continue
			}
			if typeChannel&0x0f != KISSCmdData {
				continue
			}
			msg, ok := decodeFrame(payload)
			if !ok {
				if k.logger != nil {
					k.logger.Log(SeverityError, "serial kiss: malformed frame from client, dropped")
				}
				continue
			}
			k.station.Send(msg.Dest, msg.Src, msg.Repeaters, msg.Payload)
		}
	}
}

// SendFrame writes a received frame out to the serial KISS client.
func (k *KISSSerialPort) SendFrame(msg Message) error {
	body := buildUIBody(msg.Dest, msg.Src, msg.Repeaters, msg.PID, msg.Payload)
	_, err := k.port.Write(kissEncapsulate(KISSCmdData, body))
	return err
}

// Close restores the port's prior terminal settings and closes it.
func (k *KISSSerialPort) Close() error {
	return k.port.Close()
}
