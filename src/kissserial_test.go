package afsktnc

import (
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_KISSSerialPort_decodesFramesFromPTY exercises OpenKISSSerialPort
// against a real pseudo-terminal pair instead of a hardware serial port,
// the same substitution the teacher's go.mod anticipates by depending on
// creack/pty (unused in the teacher's own test suite).
func Test_KISSSerialPort_decodesFramesFromPTY(t *testing.T) {
	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	defer ptmx.Close()
	defer tty.Close()

	station := NewStation(NewModem(DefaultConfig()), 512, func(Message) {})

	port, err := OpenKISSSerialPort(station, nil, tty.Name(), 9600)
	require.NoError(t, err)
	defer port.Close()

	go port.Serve() //nolint:errcheck

	dest := NewCallsign("APRS", 0)
	src := NewCallsign("N0CALL", 0)
	// KISS carries the bare AX.25 frame (address/control/PID/info), no
	// FCS and no HDLC flags: those belong to the physical modem layer.
	body := buildUIBody(dest, src, nil, PIDNoLayer3, []byte("pty test"))

	_, err = ptmx.Write(kissEncapsulate(KISSCmdData, body))
	require.NoError(t, err)

	for i := 0; i < 100 && station.Modem.txFIFO.isEmpty(); i++ {
		time.Sleep(time.Millisecond)
	}

	assert.False(t, station.Modem.txFIFO.isEmpty(), "expected the decoded frame to be queued for transmission")
}
