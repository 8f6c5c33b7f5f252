package afsktnc

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// AudioDuplex binds a Modem to a real sound card input/output pair via
// PortAudio, the hardware realization of the sample-level I/O boundary
// (spec.md §6.1/§4.8): portaudio's callback plays the role of the
// BeRTOS ADC/DAC ISR, calling DemodISR/ModulatorISR once per sample at
// sampleRate.
type AudioDuplex struct {
	modem  *Modem
	stream *portaudio.Stream
}

// OpenAudioDuplex initializes PortAudio (if not already) and opens a
// full-duplex stream at sampleRate Hz on deviceName, or the system
// default device when deviceName is empty.
func OpenAudioDuplex(modem *Modem, deviceName string) (*AudioDuplex, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("afsktnc: portaudio init: %w", err)
	}

	a := &AudioDuplex{modem: modem}

	inDev, outDev, err := resolveAudioDevices(deviceName)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   inDev,
			Channels: 1,
			Latency:  inDev.DefaultLowInputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Device:   outDev,
			Channels: 1,
			Latency:  outDev.DefaultLowOutputLatency,
		},
		SampleRate:      sampleRate,
		FramesPerBuffer: samplesPerBit,
	}

	stream, err := portaudio.OpenStream(params, a.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("afsktnc: opening stream: %w", err)
	}
	a.stream = stream
	return a, nil
}

// resolveAudioDevices picks the named device for both directions, or the
// host API's defaults when name is empty.
func resolveAudioDevices(name string) (in, out *portaudio.DeviceInfo, err error) {
	if name == "" {
		hostAPI, err := portaudio.DefaultHostApi()
		if err != nil {
			return nil, nil, fmt.Errorf("afsktnc: default host api: %w", err)
		}
		return hostAPI.DefaultInputDevice, hostAPI.DefaultOutputDevice, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, nil, fmt.Errorf("afsktnc: listing devices: %w", err)
	}
	for _, d := range devices {
		if d.Name == name {
			return d, d, nil
		}
	}
	return nil, nil, fmt.Errorf("afsktnc: no audio device named %q", name)
}

// callback runs on PortAudio's real-time thread: it must stay allocation-
// free and non-blocking, the same ISR-context discipline spec.md §4.2/§4.3
// require of DemodISR/ModulatorISR themselves.
func (a *AudioDuplex) callback(in, out []float32) {
	for i := range in {
		a.modem.DemodISR(floatToSample(in[i]))
		out[i] = sampleToFloat(a.modem.ModulatorISR())
	}
}

func floatToSample(f float32) int8 {
	v := int32(f * 127)
	if v > 127 {
		v = 127
	}
	if v < -128 {
		v = -128
	}
	return int8(v)
}

func sampleToFloat(u uint8) float32 {
	return (float32(u) - 128) / 128
}

// Start begins streaming.
func (a *AudioDuplex) Start() error { return a.stream.Start() }

// Stop halts streaming without closing the device.
func (a *AudioDuplex) Stop() error { return a.stream.Stop() }

// Close releases the stream and, since PortAudio is process-global,
// terminates the library.
func (a *AudioDuplex) Close() error {
	if err := a.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}
