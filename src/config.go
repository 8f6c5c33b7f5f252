package afsktnc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the TNC's configuration, translated
// from the teacher's line-oriented CHANNEL/PTT/AUDIO directives (config.go)
// into a single YAML document (spec.md §6.5's "compile-time tunables" are,
// in this implementation, read from here instead).
type FileConfig struct {
	Modem ModemFileConfig `yaml:"modem"`
	PTT   PTTFileConfig   `yaml:"ptt"`
	KISS  KISSFileConfig  `yaml:"kiss"`
	Log   LogFileConfig   `yaml:"log"`
}

type ModemFileConfig struct {
	Filter      string `yaml:"filter"`       // "butterworth" or "chebyshev"
	RXFIFOLen   int    `yaml:"rx_fifo_len"`
	TXFIFOLen   int    `yaml:"tx_fifo_len"`
	RXTimeoutMS int    `yaml:"rx_timeout_ms"`
	PreambleMS  int    `yaml:"preamble_ms"`
	TrailerMS   int    `yaml:"trailer_ms"`
	AudioDevice string `yaml:"audio_device"` // PortAudio device name, "" = default
}

type PTTFileConfig struct {
	Method string `yaml:"method"` // "none", "gpio", "hamlib"
	GPIO   struct {
		Chip string `yaml:"chip"`
		Line int    `yaml:"line"`
	} `yaml:"gpio"`
	Hamlib struct {
		RigModel int    `yaml:"rig_model"`
		Device   string `yaml:"device"`
	} `yaml:"hamlib"`
}

type KISSFileConfig struct {
	TCPListen   string `yaml:"tcp_listen"` // "" disables the TCP KISS server
	SerialPort  string `yaml:"serial_port"`
	SerialBaud  int    `yaml:"serial_baud"`
	Advertise   bool   `yaml:"advertise"` // mDNS/DNS-SD advertisement
	ServiceName string `yaml:"service_name"`
}

type LogFileConfig struct {
	DailyDir string `yaml:"daily_dir"` // "" logs to stderr instead
}

// DefaultFileConfig mirrors DefaultConfig's modem defaults plus sensible
// ambient-stack defaults (no PTT backend, no KISS transports enabled).
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Modem: ModemFileConfig{
			Filter:      "chebyshev",
			RXFIFOLen:   32,
			TXFIFOLen:   32,
			RXTimeoutMS: 0,
			PreambleMS:  300,
			TrailerMS:   50,
		},
		PTT:  PTTFileConfig{Method: "none"},
		KISS: KISSFileConfig{SerialBaud: 9600, ServiceName: "afsktnc"},
	}
}

// LoadFileConfig reads and parses a YAML config file, filling in
// DefaultFileConfig's values for anything left zero.
func LoadFileConfig(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("afsktnc: reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("afsktnc: parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// ModemConfig translates the file's modem section into a Config for
// NewModem.
func (f FileConfig) ModemConfig() Config {
	c := Config{
		RXFIFOLen:   f.Modem.RXFIFOLen,
		TXFIFOLen:   f.Modem.TXFIFOLen,
		RXTimeoutMS: f.Modem.RXTimeoutMS,
		PreambleMS:  f.Modem.PreambleMS,
		TrailerMS:   f.Modem.TrailerMS,
	}
	if c.PreambleMS == 0 {
		c.PreambleMS = 300
	}
	if c.TrailerMS == 0 {
		c.TrailerMS = 50
	}
	if f.Modem.Filter == "butterworth" {
		c.Filter = FilterButterworth
	} else {
		c.Filter = FilterChebyshev
	}
	return c
}
