// Package config loads the device settings file.
//
// The file seeds the sqlite profile on first run and carries the settings that never
// live in the database: network identity, actuator wiring, watchdog and reset policy.
// WiFi credentials are read from the environment only.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the singingbell settings.
type Config struct {
	// ListenAddress is the HTTP listen address used when bootstrapping the database.
	ListenAddress string `yaml:"listen_addr"`
	// CalibAngle is the servo angle at which the mallet touches the bowl.
	CalibAngle int `yaml:"calib_angle"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level"`
	// Database is the sqlite file path.
	Database string `yaml:"database"`

	Network  Network  `yaml:"network"`
	Actuator Actuator `yaml:"actuator"`
	Chime    Chime    `yaml:"chime"`
	Watchdog Watchdog `yaml:"watchdog"`

	// WiFi is filled from the environment and never written back.
	WiFi Credentials `yaml:"-"`
}

// Network describes the static addressing of the device.
type Network struct {
	Hostname string `yaml:"hostname"`
	// Address is the static IPv4 address expected on the device. Empty skips the join check.
	Address string `yaml:"address"`
	Netmask string `yaml:"netmask"`
	// Gateway is probed by the watchdog. Empty disables the watchdog.
	Gateway string `yaml:"gateway"`
}

// Actuator selects the mallet driver.
type Actuator struct {
	// Driver is "serial" or "null".
	Driver string `yaml:"driver"`
	Port   string `yaml:"port"`
	Baud   int    `yaml:"baud"`
}

// Chime holds request validation settings.
type Chime struct {
	// StrictType rejects chime types other than alarm, meditate and doorbell. Defaults to true.
	StrictType *bool `yaml:"strict_type,omitempty"`
}

// Watchdog holds the connectivity check settings.
type Watchdog struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
	// Reset is "exit" or "reboot".
	Reset string `yaml:"reset"`
	// Privileged uses raw ICMP sockets instead of unprivileged datagram pings.
	Privileged bool `yaml:"privileged"`
}

// Credentials are the WiFi network credentials.
type Credentials struct {
	SSID     string
	Password string
}

const (
	// DefaultConfigFilename is the default settings file.
	DefaultConfigFilename = "singingbell.yaml"

	// DefaultDatabase is the default sqlite file.
	DefaultDatabase = "singingbell.db"

	// DefaultListenAddress is the default HTTP listen address.
	DefaultListenAddress = "0.0.0.0:8080"

	// DefaultCalibAngle is the calibration angle of the reference build.
	DefaultCalibAngle = 165

	// DefaultHostname is the network name of the device.
	DefaultHostname = "singing-bell"

	// DefaultNetmask is the default static netmask.
	DefaultNetmask = "255.255.255.0"

	// DefaultWatchdogInterval is the time between gateway probes.
	DefaultWatchdogInterval = 120 * time.Second

	// DefaultWatchdogTimeout bounds a single gateway probe.
	DefaultWatchdogTimeout = 3 * time.Second

	// DefaultBaud is the serial servo link speed.
	DefaultBaud = 115200

	// DefaultFilePermissions is the file mode for saved settings.
	DefaultFilePermissions = 0o600

	// Environment variables for the WiFi credentials
	EnvWiFiSSID     = "SINGINGBELL_WIFI_SSID"
	EnvWiFiPassword = "SINGINGBELL_WIFI_PASSWORD"
)

// Drivers
const (
	DriverSerial = "serial"
	DriverNull   = "null"
)

var (
	errConfigIsNotSet = errors.New("configuration is not set")

	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("invalid configuration")
)

// Default returns settings with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = Validate(cfg)
	return cfg
}

// Load reads settings from path, applies defaults and reads the WiFi credentials.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	cfg.WiFi = CredentialsFromEnv()
	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.WiFi = CredentialsFromEnv()
		return cfg, nil
	}
	return cfg, err
}

// Save writes settings to path. Credentials are not written.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// CredentialsFromEnv reads the WiFi credentials.
func CredentialsFromEnv() Credentials {
	return Credentials{
		SSID:     os.Getenv(EnvWiFiSSID),
		Password: os.Getenv(EnvWiFiPassword),
	}
}

// StrictChimeType reports whether chime types are checked against the known patterns.
func (c *Config) StrictChimeType() bool {
	return c.Chime.StrictType == nil || *c.Chime.StrictType
}

// Validate applies defaults and checks field formats.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		return fmt.Errorf("%w: listen address: %v", ErrInvalid, err)
	}

	if cfg.CalibAngle == 0 {
		cfg.CalibAngle = DefaultCalibAngle
	}
	if cfg.CalibAngle < 10 || cfg.CalibAngle > 170 {
		return fmt.Errorf("%w: calib_angle %d outside [10, 170]", ErrInvalid, cfg.CalibAngle)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}

	if err := cfg.Network.validate(); err != nil {
		return err
	}
	if err := cfg.Actuator.validate(); err != nil {
		return err
	}
	return cfg.Watchdog.validate()
}

func (n *Network) validate() error {
	if n.Hostname == "" {
		n.Hostname = DefaultHostname
	}
	if n.Netmask == "" {
		n.Netmask = DefaultNetmask
	}

	for name, value := range map[string]string{"address": n.Address, "netmask": n.Netmask, "gateway": n.Gateway} {
		if value == "" {
			continue
		}
		addr, err := netip.ParseAddr(value)
		if err != nil || !addr.Is4() {
			return fmt.Errorf("%w: network %s %q is not an IPv4 address", ErrInvalid, name, value)
		}
	}
	return nil
}

func (a *Actuator) validate() error {
	if a.Driver == "" {
		a.Driver = DriverNull
		if a.Port != "" {
			a.Driver = DriverSerial
		}
	}
	if a.Baud <= 0 {
		a.Baud = DefaultBaud
	}

	switch a.Driver {
	case DriverNull:
		return nil
	case DriverSerial:
		if a.Port == "" {
			return fmt.Errorf("%w: serial actuator needs a port", ErrInvalid)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown actuator driver %q", ErrInvalid, a.Driver)
	}
}

func (w *Watchdog) validate() error {
	if w.Interval <= 0 {
		w.Interval = DefaultWatchdogInterval
	}
	if w.Timeout <= 0 {
		w.Timeout = DefaultWatchdogTimeout
	}
	if w.Reset == "" {
		w.Reset = "exit"
	}
	if w.Reset != "exit" && w.Reset != "reboot" {
		return fmt.Errorf("%w: unknown reset mode %q", ErrInvalid, w.Reset)
	}
	return nil
}
