package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestDefault checks the defaults match the reference build.
func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.Equal(t, DefaultListenAddress, cfg.ListenAddress)
	require.Equal(t, 165, cfg.CalibAngle)
	require.Equal(t, "singing-bell", cfg.Network.Hostname)
	require.Equal(t, DriverNull, cfg.Actuator.Driver)
	require.Equal(t, 120*time.Second, cfg.Watchdog.Interval)
	require.Equal(t, 3*time.Second, cfg.Watchdog.Timeout)
	require.Equal(t, "exit", cfg.Watchdog.Reset)
	require.True(t, cfg.StrictChimeType())
}

// TestValidate checks field formats.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	// Calibration angle leaves no room for the ready position.
	err := Validate(&Config{CalibAngle: 5})
	require.ErrorIs(t, err, ErrInvalid)

	// Chime position past the servo travel.
	err = Validate(&Config{CalibAngle: 175})
	require.ErrorIs(t, err, ErrInvalid)

	err = Validate(&Config{ListenAddress: "no-port"})
	require.ErrorIs(t, err, ErrInvalid)

	err = Validate(&Config{Network: Network{Gateway: "router.local"}})
	require.ErrorIs(t, err, ErrInvalid)

	err = Validate(&Config{Actuator: Actuator{Driver: DriverSerial}})
	require.ErrorIs(t, err, ErrInvalid)

	err = Validate(&Config{Watchdog: Watchdog{Reset: "halt"}})
	require.ErrorIs(t, err, ErrInvalid)

	// A port alone selects the serial driver.
	cfg := &Config{Actuator: Actuator{Port: "/dev/ttyACM0"}}
	require.NoError(t, Validate(cfg))
	require.Equal(t, DriverSerial, cfg.Actuator.Driver)
	require.Equal(t, DefaultBaud, cfg.Actuator.Baud)
}

// TestStrictChimeType checks the flag defaults to strict.
func TestStrictChimeType(t *testing.T) {
	t.Parallel()

	permissive := false
	cfg := &Config{Chime: Chime{StrictType: &permissive}}
	require.False(t, cfg.StrictChimeType())

	strict := true
	cfg.Chime.StrictType = &strict
	require.True(t, cfg.StrictChimeType())
}

// TestSaveLoadRoundtrip ensures settings survive a save and load.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "singingbell.yaml")

	cfg := Default()
	cfg.CalibAngle = 120
	cfg.Network.Address = "192.168.1.50"
	cfg.Network.Gateway = "192.168.1.1"
	cfg.WiFi = Credentials{SSID: "home", Password: "secret"}

	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "secret")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 120, loaded.CalibAngle)
	require.Equal(t, "192.168.1.1", loaded.Network.Gateway)
	require.Equal(t, cfg.Watchdog, loaded.Watchdog)
}

// TestLoadReadsCredentials checks credentials come from the environment.
func TestLoadReadsCredentials(t *testing.T) {
	t.Setenv(EnvWiFiSSID, "bowl-net")
	t.Setenv(EnvWiFiPassword, "hunter2")

	path := filepath.Join(t.TempDir(), "singingbell.yaml")
	require.NoError(t, os.WriteFile(path, []byte("calib_angle: 100\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 100, cfg.CalibAngle)
	require.Equal(t, Credentials{SSID: "bowl-net", Password: "hunter2"}, cfg.WiFi)
}

// TestLoadOrDefault falls back to defaults only for a missing file.
func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := LoadOrDefault(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultCalibAngle, cfg.CalibAngle)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("calib_angle: [\n"), 0o600))
	_, err = LoadOrDefault(bad)
	require.Error(t, err)
}
