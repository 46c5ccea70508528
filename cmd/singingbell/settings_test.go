package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/urmzd/singingbell/pkg/config"
)

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "singingbell.yaml")

	opts = options{configPath: path, dbPath: filepath.Join(dir, "bell.db")}
	t.Cleanup(func() { opts = options{} })

	cmd := configCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultCalibAngle, cfg.CalibAngle)
	require.Equal(t, filepath.Join(dir, "bell.db"), cfg.Database)

	cmd = configCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"init"})
	require.Error(t, cmd.Execute())

	cmd = configCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"init", "--force"})
	require.NoError(t, cmd.Execute())
}
