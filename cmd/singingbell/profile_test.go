package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/urmzd/singingbell/pkg/db"
)

func TestProfileSet(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "bell.db")

	opts = options{configPath: filepath.Join(dir, "missing.yaml"), dbPath: dbPath}
	t.Cleanup(func() { opts = options{} })

	cmd := profileCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"set", "--calib-angle", "120", "--listen", "127.0.0.1:9090"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	database, err := db.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	cfg, err := database.ActiveConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, 120, cfg.CalibAngle())
	require.Equal(t, "127.0.0.1:9090", cfg.APIAddress())

	out.Reset()
	cmd = profileCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	require.Contains(t, out.String(), "calib angle: 120 (ready 110, mid 115, chime 130)")
}

func TestProfileSet_RejectsBadAngle(t *testing.T) {
	dir := t.TempDir()
	opts = options{configPath: filepath.Join(dir, "missing.yaml"), dbPath: filepath.Join(dir, "bell.db")}
	t.Cleanup(func() { opts = options{} })

	cmd := profileCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"set", "--calib-angle", "175"})
	require.Error(t, cmd.ExecuteContext(context.Background()))
}
