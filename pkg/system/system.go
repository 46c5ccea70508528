// Package system resets the device after an unrecoverable fault.
package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Reset modes
const (
	ModeExit   = "exit"
	ModeReboot = "reboot"
)

// FatalPause is how long a fault stays visible in the log before the reset.
const FatalPause = 3 * time.Second

var (
	// ErrUnsupportedOS indicates the current OS has no known reboot command
	ErrUnsupportedOS = errors.New("unsupported operating system")

	// ErrUnknownMode indicates a reset mode other than exit or reboot
	ErrUnknownMode = errors.New("unknown reset mode")
)

// Resetter restarts the device.
type Resetter interface {
	Reset(ctx context.Context) error
}

// ExitResetter ends the process with a non-zero code so the supervisor restarts it.
type ExitResetter struct {
	Code int
	exit func(int)
}

// Reset does not return unless the exit function is replaced.
func (r ExitResetter) Reset(context.Context) error {
	exit := r.exit
	if exit == nil {
		exit = os.Exit
	}
	code := r.Code
	if code == 0 {
		code = 1
	}
	exit(code)
	return nil
}

// RebootResetter asks the OS to reboot.
type RebootResetter struct{}

// Reset starts the OS reboot command; the OS takes over the rest.
func (RebootResetter) Reset(ctx context.Context) error {
	osName := strings.ToLower(runtime.GOOS)

	switch {
	case strings.Contains(osName, "linux"):
		return exec.CommandContext(ctx, "reboot").Start()
	case strings.Contains(osName, "darwin"):
		return exec.CommandContext(ctx, "shutdown", "-r", "now").Start()
	case strings.Contains(osName, "windows"):
		return exec.CommandContext(ctx, "shutdown.exe", "-r", "-f", "-t", "0").Start()
	default:
		return fmt.Errorf("reboot on %s: %w", runtime.GOOS, ErrUnsupportedOS)
	}
}

// NewResetter returns the resetter for a configured mode.
func NewResetter(mode string) (Resetter, error) {
	switch mode {
	case ModeExit, "":
		return ExitResetter{Code: 1}, nil
	case ModeReboot:
		return RebootResetter{}, nil
	default:
		return nil, fmt.Errorf("%q: %w", mode, ErrUnknownMode)
	}
}

// Fatal logs cause, pauses and resets. A failing resetter falls back to exiting.
func Fatal(ctx context.Context, r Resetter, cause error) {
	log.Error().Err(cause).Dur("pause", FatalPause).Msg("Unrecoverable fault, resetting device")
	time.Sleep(FatalPause)

	if err := r.Reset(context.WithoutCancel(ctx)); err != nil {
		log.Error().Err(err).Msg("Reset failed, exiting instead")
		_ = ExitResetter{Code: 1}.Reset(ctx)
	}
}
