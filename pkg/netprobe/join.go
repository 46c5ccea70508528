package netprobe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/exec"

	"github.com/rs/zerolog/log"
)

var (
	// ErrAddressNotBound indicates the static address is not assigned to any interface
	ErrAddressNotBound = errors.New("static address not bound")

	// ErrNetmaskMismatch indicates the static address is bound with another prefix length
	ErrNetmaskMismatch = errors.New("static address bound with wrong netmask")
)

// Joiner brings the device onto the network at startup.
type Joiner struct {
	Hostname string
	Address  string // expected static IPv4 address, empty skips the check
	Netmask  string // expected dotted netmask of Address, empty accepts any
	SSID     string // empty skips the WiFi connect
	Password string

	// run executes an external command, replaced in tests
	run func(ctx context.Context, name string, args ...string) error
	// addrs lists the local interface addresses, replaced in tests
	addrs func() ([]net.Addr, error)
}

// Join connects to WiFi when credentials are set and checks the static address is bound.
func (j *Joiner) Join(ctx context.Context) error {
	log.Info().Str("hostname", j.Hostname).Str("address", j.Address).Str("netmask", j.Netmask).Msg("Connecting to network")

	if j.SSID != "" {
		args := []string{"device", "wifi", "connect", j.SSID}
		if j.Password != "" {
			args = append(args, "password", j.Password)
		}
		if err := j.runner()(ctx, "nmcli", args...); err != nil {
			return fmt.Errorf("connect to %q: %w", j.SSID, err)
		}
		log.Info().Str("ssid", j.SSID).Msg("Connected to WiFi")
	}

	if j.Address == "" {
		return nil
	}

	ipnet, err := j.bound()
	if err != nil {
		return err
	}
	if ipnet == nil {
		return fmt.Errorf("%s: %w", j.Address, ErrAddressNotBound)
	}

	if j.Netmask != "" {
		want := net.IPMask(net.ParseIP(j.Netmask).To4())
		wantOnes, _ := want.Size()
		gotOnes, _ := ipnet.Mask.Size()
		if gotOnes != wantOnes {
			return fmt.Errorf("%s/%d, want /%d: %w", j.Address, gotOnes, wantOnes, ErrNetmaskMismatch)
		}
	}
	return nil
}

// bound returns the interface network holding Address, or nil if none does.
func (j *Joiner) bound() (*net.IPNet, error) {
	list := j.addrs
	if list == nil {
		list = net.InterfaceAddrs
	}

	addrs, err := list()
	if err != nil {
		return nil, fmt.Errorf("list interface addresses: %w", err)
	}

	want := net.ParseIP(j.Address)
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.Equal(want) {
			return ipnet, nil
		}
	}
	return nil, nil
}

func (j *Joiner) runner() func(ctx context.Context, name string, args ...string) error {
	if j.run != nil {
		return j.run
	}
	return func(ctx context.Context, name string, args ...string) error {
		out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
		if err != nil {
			return fmt.Errorf("%s: %w: %s", name, err, out)
		}
		return nil
	}
}
