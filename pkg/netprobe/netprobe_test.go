package netprobe

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPing_RejectsNonIPv4(t *testing.T) {
	t.Parallel()

	p := &ICMPPinger{}
	for _, host := range []string{"", "router.local", "::1"} {
		err := p.Ping(context.Background(), host, time.Second)
		require.ErrorIs(t, err, ErrInvalidAddress, host)
	}
}

func fixedAddrs(ips ...string) func() ([]net.Addr, error) {
	return func() ([]net.Addr, error) {
		var out []net.Addr
		for _, ip := range ips {
			out = append(out, &net.IPNet{IP: net.ParseIP(ip), Mask: net.CIDRMask(24, 32)})
		}
		return out, nil
	}
}

func TestJoin_AddressBound(t *testing.T) {
	t.Parallel()

	j := &Joiner{Address: "192.168.1.50", addrs: fixedAddrs("127.0.0.1", "192.168.1.50")}
	require.NoError(t, j.Join(context.Background()))
}

func TestJoin_NetmaskChecked(t *testing.T) {
	t.Parallel()

	j := &Joiner{Address: "192.168.1.50", Netmask: "255.255.255.0", addrs: fixedAddrs("192.168.1.50")}
	require.NoError(t, j.Join(context.Background()))

	j.Netmask = "255.255.0.0"
	require.ErrorIs(t, j.Join(context.Background()), ErrNetmaskMismatch)
}

func TestJoin_AddressMissing(t *testing.T) {
	t.Parallel()

	j := &Joiner{Address: "192.168.1.50", addrs: fixedAddrs("127.0.0.1")}
	require.ErrorIs(t, j.Join(context.Background()), ErrAddressNotBound)
}

func TestJoin_NoAddressSkipsCheck(t *testing.T) {
	t.Parallel()

	j := &Joiner{addrs: func() ([]net.Addr, error) { return nil, errors.New("unreachable") }}
	require.NoError(t, j.Join(context.Background()))
}

func TestJoin_ConnectsWithCredentials(t *testing.T) {
	t.Parallel()

	var got []string
	j := &Joiner{
		SSID:     "bowl-net",
		Password: "hunter2",
		run: func(_ context.Context, name string, args ...string) error {
			got = append([]string{name}, args...)
			return nil
		},
	}

	require.NoError(t, j.Join(context.Background()))
	require.Equal(t, []string{"nmcli", "device", "wifi", "connect", "bowl-net", "password", "hunter2"}, got)
}

func TestJoin_ConnectFailure(t *testing.T) {
	t.Parallel()

	j := &Joiner{
		SSID: "bowl-net",
		run: func(context.Context, string, ...string) error {
			return errors.New("no network with SSID")
		},
	}

	err := j.Join(context.Background())
	require.ErrorContains(t, err, "bowl-net")
}
