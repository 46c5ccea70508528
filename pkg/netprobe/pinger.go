// Package netprobe checks network reachability of the device.
package netprobe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// protocolICMP is the IANA protocol number for ICMP over IPv4.
const protocolICMP = 1

var (
	// ErrTimeout indicates the probe got no echo reply in time
	ErrTimeout = errors.New("ping timeout")

	// ErrInvalidAddress indicates a target that is not an IPv4 address
	ErrInvalidAddress = errors.New("invalid IPv4 address")
)

// Pinger probes a host and returns nil if it answered within timeout.
type Pinger interface {
	Ping(ctx context.Context, host string, timeout time.Duration) error
}

// ICMPPinger sends one ICMP echo request per probe.
type ICMPPinger struct {
	// Privileged uses a raw socket, which needs CAP_NET_RAW. Otherwise an unprivileged
	// datagram socket is used, which needs net.ipv4.ping_group_range on Linux.
	Privileged bool

	seq int
}

var _ Pinger = (*ICMPPinger)(nil)

// Ping sends an echo request to host and waits for the matching reply.
func (p *ICMPPinger) Ping(ctx context.Context, host string, timeout time.Duration) error {
	ip := net.ParseIP(host).To4()
	if ip == nil {
		return fmt.Errorf("%q: %w", host, ErrInvalidAddress)
	}

	network, target := "udp4", net.Addr(&net.UDPAddr{IP: ip})
	if p.Privileged {
		network, target = "ip4:icmp", &net.IPAddr{IP: ip}
	}

	conn, err := icmp.ListenPacket(network, "0.0.0.0")
	if err != nil {
		return fmt.Errorf("open icmp socket: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}

	p.seq = (p.seq + 1) & 0xffff
	id := os.Getpid() & 0xffff
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{ID: id, Seq: p.seq, Data: []byte("singingbell")},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return fmt.Errorf("marshal echo: %w", err)
	}
	if _, err := conn.WriteTo(wb, target); err != nil {
		return fmt.Errorf("send echo: %w", err)
	}

	rb := make([]byte, 1500)
	for {
		n, _, err := conn.ReadFrom(rb)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				return fmt.Errorf("%s: %w", host, ErrTimeout)
			}
			return fmt.Errorf("read reply: %w", err)
		}

		reply, err := icmp.ParseMessage(protocolICMP, rb[:n])
		if err != nil {
			continue
		}
		if reply.Type != ipv4.ICMPTypeEchoReply {
			continue
		}
		// Unprivileged sockets rewrite the echo ID, so only the sequence is matched.
		if echo, ok := reply.Body.(*icmp.Echo); ok && echo.Seq == p.seq {
			return nil
		}
	}
}
