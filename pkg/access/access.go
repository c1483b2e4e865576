// Package access restricts the panel to trusted client addresses.
//
// The panel exposes code generation and database tooling, so by default
// only loopback clients are admitted. The client address is taken from the
// connection (RemoteAddr) only; forwarding headers are ignored because any
// client can set them.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/dmitrymomot/webtools/pkg/events"
	"github.com/dmitrymomot/webtools/pkg/logger"
)

var (
	// ErrAccessDenied is returned for clients outside the policy.
	ErrAccessDenied = errors.New("access: denied")

	// ErrInvalidEntry is returned by ParsePolicy for malformed entries.
	ErrInvalidEntry = errors.New("access: invalid address or network")
)

// DefaultAllowed lists the networks admitted when nothing is configured.
var DefaultAllowed = []string{"127.0.0.0/8", "::1/128"}

// Policy is an allow list of networks.
type Policy struct {
	prefixes []netip.Prefix
}

// ParsePolicy builds a Policy from addresses and CIDR networks. An empty
// list yields DefaultAllowed.
func ParsePolicy(entries ...string) (*Policy, error) {
	if len(entries) == 0 {
		entries = DefaultAllowed
	}

	p := &Policy{prefixes: make([]netip.Prefix, 0, len(entries))}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			pfx, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %w", ErrInvalidEntry, e, err)
			}
			p.prefixes = append(p.prefixes, pfx.Masked())
			continue
		}
		addr, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidEntry, e, err)
		}
		addr = addr.Unmap()
		p.prefixes = append(p.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return p, nil
}

// Allows reports whether addr belongs to an allowed network.
func (p *Policy) Allows(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, pfx := range p.prefixes {
		if pfx.Contains(addr) {
			return true
		}
	}
	return false
}

// Entries returns the allowed networks in CIDR form.
func (p *Policy) Entries() []string {
	out := make([]string, len(p.prefixes))
	for i, pfx := range p.prefixes {
		out[i] = pfx.String()
	}
	return out
}

// ClientAddr extracts the peer address of r.
func ClientAddr(r *http.Request) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	// Zones (fe80::1%eth0) are irrelevant to the allow list.
	host, _, _ = strings.Cut(host, "%")
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr, true
}

// Manager enforces a Policy on requests.
type Manager struct {
	policy *Policy
	log    *slog.Logger
}

// NewManager creates a Manager. A nil log discards denials.
func NewManager(p *Policy, log *slog.Logger) *Manager {
	if log == nil {
		log = logger.NewNope()
	}
	return &Manager{policy: p, log: log}
}

// Policy returns the enforced policy.
func (m *Manager) Policy() *Policy {
	return m.policy
}

// Check returns ErrAccessDenied when the client of r is not allowed.
func (m *Manager) Check(r *http.Request) error {
	addr, ok := ClientAddr(r)
	if ok && m.policy.Allows(addr) {
		return nil
	}
	m.log.WarnContext(r.Context(), "access denied",
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("path", r.URL.Path),
	)
	return ErrAccessDenied
}

// Listener returns an event listener for dispatch:beforeDispatch. The event
// data must be the *http.Request being dispatched.
func (m *Manager) Listener() events.Listener {
	return func(_ context.Context, e *events.Event) error {
		r, ok := e.Data.(*http.Request)
		if !ok {
			return nil
		}
		if err := m.Check(r); err != nil {
			e.Stop()
			return err
		}
		return nil
	}
}

// Middleware answers 403 to clients outside the policy.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := m.Check(r); err != nil {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
