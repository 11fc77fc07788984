// Package netif lists the IPv4 addresses a listener could bind to and ranks
// them so that the safest choice comes first.
package netif

import (
	"cmp"
	"fmt"
	"net"
	"net/netip"
	"slices"
	"strings"
)

// LoopbackIP is always offered as the first bind address.
const LoopbackIP = "127.0.0.1"

// Class is the kind of network an interface belongs to.
type Class int

const (
	ClassLoopback Class = iota
	ClassEthernet
	ClassWiFi
	ClassBridge
	ClassVirtual
	ClassDocker
	ClassTunnel
	ClassOther
)

// String returns the display name of the class.
func (c Class) String() string {
	switch c {
	case ClassLoopback:
		return "Loopback"
	case ClassEthernet:
		return "Ethernet"
	case ClassWiFi:
		return "WiFi"
	case ClassBridge:
		return "Bridge"
	case ClassVirtual:
		return "Virtual"
	case ClassDocker:
		return "Docker"
	case ClassTunnel:
		return "Tunnel"
	default:
		return "Other"
	}
}

// classPrefixes is checked in order; the first matching prefix wins.
var classPrefixes = []struct {
	prefixes []string
	class    Class
}{
	{[]string{"tailscale", "utun"}, ClassTunnel},
	{[]string{"en"}, ClassEthernet},
	{[]string{"wi"}, ClassWiFi},
	{[]string{"bridge"}, ClassBridge},
	{[]string{"vbox", "vmnet"}, ClassVirtual},
	{[]string{"docker"}, ClassDocker},
}

// Classify derives the class of an interface from its name.
func Classify(name string) Class {
	lower := strings.ToLower(name)
	for _, cp := range classPrefixes {
		for _, p := range cp.prefixes {
			if strings.HasPrefix(lower, p) {
				return cp.class
			}
		}
	}
	return ClassOther
}

// privatePrefixes are never reachable from the public internet. 100.64/10 is
// the CGNAT range used by mesh VPN overlays.
var privatePrefixes = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("100.64.0.0/10"),
}

// IsPublic reports whether addr lies outside every private range.
func IsPublic(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range privatePrefixes {
		if p.Contains(addr) {
			return false
		}
	}
	return true
}

// Descriptor is one candidate bind address.
type Descriptor struct {
	IP            string
	InterfaceName string
	Class         Class
	IsPublic      bool
}

// Description is the human readable label used for display and ordering.
func (d Descriptor) Description() string {
	if d.Class == ClassLoopback {
		return fmt.Sprintf("Localhost (%s)", d.IP)
	}
	var b strings.Builder
	b.WriteString(d.InterfaceName)
	if d.Class != ClassOther {
		fmt.Fprintf(&b, " (%s)", d.Class)
	}
	fmt.Fprintf(&b, " - %s", d.IP)
	if d.IsPublic {
		b.WriteString(" (public)")
	}
	return b.String()
}

func (d Descriptor) rank() int {
	switch {
	case d.Class == ClassLoopback:
		return 0
	case !d.IsPublic:
		return 1
	default:
		return 2
	}
}

// Interface is the subset of an OS network interface Collect looks at.
type Interface struct {
	Name  string
	Up    bool
	Addrs []net.Addr
}

// List takes a fresh snapshot of the host's interfaces.
func List() ([]Descriptor, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return []Descriptor{loopback()}, fmt.Errorf("unable to list network interfaces: %w", err)
	}

	snapshot := make([]Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		snapshot = append(snapshot, Interface{
			Name:  iface.Name,
			Up:    iface.Flags&net.FlagUp != 0,
			Addrs: addrs,
		})
	}
	return Collect(snapshot), nil
}

// Collect builds the ordered descriptor list from an interface snapshot:
// loopback first, then private addresses, then public ones, each group
// sorted by description. Loopback and link-local addresses found on the
// interfaces are skipped, as is everything that is not IPv4.
func Collect(ifaces []Interface) []Descriptor {
	out := []Descriptor{loopback()}
	for _, iface := range ifaces {
		if !iface.Up {
			continue
		}
		for _, a := range iface.Addrs {
			addr, ok := ipv4(a)
			if !ok || addr.IsLoopback() || addr.IsLinkLocalUnicast() {
				continue
			}
			out = append(out, Descriptor{
				IP:            addr.String(),
				InterfaceName: iface.Name,
				Class:         Classify(iface.Name),
				IsPublic:      IsPublic(addr),
			})
		}
	}

	slices.SortStableFunc(out, func(a, b Descriptor) int {
		if c := cmp.Compare(a.rank(), b.rank()); c != 0 {
			return c
		}
		return strings.Compare(a.Description(), b.Description())
	})
	return out
}

// Lookup returns the descriptor for ip from a fresh snapshot.
func Lookup(ip string) (Descriptor, bool) {
	list, _ := List()
	for _, d := range list {
		if d.IP == ip {
			return d, true
		}
	}
	return Descriptor{}, false
}

func loopback() Descriptor {
	return Descriptor{
		IP:            LoopbackIP,
		InterfaceName: "localhost",
		Class:         ClassLoopback,
	}
}

func ipv4(a net.Addr) (netip.Addr, bool) {
	var ip net.IP
	switch v := a.(type) {
	case *net.IPNet:
		ip = v.IP
	case *net.IPAddr:
		ip = v.IP
	default:
		return netip.Addr{}, false
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return netip.Addr{}, false
	}
	return netip.AddrFrom4([4]byte(ip4)), true
}
