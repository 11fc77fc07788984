package netif

import (
	"net"
	"net/netip"
	"strings"
	"testing"
)

func ipNet(s string) net.Addr {
	ip, n, err := net.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	n.IP = ip
	return n
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		expected Class
	}{
		{"tailscale0", ClassTunnel},
		{"utun3", ClassTunnel},
		{"en0", ClassEthernet},
		{"EN1", ClassEthernet},
		{"enp3s0", ClassEthernet},
		{"wlan0", ClassOther},
		{"wifi0", ClassWiFi},
		{"bridge100", ClassBridge},
		{"vboxnet0", ClassVirtual},
		{"vmnet8", ClassVirtual},
		{"docker0", ClassDocker},
		{"eth0", ClassOther},
		{"lo0", ClassOther},
		{"", ClassOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.name); got != tt.expected {
				t.Errorf("Classify(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestIsPublic(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		{"10.1.2.3", false},
		{"172.16.0.1", false},
		{"172.20.0.5", false},
		{"172.31.255.255", false},
		{"172.15.0.1", true},
		{"172.32.0.1", true},
		{"172.40.0.5", true},
		{"192.168.1.10", false},
		{"100.64.0.1", false},
		{"100.100.100.100", false},
		{"100.127.255.255", false},
		{"100.128.0.1", true},
		{"100.63.255.255", true},
		{"8.8.8.8", true},
		{"::ffff:10.0.0.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := IsPublic(netip.MustParseAddr(tt.ip)); got != tt.expected {
				t.Errorf("IsPublic(%s) = %v, want %v", tt.ip, got, tt.expected)
			}
		})
	}
}

func TestClassString(t *testing.T) {
	tests := []struct {
		class    Class
		expected string
	}{
		{ClassLoopback, "Loopback"},
		{ClassEthernet, "Ethernet"},
		{ClassWiFi, "WiFi"},
		{ClassBridge, "Bridge"},
		{ClassVirtual, "Virtual"},
		{ClassDocker, "Docker"},
		{ClassTunnel, "Tunnel"},
		{ClassOther, "Other"},
		{Class(99), "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.class.String(); got != tt.expected {
				t.Errorf("Class.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name     string
		d        Descriptor
		expected string
	}{
		{
			name:     "loopback",
			d:        loopback(),
			expected: "Localhost (127.0.0.1)",
		},
		{
			name:     "classified private",
			d:        Descriptor{IP: "192.168.1.5", InterfaceName: "en0", Class: ClassEthernet},
			expected: "en0 (Ethernet) - 192.168.1.5",
		},
		{
			name:     "unclassified",
			d:        Descriptor{IP: "10.0.0.2", InterfaceName: "eth0", Class: ClassOther},
			expected: "eth0 - 10.0.0.2",
		},
		{
			name:     "public",
			d:        Descriptor{IP: "8.8.8.8", InterfaceName: "en1", Class: ClassEthernet, IsPublic: true},
			expected: "en1 (Ethernet) - 8.8.8.8 (public)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Description(); got != tt.expected {
				t.Errorf("Description() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCollectOrdering(t *testing.T) {
	ifaces := []Interface{
		{Name: "en5", Up: true, Addrs: []net.Addr{ipNet("203.0.113.7/24")}},
		{Name: "tailscale0", Up: true, Addrs: []net.Addr{ipNet("100.101.102.103/32")}},
		{Name: "lo0", Up: true, Addrs: []net.Addr{ipNet("127.0.0.1/8"), ipNet("::1/128")}},
		{Name: "en0", Up: true, Addrs: []net.Addr{
			ipNet("192.168.1.20/24"),
			ipNet("169.254.10.1/16"),
			ipNet("fe80::1/64"),
		}},
		{Name: "docker0", Up: true, Addrs: []net.Addr{&net.IPAddr{IP: net.ParseIP("172.17.0.1")}}},
		{Name: "en9", Up: false, Addrs: []net.Addr{ipNet("10.9.9.9/8")}},
	}

	got := Collect(ifaces)
	want := []string{
		"127.0.0.1",
		"172.17.0.1",
		"192.168.1.20",
		"100.101.102.103",
		"203.0.113.7",
	}

	if len(got) != len(want) {
		t.Fatalf("Collect() returned %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i, ip := range want {
		if got[i].IP != ip {
			t.Errorf("entry %d = %s (%s), want %s", i, got[i].IP, got[i].Description(), ip)
		}
	}

	if got[0].Class != ClassLoopback || got[0].IsPublic {
		t.Errorf("first entry = %+v, want private loopback", got[0])
	}
	if !got[len(got)-1].IsPublic {
		t.Errorf("last entry = %+v, want public address", got[len(got)-1])
	}
}

func TestCollectWithoutInterfaces(t *testing.T) {
	got := Collect(nil)
	if len(got) != 1 || got[0].IP != LoopbackIP {
		t.Fatalf("Collect(nil) = %+v, want only loopback", got)
	}
}

func TestListInvariants(t *testing.T) {
	list, err := List()
	if err != nil {
		t.Logf("List() error: %v", err)
	}
	if len(list) == 0 || list[0].IP != LoopbackIP {
		t.Fatalf("List() first entry = %+v, want %s", list, LoopbackIP)
	}

	loopbacks := 0
	for _, d := range list {
		if strings.HasPrefix(d.IP, "169.254.") {
			t.Errorf("List() returned link-local address %s", d.IP)
		}
		if strings.HasPrefix(d.IP, "127.") {
			loopbacks++
		}
		if strings.Contains(d.IP, ":") {
			t.Errorf("List() returned IPv6 address %s", d.IP)
		}
	}
	if loopbacks != 1 {
		t.Errorf("List() returned %d loopback entries, want 1", loopbacks)
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup(LoopbackIP)
	if !ok {
		t.Fatal("Lookup(127.0.0.1) found nothing")
	}
	if d.Class != ClassLoopback {
		t.Errorf("Lookup(127.0.0.1).Class = %v, want Loopback", d.Class)
	}

	if _, ok := Lookup("198.51.100.254"); ok {
		t.Error("Lookup() found an address that is not assigned to this host")
	}
}
