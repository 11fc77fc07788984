package server

import (
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPort is used when no port has been configured.
	DefaultPort = 57630
	// DefaultHost is used when no bind address has been configured.
	DefaultHost = "127.0.0.1"

	// MinPort and MaxPort bound the accepted, non-privileged port range.
	MinPort = 1024
	MaxPort = 65535
)

// Config is the bind address of the server.
type Config struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// DefaultConfig returns the loopback-only default configuration.
func DefaultConfig() Config {
	return Config{Host: DefaultHost, Port: DefaultPort}
}

// Validate checks that Host is an IP literal and Port is in range.
func (c Config) Validate() error {
	if err := ValidatePort(c.Port); err != nil {
		return err
	}
	return ValidateHost(c.Host)
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Endpoint returns a ready-to-use example URL for the speech route.
func (c Config) Endpoint() string {
	u := url.URL{
		Scheme:   "http",
		Host:     c.Addr(),
		Path:     SayPath,
		RawQuery: url.Values{"text": {"Hello"}}.Encode(),
	}
	return u.String()
}

// ValidatePort rejects ports outside [MinPort, MaxPort].
func ValidatePort(port int) error {
	if port < MinPort || port > MaxPort {
		return fmt.Errorf("%w, got %d", ErrPortOutOfRange, port)
	}
	return nil
}

// ParsePort parses and validates a port typed by an operator.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPort, s)
	}
	if err := ValidatePort(port); err != nil {
		return 0, err
	}
	return port, nil
}

// ValidateHost requires an IP literal; host names are not accepted.
func ValidateHost(host string) error {
	if _, err := netip.ParseAddr(host); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}
	return nil
}
