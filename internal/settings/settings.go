// Package settings persists the operator's bind address choice in the YAML
// config file and reports changes made to that file while the server runs.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/ghostsay/internal/server"
	"github.com/fsnotify/fsnotify"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

// Config keys.
const (
	KeyHost   = "server.host"
	KeyPort   = "server.port"
	KeyBinary = "speech.binary"
)

// AppName names the config directory and file.
const AppName = "ghostsay"

// Store reads and writes the server settings through a viper instance.
type Store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// New wraps v. path is where Save writes; an empty path falls back to the
// config file v was loaded from.
func New(v *viper.Viper, path string) *Store {
	SetDefaults(v)
	if path == "" {
		path = v.ConfigFileUsed()
	}
	return &Store{v: v, path: path}
}

// Open loads the settings file at path. A missing file is not an error; the
// defaults apply until Save creates it.
func Open(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("unable to read settings %s: %w", path, err)
	}
	return New(v, path), nil
}

// SetDefaults registers the default server settings on v.
func SetDefaults(v *viper.Viper) {
	defaults := server.DefaultConfig()
	v.SetDefault(KeyHost, defaults.Host)
	v.SetDefault(KeyPort, defaults.Port)
	v.SetDefault(KeyBinary, "")
}

// Path returns the file Save writes to.
func (s *Store) Path() string {
	return s.path
}

// Port returns the configured port, or the default when the stored value is
// missing or out of range.
func (s *Store) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port()
}

func (s *Store) port() int {
	port := s.v.GetInt(KeyPort)
	if server.ValidatePort(port) != nil {
		return server.DefaultPort
	}
	return port
}

// SelectedIP returns the configured bind address, or the default when the
// stored value is not an IP literal.
func (s *Store) SelectedIP() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedIP()
}

func (s *Store) selectedIP() string {
	host := s.v.GetString(KeyHost)
	if server.ValidateHost(host) != nil {
		return server.DefaultHost
	}
	return host
}

// SpeechBinary returns the configured speech executable, "" for the
// platform default.
func (s *Store) SpeechBinary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetString(KeyBinary)
}

// ServerConfig returns the stored bind address as a server.Config.
func (s *Store) ServerConfig() server.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return server.Config{Host: s.selectedIP(), Port: s.port()}
}

// SetPort stores port after validating it.
func (s *Store) SetPort(port int) error {
	if err := server.ValidatePort(port); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(KeyPort, port)
	return nil
}

// SetSelectedIP stores the bind address after validating it.
func (s *Store) SetSelectedIP(ip string) error {
	if err := server.ValidateHost(ip); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(KeyHost, ip)
	return nil
}

// Save writes the settings to Path, creating its directory if needed.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("no settings file configured")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("unable to create settings directory: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("unable to write settings: %w", err)
	}
	log.Debug("Saved settings", "path", s.path)
	return nil
}

// Watch calls fn with the new server config every time the settings file is
// written or replaced. fn runs on the watcher goroutine.
func (s *Store) Watch(fn func(server.Config)) {
	s.v.OnConfigChange(func(e fsnotify.Event) {
		log.Debug("Settings file changed", "path", e.Name, "op", e.Op)
		fn(s.ServerConfig())
	})
	s.v.WatchConfig()
}

// ConfigDirs returns the directories searched for the config file, most
// specific first.
func ConfigDirs() ([]string, error) {
	scope := gap.NewScope(gap.User, AppName)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		return nil, fmt.Errorf("unable to find configuration directory: %w", err)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, AppName)}, dirs...)
	}
	if c := os.Getenv("GHOSTSAY_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return dirs, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
