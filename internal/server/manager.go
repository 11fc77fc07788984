package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/ghostsay/internal/speech"
)

const (
	defaultDrainTimeout      = 2 * time.Second
	defaultReadHeaderTimeout = 10 * time.Second
)

// Observer receives a snapshot after every state transition. It is called
// with the manager lock held and must not call back into the Manager.
type Observer func(Status)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used by the manager and its handler.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithObserver registers the single status observer.
func WithObserver(fn Observer) Option {
	return func(m *Manager) {
		m.observer = fn
	}
}

// WithDrainTimeout bounds Stop when its context carries no deadline.
func WithDrainTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.drainTimeout = d
		}
	}
}

// Manager owns the listener and is the sole writer of its State.
type Manager struct {
	// mu serializes Start, Stop and config changes and guards every field below.
	mu sync.Mutex

	cfg       Config
	state     State
	lastErr   error
	srv       *http.Server
	ln        net.Listener
	addr      string
	startedAt time.Time

	speaker      speech.Speaker
	logger       *log.Logger
	observer     Observer
	drainTimeout time.Duration
}

// NewManager creates a stopped manager for cfg. cfg is validated on Start.
func NewManager(cfg Config, speaker speech.Speaker, opts ...Option) *Manager {
	m := &Manager{
		cfg:          cfg,
		state:        StateStopped,
		speaker:      speaker,
		logger:       log.Default(),
		drainTimeout: defaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.WithPrefix("server")
	return m
}

// Start binds the configured address and begins serving. It is a no-op when
// the server is already running. On failure the state becomes StateFailed,
// no listener is left behind, and the returned error is a *BindError unless
// the configuration itself was invalid.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateRunning {
		return nil
	}

	m.lastErr = nil
	m.transition(StateStarting)

	if err := m.cfg.Validate(); err != nil {
		m.fail(err)
		return err
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", m.cfg.Addr())
	if err != nil {
		be := newBindError(m.cfg, err)
		m.fail(be)
		return be
	}

	srv := &http.Server{
		Handler:           NewHandler(m.speaker, m.logger),
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}
	go m.serve(srv, ln)

	m.srv = srv
	m.ln = ln
	m.addr = ln.Addr().String()
	m.startedAt = time.Now()
	m.transition(StateRunning)

	m.logger.Info("Server running", "addr", m.addr, "endpoint", m.cfg.Endpoint())
	return nil
}

func (m *Manager) serve(srv *http.Server, ln net.Listener) {
	err := srv.Serve(ln)
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.srv != srv {
		return
	}
	m.logger.Error("Server stopped unexpectedly", "error", err)
	_ = srv.Close()
	_ = ln.Close()
	m.clearListener()
	m.transition(StateStopped)
}

// Stop closes the listener and releases the port. In-flight requests get
// until ctx is done (or the drain timeout, when ctx has no deadline) to
// finish; their speech subprocesses are never killed. Stop on a stopped
// server is a no-op; on a failed server it clears the error.
func (m *Manager) Stop(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateStopped:
		return
	case StateFailed:
		m.lastErr = nil
		m.transition(StateStopped)
		return
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.drainTimeout)
		defer cancel()
	}

	uptime := time.Since(m.startedAt)
	if err := m.srv.Shutdown(ctx); err != nil {
		m.logger.Warn("Graceful shutdown incomplete, closing connections", "error", err)
		_ = m.srv.Close()
	}
	// Serve may not have taken ownership of the listener yet.
	_ = m.ln.Close()

	m.clearListener()
	m.lastErr = nil
	m.transition(StateStopped)
	m.logger.Info("Server stopped", "uptime", uptime.Round(time.Second))
}

// Restart applies cfg with a stop/start cycle. An invalid cfg is rejected
// before the running server is touched.
func (m *Manager) Restart(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.Stop(ctx)
	if err := m.SetConfig(cfg); err != nil {
		return err
	}
	return m.Start(ctx)
}

// SetConfig replaces the configuration. It fails while the server is running.
func (m *Manager) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateRunning || m.state == StateStarting {
		return fmt.Errorf("%w (state %s)", ErrServerRunning, m.state)
	}
	m.cfg = cfg
	return nil
}

// Config returns the current configuration.
func (m *Manager) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastError returns the error that put the server in StateFailed, if any.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Addr returns the bound listener address, or "" when not running.
func (m *Manager) Addr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addr
}

// StartedAt returns when the current listener was bound, or the zero time.
func (m *Manager) StartedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startedAt
}

// Endpoint returns the example URL for the configured address.
func (m *Manager) Endpoint() string {
	return m.Config().Endpoint()
}

// Status returns a snapshot for presentation.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status()
}

func (m *Manager) status() Status {
	return Status{
		State:     m.state,
		Config:    m.cfg,
		Addr:      m.addr,
		StartedAt: m.startedAt,
		Err:       m.lastErr,
	}
}

func (m *Manager) fail(err error) {
	m.lastErr = err
	m.transition(StateFailed)
	m.logger.Error("Failed to start server", "addr", m.cfg.Addr(), "error", err)
}

func (m *Manager) clearListener() {
	m.srv = nil
	m.ln = nil
	m.addr = ""
	m.startedAt = time.Time{}
}

// transition must be called with mu held.
func (m *Manager) transition(to State) {
	if !canTransition(m.state, to) {
		m.logger.Warn("Unexpected state transition", "from", m.state, "to", to)
	}
	m.logger.Debug("State transition", "from", m.state, "to", to)
	m.state = to
	if m.observer != nil {
		m.observer(m.status())
	}
}
