package server

import (
	"errors"
	"fmt"
)

var (
	// ErrPortOutOfRange indicates a port outside the accepted range.
	ErrPortOutOfRange = errors.New("port must be between 1024-65535")

	// ErrInvalidPort indicates a port that is not a number.
	ErrInvalidPort = errors.New("invalid port number")

	// ErrInvalidHost indicates a bind host that is not an IP literal.
	ErrInvalidHost = errors.New("host must be an IP address")

	// ErrServerRunning indicates a config change while the server is up.
	ErrServerRunning = errors.New("server must be stopped before changing its configuration")

	// ErrPortInUse matches bind errors caused by an occupied port.
	ErrPortInUse = errors.New("address already in use")
)

// BindErrorKind separates failures the operator can fix by picking another
// port from everything else.
type BindErrorKind int

const (
	// BindOther covers permission, address and other bind failures.
	BindOther BindErrorKind = iota
	// BindPortInUse means another process already listens on the port.
	BindPortInUse
)

// String returns the string representation of the kind.
func (k BindErrorKind) String() string {
	switch k {
	case BindPortInUse:
		return "PORT_IN_USE"
	default:
		return "OTHER"
	}
}

// BindError is returned by Manager.Start when the listener cannot be bound.
type BindError struct {
	Kind BindErrorKind
	Addr string
	Port int
	Err  error
}

func newBindError(cfg Config, err error) *BindError {
	kind := BindOther
	if isAddrInUse(err) {
		kind = BindPortInUse
	}
	return &BindError{Kind: kind, Addr: cfg.Addr(), Port: cfg.Port, Err: err}
}

// Error implements the error interface.
func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %s: %v", e.Addr, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *BindError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrPortInUse) match port conflicts.
func (e *BindError) Is(target error) bool {
	return target == ErrPortInUse && e.Kind == BindPortInUse
}

// Message is the text shown to the operator.
func (e *BindError) Message() string {
	if e.Kind == BindPortInUse {
		return fmt.Sprintf("Port %d is already in use. Try a different port in settings.", e.Port)
	}
	return fmt.Sprintf("Failed to start server: %v", e.Err)
}

// OperatorMessage renders err for display, preferring BindError.Message.
func OperatorMessage(err error) string {
	var be *BindError
	if errors.As(err, &be) {
		return be.Message()
	}
	return err.Error()
}
