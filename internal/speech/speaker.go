package speech

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// TestPhrase is spoken by the test voice action.
const TestPhrase = "GhostSay is working!"

// Result is the outcome of a single speech invocation.
type Result struct {
	Succeeded bool
}

// Speaker speaks a piece of already sanitized text.
type Speaker interface {
	Speak(ctx context.Context, text string) Result
}

// SpeakerFunc adapts a plain function to the Speaker interface.
type SpeakerFunc func(ctx context.Context, text string) Result

// Speak calls f(ctx, text).
func (f SpeakerFunc) Speak(ctx context.Context, text string) Result {
	return f(ctx, text)
}

// CommandSpeaker runs an external speech executable with the text as its
// only argument. The executable is started directly, never through a shell.
type CommandSpeaker struct {
	// Binary is the path (or PATH name) of the speech executable.
	Binary string

	logger *log.Logger
}

// NewCommandSpeaker creates a speaker for binary. A nil logger uses the
// default logger.
func NewCommandSpeaker(binary string, logger *log.Logger) *CommandSpeaker {
	if binary == "" {
		binary = DefaultBinary()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CommandSpeaker{
		Binary: binary,
		logger: logger.WithPrefix("speech"),
	}
}

// Speak blocks until the executable exits and reports whether it exited
// with status 0. Spawn failures are reported the same way as a non-zero
// exit. ctx is not attached to the process: speech already in flight keeps
// running when the server shuts down, and no timeout is applied.
func (s *CommandSpeaker) Speak(_ context.Context, text string) Result {
	start := time.Now()

	cmd := exec.Command(s.Binary, text) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		fields := []any{
			"binary", s.Binary,
			"duration", time.Since(start),
			"error", err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fields = append(fields, "exitCode", exitErr.ExitCode())
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			fields = append(fields, "stderr", msg)
		}
		s.logger.Error("Failed to execute speech command", fields...)
		return Result{Succeeded: false}
	}

	s.logger.Debug("Speech command finished",
		"binary", s.Binary,
		"textLength", len(text),
		"duration", time.Since(start))
	return Result{Succeeded: true}
}
