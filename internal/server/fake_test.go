package server

import (
	"context"
	"sync"

	"github.com/dgnsrekt/ghostsay/internal/speech"
)

// countingSpeaker records every invocation and returns a fixed result.
type countingSpeaker struct {
	mu      sync.Mutex
	result  bool
	calls   int
	spoken  []string
	release chan struct{}
}

func newCountingSpeaker(result bool) *countingSpeaker {
	return &countingSpeaker{result: result}
}

func (s *countingSpeaker) Speak(_ context.Context, text string) speech.Result {
	s.mu.Lock()
	s.calls++
	s.spoken = append(s.spoken, text)
	release := s.release
	s.mu.Unlock()

	if release != nil {
		<-release
	}
	return speech.Result{Succeeded: s.result}
}

func (s *countingSpeaker) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *countingSpeaker) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}
