// Package upstreamtest provides scripted upstream sessions for handler and
// integration tests.
package upstreamtest

import (
	"context"
	"sync"
	"time"

	"mercator-hq/callisto/pkg/upstream"
)

// ScriptedSession plays back a fixed sequence of deltas and a terminal
// signal. The zero value completes immediately with no content.
type ScriptedSession struct {
	// Deltas are emitted in order after SendPrompt.
	Deltas []string

	// Err is the terminal signal. Nil means success.
	Err error

	// SendErr, if set, is returned by SendPrompt and nothing is emitted.
	SendErr error

	// Hang suppresses the terminal signal so callers exercise the timeout
	// path. Deltas are still emitted.
	Hang bool

	// ChunkDelay spaces the emitted deltas apart.
	ChunkDelay time.Duration

	mu       sync.Mutex
	subs     map[int]func(string)
	nextSub  int
	prompt   string
	released bool

	done     chan error
	doneOnce sync.Once
}

// NewScriptedSession creates a session that emits the given deltas and then
// completes successfully.
func NewScriptedSession(deltas ...string) *ScriptedSession {
	return &ScriptedSession{Deltas: deltas}
}

// SendPrompt implements upstream.Session.
func (s *ScriptedSession) SendPrompt(ctx context.Context, prompt string) error {
	s.mu.Lock()
	s.prompt = prompt
	s.mu.Unlock()

	if s.SendErr != nil {
		return s.SendErr
	}

	go func() {
		for _, delta := range s.Deltas {
			if s.ChunkDelay > 0 {
				time.Sleep(s.ChunkDelay)
			}
			s.emit(delta)
		}
		if !s.Hang {
			s.finish(s.Err)
		}
	}()
	return nil
}

// Subscribe implements upstream.Session.
func (s *ScriptedSession) Subscribe(cb func(delta string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]func(string))
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = cb

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Done implements upstream.Session.
func (s *ScriptedSession) Done() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		s.done = make(chan error, 1)
	}
	return s.done
}

// Close implements upstream.Session.
func (s *ScriptedSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
	return nil
}

// Released reports whether Close has been called.
func (s *ScriptedSession) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// Prompt returns the prompt passed to SendPrompt.
func (s *ScriptedSession) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt
}

func (s *ScriptedSession) emit(delta string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cb := range s.subs {
		cb(delta)
	}
}

func (s *ScriptedSession) finish(err error) {
	s.mu.Lock()
	if s.done == nil {
		s.done = make(chan error, 1)
	}
	done := s.done
	s.mu.Unlock()

	s.doneOnce.Do(func() {
		done <- err
	})
}

// ScriptedFactory hands out a fixed session and records the configuration
// each request resolved to.
type ScriptedFactory struct {
	// Session is returned by every NewSession call.
	Session *ScriptedSession

	// Err, if set, is returned instead of a session.
	Err error

	mu         sync.Mutex
	lastConfig upstream.SessionConfig
	calls      int
}

// NewSession implements upstream.Factory.
func (f *ScriptedFactory) NewSession(_ context.Context, cfg upstream.SessionConfig) (upstream.Session, error) {
	f.mu.Lock()
	f.lastConfig = cfg
	f.calls++
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	return f.Session, nil
}

// LastConfig returns the configuration of the most recent NewSession call.
func (f *ScriptedFactory) LastConfig() upstream.SessionConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastConfig
}

// Calls returns how many sessions were requested.
func (f *ScriptedFactory) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
