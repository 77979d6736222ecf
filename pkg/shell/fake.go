// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shell

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

var _ = Runner(&Fake{})

// Fake is a Runner that never touches the system. Commands are answered
// from canned results matched by the longest command-line prefix; files are
// kept in memory.
type Fake struct {
	// StartErr and WriteErr, when set, fail every Start and WriteFile.
	StartErr error
	WriteErr error

	mu       sync.Mutex
	calls    []string
	results  map[string][]Result
	sessions []*FakeSession
	files    map[string][]byte
}

// Respond queues results for commands beginning with prefix. Results are
// consumed in order and the last one repeats.
func (f *Fake) Respond(prefix string, results ...Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.results == nil {
		f.results = make(map[string][]Result)
	}
	f.results[prefix] = append(f.results[prefix], results...)
}

// AddSession queues a session handed out by the next Spawn.
func (f *Fake) AddSession(s *FakeSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, s)
}

// Calls returns every command line seen so far, including spawned and
// started ones.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Called reports whether any recorded command line starts with prefix.
func (f *Fake) Called(prefix string) bool {
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// File returns the contents written to path.
func (f *Fake) File(path string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.files[path]
	return b, ok
}

func (f *Fake) Run(ctx context.Context, name string, args ...string) Result {
	line := CommandLine(name, args...)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, line)

	best := ""
	found := false
	for prefix := range f.results {
		if strings.HasPrefix(line, prefix) && (!found || len(prefix) > len(best)) {
			best, found = prefix, true
		}
	}
	if !found {
		return Result{}
	}
	queue := f.results[best]
	r := queue[0]
	if len(queue) > 1 {
		f.results[best] = queue[1:]
	}
	return r
}

func (f *Fake) Start(ctx context.Context, name string, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, CommandLine(name, args...))
	return f.StartErr
}

func (f *Fake) Spawn(ctx context.Context, name string, args ...string) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, CommandLine(name, args...))
	if len(f.sessions) == 0 {
		return nil, fmt.Errorf("%s: no fake session queued", name)
	}
	s := f.sessions[0]
	f.sessions = f.sessions[1:]
	s.start()
	return s, nil
}

func (f *Fake) WriteFile(path string, data []byte, perm os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteErr != nil {
		return f.WriteErr
	}
	if f.files == nil {
		f.files = make(map[string][]byte)
	}
	f.files[path] = append([]byte(nil), data...)
	return nil
}

// FakeSession replays Output line by line and then exits with ExitCode.
// With Hold set, the output stays open after the script until Close, the
// way an interactive client waits for more events.
type FakeSession struct {
	Output   []string
	ExitCode int
	Hold     bool

	mu    sync.Mutex
	sent  []string
	lines chan string
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func (s *FakeSession) start() {
	s.lines = make(chan string)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		defer close(s.lines)
		for _, l := range s.Output {
			select {
			case s.lines <- l:
			case <-s.stop:
				return
			}
		}
		if s.Hold {
			<-s.stop
		}
	}()
}

// Sent returns everything written to the session's input.
func (s *FakeSession) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func (s *FakeSession) Lines() <-chan string {
	return s.lines
}

func (s *FakeSession) Send(str string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, str)
	return nil
}

func (s *FakeSession) Wait() (int, error) {
	<-s.done
	return s.ExitCode, nil
}

func (s *FakeSession) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}
