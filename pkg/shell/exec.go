// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/sirupsen/logrus"
)

// Exec runs commands with os/exec. Stdout and Stderr, when set, receive a
// copy of everything the blocking commands print.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer
}

var _ = Runner(&Exec{})

// Run executes a command to completion.
func (e *Exec) Run(ctx context.Context, name string, args ...string) Result {
	// Need a local copy of exec's output to hand back to the caller.
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout, cmd.Stderr = tee(&stdout, e.Stdout), tee(&stderr, e.Stderr)

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
		res.Err = err
	}
	log.WithFields(logrus.Fields{
		"cmd": CommandLine(name, args...),
		"rc":  res.ExitCode,
	}).Debug("command finished")
	return res
}

// Start launches a command and does not wait for it. The process is reaped
// in the background.
func (e *Exec) Start(ctx context.Context, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	cmd.Stdout, cmd.Stderr = e.Stdout, e.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	log.WithField("cmd", CommandLine(name, args...)).Debug("command started in background")
	go cmd.Wait()
	return nil
}

// Spawn starts an interactive process with its input and output pipes held open.
func (e *Exec) Spawn(ctx context.Context, name string, args ...string) (Session, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = e.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	s := &execSession{
		cmd:      cmd,
		stdin:    stdin,
		lines:    make(chan string),
		stop:     make(chan struct{}),
		readDone: make(chan struct{}),
	}
	go s.read(stdout)
	log.WithField("cmd", CommandLine(name, args...)).Debug("session started")
	return s, nil
}

// WriteFile writes data to path, truncating it.
func (e *Exec) WriteFile(path string, data []byte, perm os.FileMode) error {
	return writeFile(path, data, perm)
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

type execSession struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	lines chan string

	// stop is closed by Close so the reader can drain without a consumer.
	stop      chan struct{}
	stopOnce  sync.Once
	readDone  chan struct{}
	waitOnce  sync.Once
	exitCode  int
	waitError error
}

func (s *execSession) read(r io.Reader) {
	defer close(s.readDone)
	defer close(s.lines)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		select {
		case s.lines <- sc.Text():
		case <-s.stop:
			// Nobody is listening anymore; keep draining so the
			// process never blocks on a full pipe.
		}
	}
}

func (s *execSession) Lines() <-chan string {
	return s.lines
}

func (s *execSession) Send(str string) error {
	_, err := io.WriteString(s.stdin, str)
	return err
}

func (s *execSession) Wait() (int, error) {
	s.waitOnce.Do(func() {
		<-s.readDone
		err := s.cmd.Wait()
		var exitErr *exec.ExitError
		switch {
		case err == nil:
		case errors.As(err, &exitErr):
			s.exitCode = exitErr.ExitCode()
		default:
			s.exitCode = -1
			s.waitError = err
		}
	})
	return s.exitCode, s.waitError
}

func (s *execSession) Close() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stop)
		err = s.stdin.Close()
	})
	return err
}
