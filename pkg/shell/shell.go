// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shell runs the external tools the wireless code depends on
// (iwlist, iwconfig, wpa_supplicant, wpa_cli, ...).
package shell

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "shell")

// Result is the captured outcome of a blocking command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err is set when the command could not be started or waited for.
	// A non-zero exit status alone is not an error.
	Err error
}

// OK reports whether the command ran and exited 0.
func (r Result) OK() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Session is an interactive subordinate process. Its standard input stays
// open until Close so commands can be sent while output is read.
type Session interface {
	// Lines delivers stdout one line at a time, without the newline.
	// It is closed when the process closes its output.
	Lines() <-chan string
	// Send writes s to the process's standard input.
	Send(s string) error
	// Wait blocks until the process exits and returns its exit status.
	Wait() (int, error)
	// Close releases the input pipe.
	Close() error
}

// Runner is the command execution primitive.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) Result
	Start(ctx context.Context, name string, args ...string) error
	Spawn(ctx context.Context, name string, args ...string) (Session, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
}

// CommandLine renders name and args the way they are logged.
func CommandLine(name string, args ...string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

// writeFile is shared by Exec and tests that want real files.
func writeFile(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
