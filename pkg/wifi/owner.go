// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultPIDFile is the well-known file of whoever is managing the link.
const DefaultPIDFile = "/var/run/wlan-connect.pid"

// Owner keeps one connection attempt at a time on the system. It is a
// convention between cooperating processes, not a lock anybody must honor:
// whoever holds the flock on the PID file is asked to terminate, then the
// file is taken over and flocked for as long as the attempt runs. A PID
// recorded in an unlocked file is stale and never signalled.
type Owner struct {
	PIDFile string
	// Grace is the pause after signalling a previous owner. Default 1s.
	Grace time.Duration

	// kill and pid are replaced in tests.
	kill func(pid int, sig unix.Signal) error
	pid  func() int

	f *os.File
}

// Claim terminates the process holding the PID file, records our PID and
// takes an advisory lock. It returns the PID that was signalled, or 0.
func (o *Owner) Claim() (int, error) {
	f, err := os.OpenFile(o.PIDFile, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return 0, err
	}
	signalled, err := o.lock(f)
	if err != nil {
		f.Close()
		return signalled, err
	}
	if err := f.Truncate(0); err != nil {
		f.Close()
		return signalled, err
	}
	if _, err := f.WriteAt([]byte(strconv.Itoa(o.self())+"\n"), 0); err != nil {
		f.Close()
		return signalled, err
	}
	o.f = f
	return signalled, nil
}

// lock takes the flock on f, asking a live holder to go away first.
func (o *Owner) lock(f *os.File) (int, error) {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err == nil {
		return 0, nil
	}
	if !errors.Is(err, unix.EWOULDBLOCK) {
		return 0, fmt.Errorf("locking %s: %w", o.PIDFile, err)
	}

	signalled := 0
	if prev := o.previous(); prev > 0 && prev != o.self() {
		switch err := o.signal(prev, unix.SIGTERM); {
		case err == nil:
			signalled = prev
			log.WithField("pid", prev).Info("Cancelled a running connection attempt to take over")
		case errors.Is(err, unix.ESRCH):
		default:
			return 0, fmt.Errorf("terminating previous owner %d: %w", prev, err)
		}
	}
	grace := o.Grace
	if grace == 0 {
		grace = time.Second
	}
	time.Sleep(grace)

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		// Somebody ignored the signal. Carry on as the convention says.
		log.WithError(err).Warn("PID file is still locked by another process")
	}
	return signalled, nil
}

// Release drops the lock and removes the PID file if it is still ours.
func (o *Owner) Release() error {
	if o.f == nil {
		return nil
	}
	defer func() { o.f = nil }()
	if o.previous() == o.self() {
		os.Remove(o.PIDFile)
	}
	unix.Flock(int(o.f.Fd()), unix.LOCK_UN)
	return o.f.Close()
}

func (o *Owner) previous() int {
	b, err := os.ReadFile(o.PIDFile)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0
	}
	return pid
}

func (o *Owner) self() int {
	if o.pid != nil {
		return o.pid()
	}
	return os.Getpid()
}

func (o *Owner) signal(pid int, sig unix.Signal) error {
	if o.kill != nil {
		return o.kill(pid, sig)
	}
	return unix.Kill(pid, sig)
}
