// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tlog routes logrus output into a test's log.
package tlog

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// Testing is an io.Writer feeding t.Log, one call per write.
type Testing struct {
	Test testing.TB
}

func (t Testing) Write(p []byte) (int, error) {
	t.Test.Helper()
	t.Test.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// Logger returns a debug level entry whose output shows up under t.
func Logger(t testing.TB, module string) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(Testing{Test: t})
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l.WithField("module", module)
}
