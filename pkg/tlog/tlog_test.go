// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlog

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	testing.TB
	lines []string
}

func (r *recorder) Helper() {}

func (r *recorder) Log(args ...interface{}) {
	for _, a := range args {
		r.lines = append(r.lines, a.(string))
	}
}

func TestLogger(t *testing.T) {
	r := &recorder{TB: t}
	l := Logger(r, "test")
	l.WithField("cell", "01").Debug("Parsed")

	assert.Len(t, r.lines, 1)
	assert.Contains(t, r.lines[0], "module=test")
	assert.Contains(t, r.lines[0], "cell=01")
	assert.Contains(t, r.lines[0], `msg=Parsed`)
	assert.Equal(t, logrus.DebugLevel, l.Logger.GetLevel())
}
