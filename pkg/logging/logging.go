// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging configures the global logrus logger every package's
// module entry hangs off.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init sets the level, formatter and output of the standard logger. An
// unknown level falls back to info. A nil out keeps the current output.
func Init(level string, json bool, out io.Writer) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
		logrus.WithError(err).Warn("Failed to parse log level, defaulting to info")
	}
	logrus.SetLevel(lvl)
	if out != nil {
		logrus.SetOutput(out)
	}
	if json {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.WithField("log_level", lvl.String()).Debug("Logger initialized")
	return lvl
}
