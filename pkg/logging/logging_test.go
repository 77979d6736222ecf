// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.TextFormatter{})
	})

	for _, tt := range []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{" WARN ", logrus.WarnLevel},
		{"", logrus.InfoLevel},
		{"chatty", logrus.InfoLevel},
	} {
		t.Run(tt.in, func(t *testing.T) {
			var b bytes.Buffer
			assert.Equal(t, tt.want, Init(tt.in, false, &b))
			assert.Equal(t, tt.want, logrus.GetLevel())
		})
	}

	var b bytes.Buffer
	Init("info", true, &b)
	logrus.WithField("module", "wifi").Info("Scan finished")
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b.Bytes(), &m))
	assert.Equal(t, "wifi", m["module"])
	assert.Equal(t, "Scan finished", m["msg"])
}
