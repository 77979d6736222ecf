// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import "github.com/sirupsen/logrus"

// Module-level logger. Scanner and Connector can be handed their own.
var log = logrus.WithField("module", "wifi")

func orDefault(l *logrus.Entry) *logrus.Entry {
	if l == nil {
		return log
	}
	return l
}
