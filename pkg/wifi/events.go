// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import "strings"

// Event is what a wpa_cli output line says about the association.
type Event int

const (
	// EventNone is any line that does not matter.
	EventNone Event = iota
	EventConnected
	EventWrongKey
	EventConnFailed
	// EventAPScan is emitted every time the supplicant scans and sees the
	// network without being able to join it.
	EventAPScan
)

// maxScans is how many EventAPScan are taken to mean the access point is out
// of range. The supplicant never times out on its own.
const maxScans = 3

// Classify reads one line of wpa_cli event output. The substrings come from
// the wpa_supplicant sources and are all this package knows about its
// protocol.
func Classify(line string) Event {
	switch {
	case strings.Contains(line, "CTRL-EVENT-CONNECTED"):
		return EventConnected
	case strings.Contains(line, "reason=WRONG_KEY"):
		return EventWrongKey
	case strings.Contains(line, "reason=CONN_FAILED"):
		return EventConnFailed
	case strings.Contains(line, "WPS-AP-AVAILABLE"):
		return EventAPScan
	}
	return EventNone
}

// sessionState folds events into a result. done is false until a terminal
// event has been seen.
type sessionState struct {
	scans int
}

func (s *sessionState) feed(e Event) (r Result, done bool) {
	switch e {
	case EventConnected:
		return Connected, true
	case EventWrongKey:
		return BadPassword, true
	case EventConnFailed:
		return APNotInRange, true
	case EventAPScan:
		s.scans++
		if s.scans == maxScans {
			return APNotInRange, true
		}
	}
	return 0, false
}
