// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Encryption is the coarse security class of a network.
type Encryption int

const (
	Off Encryption = iota
	WEP
	WPA
)

// ErrUnknownEncryption is returned by ParseEncryption.
var ErrUnknownEncryption = errors.New("unknown encryption, want off, wep or wpa")

func (e Encryption) String() string {
	switch e {
	case Off:
		return "off"
	case WEP:
		return "wep"
	case WPA:
		return "wpa"
	}
	return fmt.Sprintf("Encryption(%d)", int(e))
}

// ParseEncryption accepts "off", "wep" and "wpa" in any case.
func ParseEncryption(s string) (Encryption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "":
		return Off, nil
	case "wep":
		return WEP, nil
	case "wpa":
		return WPA, nil
	}
	return Off, fmt.Errorf("%q: %w", s, ErrUnknownEncryption)
}

// MarshalText lets Encryption appear as "off"/"wep"/"wpa" in JSON.
func (e Encryption) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Encryption) UnmarshalText(b []byte) error {
	v, err := ParseEncryption(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Cell is one access point as reported by a single iwlist scan.
type Cell struct {
	Number    string
	MAC       string
	ESSID     string
	HasESSID  bool
	Protocol  string
	Mode      string
	Channel   string
	Frequency string
	Signal    string
	Noise     string
	Quality   string
	// Encryption is the raw "Encryption key:" value, usually on or off.
	Encryption string
	IE         []string
	Extra      []string
}

// Network is the deduplicated view of a scan handed to callers.
type Network struct {
	ESSID      string     `json:"essid"`
	Channel    string     `json:"channel"`
	Signal     string     `json:"signal"`
	Quality    string     `json:"quality"`
	Encryption Encryption `json:"encryption"`
}

// ListOptions filters the output of BuildNetworks.
type ListOptions struct {
	// OpenOnly drops every encrypted network.
	OpenOnly bool
	// First keeps only the best ranked network.
	First bool
}

// Result is the outcome of a connection attempt.
type Result int

const (
	Connected Result = iota
	BadPassword
	APNotInRange
	NoDHCPLease
	IncorrectPasswordLength
	InternalError
)

func (r Result) String() string {
	switch r {
	case Connected:
		return "connected"
	case BadPassword:
		return "bad password"
	case APNotInRange:
		return "access point not in range"
	case NoDHCPLease:
		return "no dhcp lease"
	case IncorrectPasswordLength:
		return "incorrect password length"
	case InternalError:
		return "internal error"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// resultFromExit maps a control client's own exit status onto the closed
// set of results.
func resultFromExit(code int) Result {
	if code < int(Connected) || code > int(InternalError) {
		return InternalError
	}
	return Result(code)
}

// ConnectParams describes a connection attempt.
type ConnectParams struct {
	Interface  string
	ESSID      string
	Encryption Encryption
	// Secret is the passphrase or key. A leading "hex" marks the rest as
	// hexadecimal key material.
	Secret string
	// ConfigPath points to a ready-made supplicant configuration. ESSID and
	// Secret are ignored when it is set.
	ConfigPath string
	// Timeout bounds the wait for a DHCP lease, in seconds.
	Timeout int
	// Debug logs every supplicant event at info level.
	Debug bool
}

// WiFi is the caller facing surface: scan, connect, disconnect.
type WiFi interface {
	Networks(ctx context.Context, opt ListOptions) ([]Network, error)
	Connect(ctx context.Context, p ConnectParams) Result
	Disconnect(ctx context.Context, iface string, clearCache bool)
}
