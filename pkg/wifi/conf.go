// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// DefaultCtrlInterface is where wpa_supplicant and wpa_cli meet.
const DefaultCtrlInterface = "/var/run/wpa_supplicant"

const (
	wepNetwork = `	scan_ssid=1
	key_mgmt=NONE
	wep_key0=%s
	wep_tx_keyidx=0
	auth_alg=OPEN SHARED
`
	wpaNetwork = `	psk=%s
	scan_ssid=1
	key_mgmt=WPA-EAP WPA-PSK IEEE8021X NONE
	pairwise=CCMP TKIP
`
	openNetwork = `	key_mgmt=NONE
`
)

// SupplicantConfig is a single-network wpa_supplicant configuration.
type SupplicantConfig struct {
	ESSID      string
	Encryption Encryption
	// Secret must already have passed ValidateSecret.
	Secret        string
	Country       string
	CtrlInterface string
}

// Bytes renders the configuration file. Plain WPA passphrases are turned
// into a derived PSK so the passphrase never lands on disk.
func (c SupplicantConfig) Bytes() ([]byte, error) {
	if c.ESSID == "" {
		return nil, fmt.Errorf("supplicant config: empty essid")
	}
	ctrl := c.CtrlInterface
	if ctrl == "" {
		ctrl = DefaultCtrlInterface
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "ctrl_interface=%s\n", ctrl)
	if c.Country != "" {
		fmt.Fprintf(&b, "country=%s\n", c.Country)
	}
	fmt.Fprintf(&b, "\nnetwork={\n\tssid=%s\n", ssidValue(c.ESSID))

	switch c.Encryption {
	case Off:
		b.WriteString(openNetwork)
	case WEP:
		// wpa_supplicant tells hex keys from ASCII keys by the quotes.
		key, isHex := strings.CutPrefix(c.Secret, hexMarker)
		if !isHex {
			key = `"` + key + `"`
		}
		fmt.Fprintf(&b, wepNetwork, key)
	case WPA:
		psk, isHex := strings.CutPrefix(c.Secret, hexMarker)
		if !isHex {
			psk = PSK(c.ESSID, c.Secret)
		}
		fmt.Fprintf(&b, wpaNetwork, psk)
	default:
		return nil, fmt.Errorf("supplicant config: %w", ErrUnknownEncryption)
	}
	b.WriteString("}\n")
	return b.Bytes(), nil
}

// ssidValue quotes printable names and hex encodes anything else, like
// wpa_passphrase does.
func ssidValue(essid string) string {
	for i := 0; i < len(essid); i++ {
		if essid[i] < 0x20 || essid[i] >= 0x7f {
			return hex.EncodeToString([]byte(essid))
		}
	}
	return `"` + essid + `"`
}
