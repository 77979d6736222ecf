// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"crypto/sha1"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// PSK derives the 256-bit WPA pre-shared key from a passphrase and ESSID,
// the same transform wpa_passphrase applies (IEEE 802.11i, PBKDF2-SHA1 with
// 4096 iterations). The result is 64 hex digits.
func PSK(essid, passphrase string) string {
	return hex.EncodeToString(pbkdf2.Key([]byte(passphrase), []byte(essid), 4096, 32, sha1.New))
}
