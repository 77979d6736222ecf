// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"errors"
	"fmt"
	"strings"
)

// hexMarker prefixes secrets given as hexadecimal key material.
const hexMarker = "hex"

// ErrKeyLength is returned for secrets whose length the security class
// cannot accept.
var ErrKeyLength = errors.New("incorrect key length")

// ValidateSecret checks secret against the rules of enc and returns it in
// the form the supplicant configuration expects. An unmarked WEP key of hex
// length gets the hex marker prepended.
//
// WEP keys are 5, 13 or 58 ASCII characters, or 10, 26 or 116 hex digits.
// WPA passphrases are 8 to 63 characters; hex marked WPA keys are taken as
// already derived and not checked.
func ValidateSecret(enc Encryption, secret string) (string, error) {
	switch enc {
	case Off:
		return secret, nil
	case WEP:
		if h, ok := strings.CutPrefix(secret, hexMarker); ok {
			switch len(h) {
			case 10, 26, 116:
				return secret, nil
			}
			return "", fmt.Errorf("hex WEP key is %d digits, want 10, 26 or 116: %w", len(h), ErrKeyLength)
		}
		switch len(secret) {
		case 5, 13, 58:
			return secret, nil
		case 10, 26, 116:
			return hexMarker + secret, nil
		}
		return "", fmt.Errorf("WEP key is %d characters, want 5, 13 or 58 (ASCII) or 10, 26 or 116 (hex): %w", len(secret), ErrKeyLength)
	case WPA:
		if strings.HasPrefix(secret, hexMarker) {
			return secret, nil
		}
		if n := len(secret); n < 8 || n > 63 {
			return "", fmt.Errorf("WPA passphrase is %d characters, want 8 to 63: %w", n, ErrKeyLength)
		}
		return secret, nil
	}
	return "", ErrUnknownEncryption
}
