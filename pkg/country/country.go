// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package country works out the wireless regulatory domain. Telling the
// driver which country it operates in unlocks channels 12-14 for scanning.
package country

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/u-root/wlan/pkg/shell"
)

const (
	// OverrideEnv forces a country, e.g. WIFI_COUNTRY=ES.
	OverrideEnv = "WIFI_COUNTRY"
	// LocaleEnv is consulted when no override is set, e.g. LANG=es_AR.UTF-8.
	LocaleEnv = "LANG"
)

var log = logrus.WithField("module", "country")

// Resolver derives a country code from an explicit override or a locale.
type Resolver struct {
	Override string
	Locale   string
}

// FromEnv builds a Resolver from the environment using getenv, which is
// normally os.Getenv.
func FromEnv(getenv func(string) string) Resolver {
	return Resolver{
		Override: getenv(OverrideEnv),
		Locale:   getenv(LocaleEnv),
	}
}

// Code returns the upper-case ISO 3166 alpha-2 code, or "" when none can be
// derived. US is the driver default and is never returned.
func (r Resolver) Code() string {
	src := r.Override
	if src == "" {
		src = r.Locale
	}
	cc := region(src)
	if cc == "" || cc == "US" {
		return ""
	}
	return cc
}

// Apply pushes the code to the driver with "iw reg set". It returns the
// code applied, or "" if there was nothing to do.
func (r Resolver) Apply(ctx context.Context, runner shell.Runner) string {
	cc := r.Code()
	if cc == "" {
		return ""
	}
	if res := runner.Run(ctx, "iw", "reg", "set", cc); !res.OK() {
		log.WithFields(logrus.Fields{
			"country": cc,
			"rc":      res.ExitCode,
			"stderr":  strings.TrimSpace(res.Stderr),
		}).Warn("Could not set the regulatory domain")
	} else {
		log.WithField("country", cc).Debug("Regulatory domain set")
	}
	return cc
}

// region accepts either a bare code ("es") or a locale ("es_AR.UTF-8").
func region(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '_'); i >= 0 {
		s = s[i+1:]
	} else if len(s) != 2 {
		return ""
	}
	if len(s) < 2 {
		return ""
	}
	s = strings.ToUpper(s[:2])
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return ""
		}
	}
	return s
}
