// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package country

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/u-root/wlan/pkg/shell"
)

func TestCode(t *testing.T) {
	for _, tt := range []struct {
		name     string
		override string
		locale   string
		want     string
	}{
		{name: "locale_region", locale: "es_AR.UTF-8", want: "AR"},
		{name: "override_wins", override: "ES", locale: "en_GB.UTF-8", want: "ES"},
		{name: "override_locale_form", override: "fr_FR", want: "FR"},
		{name: "lower_case", locale: "de_de", want: "DE"},
		{name: "us_is_ignored", locale: "en_US.UTF-8", want: ""},
		{name: "us_override_is_ignored", override: "us", want: ""},
		{name: "no_region", locale: "C", want: ""},
		{name: "posix", locale: "POSIX", want: ""},
		{name: "empty", want: ""},
		{name: "truncated", locale: "en_", want: ""},
		{name: "digits", locale: "es_419", want: ""},
	} {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolver{Override: tt.override, Locale: tt.locale}
			assert.Equal(t, tt.want, r.Code())
		})
	}
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{OverrideEnv: "", LocaleEnv: "en_GB.UTF-8"}
	r := FromEnv(func(k string) string { return env[k] })
	assert.Equal(t, "GB", r.Code())
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	f := &shell.Fake{}
	assert.Equal(t, "GB", Resolver{Locale: "en_GB.UTF-8"}.Apply(ctx, f))
	assert.Equal(t, []string{"iw reg set GB"}, f.Calls())

	f = &shell.Fake{}
	assert.Equal(t, "", Resolver{Locale: "en_US.UTF-8"}.Apply(ctx, f))
	assert.Empty(t, f.Calls())
}
