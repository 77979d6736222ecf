// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wificache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T) *Cache {
	return New(filepath.Join(t.TempDir(), "sub", "cache.json"))
}

func TestRoundTrip(t *testing.T) {
	c := testCache(t)
	require.NoError(t, c.Save("home", "wpa", "secret", ""))

	e, ok := c.Get("home")
	require.True(t, ok)
	assert.Equal(t, "home", e.ESSID)
	assert.Equal(t, "wpa", e.Encryption)
	assert.Equal(t, "secret", e.EncKey)
	assert.Empty(t, e.ConfPath())

	_, ok = c.Get("other")
	assert.False(t, ok)

	require.NoError(t, c.Empty())
	_, ok = c.Latest()
	assert.False(t, ok)
	assert.ErrorIs(t, c.Empty(), ErrNoEntry)
}

func TestFileFormat(t *testing.T) {
	for _, tt := range []struct {
		name string
		conf string
		want string
	}{
		{
			name: "no conf",
			want: `{
    "conf": null,
    "enckey": "secret",
    "encryption": "wpa",
    "essid": "home"
}
`,
		},
		{
			name: "conf",
			conf: "/etc/custom.conf",
			want: `{
    "conf": "/etc/custom.conf",
    "enckey": "secret",
    "encryption": "wpa",
    "essid": "home"
}
`,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			c := testCache(t)
			require.NoError(t, c.Save("home", "wpa", "secret", tt.conf))
			b, err := os.ReadFile(c.Path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))

			fi, err := os.Stat(c.Path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())
		})
	}
}

func TestSaveOverwrites(t *testing.T) {
	c := testCache(t)
	require.NoError(t, c.Save("first", "off", "", ""))
	require.NoError(t, c.Save("second", "wep", "abcde", "/etc/x.conf"))

	_, ok := c.Get("first")
	assert.False(t, ok)
	e, ok := c.Latest()
	require.True(t, ok)
	assert.Equal(t, "second", e.ESSID)
	assert.Equal(t, "/etc/x.conf", e.ConfPath())
}

func TestCorruptCache(t *testing.T) {
	c := testCache(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(c.Path), 0700))
	require.NoError(t, os.WriteFile(c.Path, []byte("{not json"), 0600))

	_, ok := c.Latest()
	assert.False(t, ok)
	_, ok = c.Get("")
	assert.False(t, ok)
}

func TestNewDefault(t *testing.T) {
	assert.Equal(t, DefaultPath, New("").Path)
	var e *Entry
	assert.Empty(t, e.ConfPath())
}
