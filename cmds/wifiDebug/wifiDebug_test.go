// Copyright 2021 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/u-root/wlan/pkg/shell"
	"github.com/u-root/wlan/pkg/wifi"
)

const transcript = "../../pkg/wifi/testdata/iwlist.txt"

func TestDumpText(t *testing.T) {
	raw, err := read(context.Background(), &shell.Fake{}, transcript, "wlan0")
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, dump(&b, raw, false))
	lines := strings.Split(b.String(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], `Cell 01 00:11:22:33:44:01 "HomeNet" ch=1`), lines[0])
	assert.Contains(t, b.String(), "Cell 03 00:11:22:33:44:03 <hidden>")
	assert.Contains(t, b.String(), "\tIE: IEEE 802.11i/WPA2 Version 1\n")
}

func TestDumpJSON(t *testing.T) {
	raw, err := read(context.Background(), &shell.Fake{}, transcript, "wlan0")
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, dump(&b, raw, true))
	var cells []wifi.Cell
	require.NoError(t, json.Unmarshal(b.Bytes(), &cells))
	require.Len(t, cells, 5)
	assert.Equal(t, "05", cells[4].Number)
	assert.Equal(t, "Cafe", cells[4].ESSID)
}

func TestReadLive(t *testing.T) {
	f := &shell.Fake{}
	f.Respond("iwlist wlan1 scan", shell.Result{Stdout: "Cell 01 - Address: aa\n"})
	raw, err := read(context.Background(), f, "", "wlan1")
	require.NoError(t, err)
	assert.Equal(t, "Cell 01 - Address: aa\n", string(raw))

	f.Respond("iwlist wlan2 scan", shell.Result{ExitCode: 255, Stderr: "wlan2     Interface doesn't support scanning."})
	_, err = read(context.Background(), f, "", "wlan2")
	assert.Error(t, err)
}

func TestDumpOrder(t *testing.T) {
	raw := []byte(`Cell B - Address: 00:00:00:00:00:0b
Cell 10 - Address: 00:00:00:00:00:10
Cell A - Address: 00:00:00:00:00:0a
Cell 2 - Address: 00:00:00:00:00:02
`)
	var b bytes.Buffer
	require.NoError(t, dump(&b, raw, false))
	var got []string
	for _, l := range strings.Split(strings.TrimSpace(b.String()), "\n") {
		got = append(got, strings.Fields(l)[1])
	}
	assert.Equal(t, []string{"2", "10", "A", "B"}, got)
}
