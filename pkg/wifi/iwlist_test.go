// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/u-root/wlan/pkg/tlog"
)

func readTranscript(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return b
}

func TestParseIwlist(t *testing.T) {
	cells := parseIwlist(readTranscript(t, "iwlist.txt"), tlog.Logger(t, "wifi"))
	require.Len(t, cells, 5)

	home := cells["01"]
	assert.Equal(t, "00:11:22:33:44:01", home.MAC)
	assert.Equal(t, "HomeNet", home.ESSID)
	assert.True(t, home.HasESSID)
	assert.Equal(t, "1", home.Channel)
	assert.Equal(t, "2.412", home.Frequency)
	assert.Equal(t, "70/70", home.Quality)
	assert.Equal(t, "-38", home.Signal)
	assert.Equal(t, "0", home.Noise)
	assert.Equal(t, "on", home.Encryption)
	assert.Equal(t, "Master", home.Mode)
	assert.Equal(t, []string{"Unknown: 00074F6D654E6574", "IEEE 802.11i/WPA2 Version 1"}, home.IE)
	assert.Equal(t, []string{"tsf=0000000833c7a7ae", "Last beacon: 60ms ago"}, home.Extra)

	cafe := cells["02"]
	assert.Equal(t, "Cafe", cafe.ESSID)
	assert.Equal(t, "-92", cafe.Noise)
	assert.Equal(t, "off", cafe.Encryption)
	assert.Equal(t, "n", cafe.Protocol)

	hidden := cells["03"]
	assert.False(t, hidden.HasESSID)
	assert.Equal(t, "11", hidden.Channel)
}

func TestParseIwlistBestEffort(t *testing.T) {
	cells := parseIwlist(readTranscript(t, "iwlist_broken.txt"), tlog.Logger(t, "wifi"))
	require.Len(t, cells, 2)

	broken := cells["01"]
	assert.Equal(t, "Broken", broken.ESSID)
	assert.Equal(t, "0", broken.Signal)
	assert.Empty(t, broken.Quality)
	assert.Empty(t, broken.Channel)
	assert.Empty(t, broken.Protocol)

	assert.Equal(t, "20/70", cells["02"].Quality)
}

func TestParseIwlistEdges(t *testing.T) {
	for _, tt := range []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "no cells", in: "wlan0     No scan results\n", want: nil},
		{name: "short header", in: "Cell 07\nESSID:\"x\"\n", want: []string{"07"}},
		{name: "bare cell word", in: "Cell\nESSID:\"x\"\n", want: nil},
		{name: "duplicate number", in: "Cell 01 - Address: a\nCell 01 - Address: b\n", want: []string{"01"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cells := parseIwlist([]byte(tt.in), tlog.Logger(t, "wifi"))
			var got []string
			for k := range cells {
				got = append(got, k)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestParseIwlistDuplicateLaterWins(t *testing.T) {
	cells := ParseIwlist([]byte("Cell 01 - Address: a\nCell 01 - Address: b\n"))
	assert.Equal(t, "b", cells["01"].MAC)
}
