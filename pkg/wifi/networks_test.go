// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func essids(nets []Network) []string {
	var s []string
	for _, n := range nets {
		s = append(s, n.ESSID)
	}
	return s
}

func TestBuildNetworksTranscript(t *testing.T) {
	cells := ParseIwlist(readTranscript(t, "iwlist.txt"))

	nets := BuildNetworks(cells, ListOptions{})
	assert.Equal(t, []Network{
		{ESSID: "HomeNet", Channel: "1", Signal: "-38", Quality: "70/70", Encryption: WPA},
		{ESSID: "Legacy", Channel: "36", Signal: "-50", Quality: "60/70", Encryption: WEP},
		{ESSID: "Cafe", Channel: "6", Signal: "-45", Quality: "40/70", Encryption: Off},
	}, nets)

	assert.Equal(t, []string{"Cafe"}, essids(BuildNetworks(cells, ListOptions{OpenOnly: true})))
	assert.Equal(t, []string{"HomeNet"}, essids(BuildNetworks(cells, ListOptions{First: true})))
	assert.Equal(t, []string{"Cafe"}, essids(BuildNetworks(cells, ListOptions{OpenOnly: true, First: true})))
}

func TestBuildNetworks(t *testing.T) {
	for _, tt := range []struct {
		name  string
		cells map[string]Cell
		want  []Network
	}{
		{
			name: "stronger duplicate wins",
			cells: map[string]Cell{
				"1": {ESSID: "a", HasESSID: true, Signal: "10", Quality: "5/10", Encryption: "off"},
				"2": {ESSID: "a", HasESSID: true, Signal: "20", Quality: "6/10", Encryption: "off"},
			},
			want: []Network{{ESSID: "a", Signal: "20", Quality: "6/10", Encryption: Off}},
		},
		{
			name: "equal signal keeps first",
			cells: map[string]Cell{
				"1": {ESSID: "a", HasESSID: true, Signal: "10", Channel: "1", Encryption: "off"},
				"2": {ESSID: "a", HasESSID: true, Signal: "10", Channel: "6", Encryption: "off"},
			},
			want: []Network{{ESSID: "a", Signal: "10", Channel: "1", Encryption: Off}},
		},
		{
			name: "non numeric signal keeps first",
			cells: map[string]Cell{
				"1": {ESSID: "a", HasESSID: true, Signal: "weak", Channel: "1", Encryption: "off"},
				"2": {ESSID: "a", HasESSID: true, Signal: "90", Channel: "6", Encryption: "off"},
			},
			want: []Network{{ESSID: "a", Signal: "weak", Channel: "1", Encryption: Off}},
		},
		{
			name: "descending quality",
			cells: map[string]Cell{
				"1": {ESSID: "low", HasESSID: true, Quality: "30/100", Encryption: "off"},
				"2": {ESSID: "high", HasESSID: true, Quality: "70/100", Encryption: "off"},
				"3": {ESSID: "mid", HasESSID: true, Quality: "50/100", Encryption: "off"},
			},
			want: []Network{
				{ESSID: "high", Quality: "70/100", Encryption: Off},
				{ESSID: "mid", Quality: "50/100", Encryption: Off},
				{ESSID: "low", Quality: "30/100", Encryption: Off},
			},
		},
		{
			name: "malformed quality ranks last",
			cells: map[string]Cell{
				"1": {ESSID: "bad", HasESSID: true, Quality: "n/a", Encryption: "off"},
				"2": {ESSID: "zero", HasESSID: true, Quality: "3/0", Encryption: "off"},
				"3": {ESSID: "ok", HasESSID: true, Quality: "1/100", Encryption: "off"},
			},
			want: []Network{
				{ESSID: "ok", Quality: "1/100", Encryption: Off},
				{ESSID: "bad", Quality: "n/a", Encryption: Off},
				{ESSID: "zero", Quality: "3/0", Encryption: Off},
			},
		},
		{
			name: "hidden dropped",
			cells: map[string]Cell{
				"1": {Quality: "70/70", Encryption: "off"},
				"2": {HasESSID: true, Quality: "70/70", Encryption: "off"},
				"3": {ESSID: "seen", HasESSID: true, Quality: "10/70", Encryption: "on"},
			},
			want: []Network{{ESSID: "seen", Quality: "10/70", Encryption: WEP}},
		},
		{
			name: "wpa in extra",
			cells: map[string]Cell{
				"1": {ESSID: "x", HasESSID: true, Encryption: "on", Extra: []string{"wpa_ie=dd160050f2"}},
			},
			want: []Network{{ESSID: "x", Encryption: WPA}},
		},
		{
			name:  "nothing",
			cells: map[string]Cell{},
			want:  nil,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildNetworks(tt.cells, ListOptions{}))
		})
	}
}

func TestQualityRatio(t *testing.T) {
	for _, tt := range []struct {
		q    string
		want float64
	}{
		{"70/70", 1},
		{"35/70", 0.5},
		{" 1 / 4 ", 0.25},
		{"", -1},
		{"70", -1},
		{"x/70", -1},
		{"70/y", -1},
		{"1/0", -1},
		{"NaN/70", -1},
		{"Inf/70", -1},
		{"70/-Inf", -1},
		{"1e308/1e-308", -1},
	} {
		t.Run(tt.q, func(t *testing.T) {
			assert.Equal(t, tt.want, qualityRatio(tt.q))
		})
	}
}

func TestBuildNetworksNaNQualityLast(t *testing.T) {
	cells := map[string]Cell{
		"1": {ESSID: "best", HasESSID: true, Encryption: "off", Quality: "70/70"},
		"2": {ESSID: "odd", HasESSID: true, Encryption: "off", Quality: "NaN/70"},
		"3": {ESSID: "weak", HasESSID: true, Encryption: "off", Quality: "10/70"},
	}
	var got []string
	for _, n := range BuildNetworks(cells, ListOptions{}) {
		got = append(got, n.ESSID)
	}
	assert.Equal(t, []string{"best", "weak", "odd"}, got)
}

func TestCellOrder(t *testing.T) {
	cells := map[string]Cell{"10": {}, "2": {}, "b": {}, "01": {}, "a": {}}
	assert.Equal(t, []string{"01", "2", "10", "a", "b"}, CellOrder(cells))
}
