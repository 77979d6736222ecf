// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// BuildNetworks turns raw cells into one Network per ESSID, strongest
// quality first. Hidden networks, with no or an empty ESSID, are left out.
func BuildNetworks(cells map[string]Cell, opt ListOptions) []Network {
	var nets []Network
	for _, k := range CellOrder(cells) {
		c := cells[k]
		if !c.HasESSID || c.ESSID == "" {
			continue
		}
		n := Network{
			ESSID:      c.ESSID,
			Channel:    c.Channel,
			Signal:     c.Signal,
			Quality:    c.Quality,
			Encryption: classify(c),
		}
		if opt.OpenOnly && n.Encryption != Off {
			continue
		}
		nets = addNetwork(nets, n)
	}

	sort.SliceStable(nets, func(i, j int) bool {
		return qualityRatio(nets[i].Quality) > qualityRatio(nets[j].Quality)
	})
	if opt.First && len(nets) > 1 {
		nets = nets[:1]
	}
	return nets
}

// classify reads the encryption class out of a cell. Anything encrypted is
// WEP unless an IE or Extra entry mentions WPA.
func classify(c Cell) Encryption {
	if c.Encryption == "off" {
		return Off
	}
	for _, s := range append(append([]string(nil), c.Extra...), c.IE...) {
		if strings.Contains(strings.ToUpper(s), "WPA") {
			return WPA
		}
	}
	return WEP
}

// addNetwork appends n unless its ESSID is already listed, in which case the
// stronger signal wins. Equal or non-numeric signals keep the existing entry.
func addNetwork(nets []Network, n Network) []Network {
	for i, old := range nets {
		if old.ESSID != n.ESSID {
			continue
		}
		o, err1 := strconv.Atoi(old.Signal)
		s, err2 := strconv.Atoi(n.Signal)
		if err1 == nil && err2 == nil && o < s {
			nets[i] = n
		}
		return nets
	}
	return append(nets, n)
}

// qualityRatio converts "x/y" to x/y. Malformed values rank below any
// well-formed one.
func qualityRatio(q string) float64 {
	x, y, ok := strings.Cut(q, "/")
	if !ok {
		return -1
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
	if err != nil || !finite(num) {
		return -1
	}
	den, err := strconv.ParseFloat(strings.TrimSpace(y), 64)
	if err != nil || den == 0 || !finite(den) {
		return -1
	}
	if r := num / den; finite(r) {
		return r
	}
	return -1
}

// finite rejects the NaN and Inf spellings ParseFloat accepts.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// CellOrder returns the cell numbers sorted numerically, with non-numeric
// numbers after them in string order.
func CellOrder(cells map[string]Cell) []string {
	keys := make([]string, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}
