// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

/*
 * iwlist output differs from one chipset to the next, so parsing is best
 * effort:
 *	1) a cell starts at every line beginning with "Cell " and runs until
 *	   the next one
 *	2) a field that cannot be parsed is logged and left at its default
 *	3) no line can make a cell disappear
 */

// ParseIwlist splits the output of "iwlist <if> scan" into cells keyed by
// cell number.
func ParseIwlist(out []byte) map[string]Cell {
	return parseIwlist(out, log)
}

func parseIwlist(out []byte, l *logrus.Entry) map[string]Cell {
	var blocks [][]string
	for _, line := range strings.Split(string(out), "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if strings.HasPrefix(t, "Cell ") {
			blocks = append(blocks, nil)
		}
		if len(blocks) > 0 {
			blocks[len(blocks)-1] = append(blocks[len(blocks)-1], t)
		}
	}

	cells := make(map[string]Cell, len(blocks))
	for i, b := range blocks {
		c := parseCell(b, l)
		if c.Number == "" {
			c.Number = strconv.Itoa(i + 1)
			l.WithField("header", b[0]).Warn("Cell has no number, using its position")
		}
		if _, dup := cells[c.Number]; dup {
			l.WithField("cell", c.Number).Warn("Duplicate cell number, later cell wins")
		}
		cells[c.Number] = c
	}
	return cells
}

// parseCell fills a Cell from the trimmed lines of one block. The first line
// is always the "Cell NN - Address: MAC" header.
func parseCell(lines []string, l *logrus.Entry) Cell {
	// Defaults for drivers which do not report every attribute.
	c := Cell{Signal: "0"}
	for _, s := range lines {
		var err error
		switch {
		case strings.HasPrefix(s, "Cell "):
			err = c.header(s)
		case strings.HasPrefix(s, `ESSID:"`):
			c.ESSID = strings.TrimSuffix(strings.TrimPrefix(s, `ESSID:"`), `"`)
			c.HasESSID = true
		case strings.HasPrefix(s, "Protocol:"):
			v := afterColon(s)
			if v == "" {
				err = fmt.Errorf("empty protocol")
				break
			}
			c.Protocol = v[len(v)-1:]
		case strings.HasPrefix(s, "Mode:"):
			c.Mode = afterColon(s)
		case strings.HasPrefix(s, "Frequency:"):
			err = c.frequency(s)
		case strings.HasPrefix(s, "Quality="):
			err = c.quality(s)
		case strings.HasPrefix(s, "Encryption key:"):
			c.Encryption = afterColon(s)
		case strings.HasPrefix(s, "IE"):
			var v string
			if v, err = rest(s); err == nil {
				c.IE = append(c.IE, v)
			}
		case strings.HasPrefix(s, "Extra:"):
			var v string
			if v, err = rest(s); err == nil {
				c.Extra = append(c.Extra, v)
			}
		}
		if err != nil {
			l.WithFields(logrus.Fields{
				"cell":  c.Number,
				"line":  s,
				"error": err,
			}).Warn("Skipping unparsable iwlist line")
		}
	}
	return c
}

// header parses "Cell 01 - Address: 00:11:22:33:44:55".
func (c *Cell) header(s string) error {
	f := strings.Fields(s)
	if len(f) > 1 {
		c.Number = f[1]
	}
	if len(f) < 5 {
		return fmt.Errorf("short cell header")
	}
	c.MAC = f[4]
	return nil
}

// frequency parses "Frequency:2.412 GHz (Channel 1)".
func (c *Cell) frequency(s string) error {
	v := strings.Fields(afterColon(s))
	if len(v) == 0 {
		return fmt.Errorf("empty frequency")
	}
	c.Frequency = v[0]
	f := strings.Fields(s)
	if len(f) < 4 || len(f[3]) < 2 {
		return fmt.Errorf("no channel")
	}
	c.Channel = f[3][:len(f[3])-1]
	return nil
}

// quality parses "Quality=70/70  Signal level=-38 dBm  Noise level:-92 dBm".
func (c *Cell) quality(s string) error {
	q := strings.Fields(strings.SplitN(s, "=", 2)[1])
	if len(q) == 0 {
		return fmt.Errorf("empty quality")
	}
	c.Quality = q[0]
	c.Noise = "0"
	if v, ok := valueAfter(s, "Noise level:"); ok {
		c.Noise = v
	} else if v, ok := valueAfter(s, "Noise level="); ok {
		c.Noise = v
	}
	v, ok := valueAfter(s, "Signal level=")
	if !ok {
		return fmt.Errorf("no signal level")
	}
	c.Signal = v
	return nil
}

// valueAfter returns the first word following key in s.
func valueAfter(s, key string) (string, bool) {
	i := strings.Index(s, key)
	if i < 0 {
		return "", false
	}
	f := strings.Fields(s[i+len(key):])
	if len(f) == 0 {
		return "", false
	}
	return f[0], true
}

func afterColon(s string) string {
	_, v, _ := strings.Cut(s, ":")
	return strings.TrimSpace(v)
}

// rest returns everything after the first colon, which may hold more colons.
func rest(s string) (string, error) {
	_, v, ok := strings.Cut(s, ":")
	if !ok {
		return "", fmt.Errorf("no value")
	}
	return strings.TrimSpace(v), nil
}
