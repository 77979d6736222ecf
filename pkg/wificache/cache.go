// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wificache remembers the last network that was joined successfully.
// It holds a single entry; saving replaces it.
package wificache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// DefaultPath is the cache file used by the wlan command.
const DefaultPath = "/var/cache/wlan/last-network.json"

// ErrNoEntry is returned by load when the cache holds nothing usable.
var ErrNoEntry = errors.New("no cached network")

var log = logrus.WithField("module", "wificache")

// Entry is the remembered network. Fields are declared in key order so the
// file is byte-for-byte reproducible.
type Entry struct {
	// Conf is the custom supplicant config path, null when unused.
	Conf       *string `json:"conf"`
	EncKey     string  `json:"enckey"`
	Encryption string  `json:"encryption"`
	ESSID      string  `json:"essid"`
}

// ConfPath returns the custom config path or "".
func (e *Entry) ConfPath() string {
	if e == nil || e.Conf == nil {
		return ""
	}
	return *e.Conf
}

// Cache is the single-slot store at Path.
type Cache struct {
	Path string
}

// New returns a Cache at path, or DefaultPath when path is empty.
func New(path string) *Cache {
	if path == "" {
		path = DefaultPath
	}
	return &Cache{Path: path}
}

// Save overwrites the cache. An empty conf is stored as null.
func (c *Cache) Save(essid, encryption, key, conf string) error {
	e := Entry{EncKey: key, Encryption: encryption, ESSID: essid}
	if conf != "" {
		e.Conf = &conf
	}
	b, err := json.MarshalIndent(e, "", "    ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if err := os.MkdirAll(filepath.Dir(c.Path), 0700); err != nil {
		return fmt.Errorf("cache dir: %w", err)
	}
	// The file holds a key.
	if err := os.WriteFile(c.Path, b, 0600); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	log.WithField("essid", essid).Debug("Cached network")
	return nil
}

// Get returns the cached entry if it is for essid. A missing or unreadable
// cache and a different network look the same to the caller.
func (c *Cache) Get(essid string) (*Entry, bool) {
	e, err := c.load()
	if err != nil || e.ESSID != essid {
		return nil, false
	}
	return e, true
}

// Latest returns whatever is cached.
func (c *Cache) Latest() (*Entry, bool) {
	e, err := c.load()
	if err != nil {
		return nil, false
	}
	return e, true
}

// Empty removes the cache file. Emptying an empty cache is an error.
func (c *Cache) Empty() error {
	if err := os.Remove(c.Path); err != nil {
		if os.IsNotExist(err) {
			return ErrNoEntry
		}
		return err
	}
	return nil
}

func (c *Cache) load() (*Entry, error) {
	b, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoEntry
		}
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		log.WithError(err).WithField("path", c.Path).Warn("Ignoring corrupt network cache")
		return nil, fmt.Errorf("%w: %v", ErrNoEntry, err)
	}
	return &e, nil
}
