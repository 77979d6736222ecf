// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"context"
	"sync"

	"github.com/u-root/wlan/pkg/country"
	"github.com/u-root/wlan/pkg/shell"
)

var (
	_ = WiFi(&IWLWorker{})
	_ = WiFi(&StubWorker{})
)

// IWLWorker implements the WiFi interface using the Wireless Extensions
// tools and wpa_supplicant.
type IWLWorker struct {
	*Scanner
	*Connector
}

// NewIWLWorker wires a Scanner and a Connector around the same runner.
func NewIWLWorker(ctx context.Context, r shell.Runner, iface string, cc country.Resolver) *IWLWorker {
	return &IWLWorker{
		Scanner:   NewScanner(ctx, r, iface, cc),
		Connector: NewConnector(r, cc),
	}
}

// StubWorker answers from canned data and remembers what it was asked.
type StubWorker struct {
	Options []Network
	Result  Result

	mu           sync.Mutex
	Connects     []ConnectParams
	Disconnected []string
}

func (w *StubWorker) Networks(ctx context.Context, opt ListOptions) ([]Network, error) {
	var nets []Network
	for _, n := range w.Options {
		if opt.OpenOnly && n.Encryption != Off {
			continue
		}
		nets = append(nets, n)
	}
	if opt.First && len(nets) > 1 {
		nets = nets[:1]
	}
	return nets, nil
}

func (w *StubWorker) Connect(ctx context.Context, p ConnectParams) Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Connects = append(w.Connects, p)
	return w.Result
}

func (w *StubWorker) Disconnect(ctx context.Context, iface string, clearCache bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Disconnected = append(w.Disconnected, iface)
}
