// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/u-root/wlan/pkg/country"
	"github.com/u-root/wlan/pkg/metrics"
	"github.com/u-root/wlan/pkg/shell"
)

const (
	DefaultSupplicantConfig = "/etc/wpa_supplicant/wlan.conf"
	DefaultSupplicantLog    = "/var/log/wlan-supplicant.log"
	// DefaultLeaseTimeout is used when ConnectParams.Timeout is not set.
	DefaultLeaseTimeout = 60 * time.Second
	// DefaultDisconnectSettle lets the stack settle after a disconnect.
	DefaultDisconnectSettle = 3 * time.Second
)

// Emptier is the part of the connection cache Disconnect needs.
type Emptier interface {
	Empty() error
}

// Connector associates with a network through wpa_supplicant and waits for
// DHCP to finish.
type Connector struct {
	Runner  shell.Runner
	Country country.Resolver
	// Owner, when set, keeps other processes from connecting at the same time.
	Owner *Owner
	// Cache is emptied by Disconnect on request.
	Cache Emptier

	SupplicantConfig string
	SupplicantLog    string
	CtrlInterface    string
	InternetUpFile   string

	// PollInterval is the DHCP marker polling period. Default 1s.
	PollInterval time.Duration
	// DisconnectSettle is slept at the end of Disconnect.
	DisconnectSettle time.Duration

	// Lease, when set, is started alongside the DHCP wait to obtain a lease
	// in-process. It is expected to create InternetUpFile on success.
	Lease func(ctx context.Context, iface string) error

	Log     *logrus.Entry
	Metrics *metrics.Metrics
}

// NewConnector returns a Connector with the default paths.
func NewConnector(r shell.Runner, cc country.Resolver) *Connector {
	return &Connector{
		Runner:           r,
		Country:          cc,
		SupplicantConfig: DefaultSupplicantConfig,
		SupplicantLog:    DefaultSupplicantLog,
		CtrlInterface:    DefaultCtrlInterface,
		InternetUpFile:   DefaultInternetUpFile,
		PollInterval:     time.Second,
		DisconnectSettle: DefaultDisconnectSettle,
	}
}

// Connect attempts an association and reports the outcome. It never fails
// with an error: every problem maps to one of the Result values.
//
// The wait for the supplicant's verdict has no clock of its own; the
// supplicant is given up on after three fruitless scans, or when ctx is done.
func (c *Connector) Connect(ctx context.Context, p ConnectParams) Result {
	start := time.Now()
	l := orDefault(c.Log).WithFields(logrus.Fields{
		"attempt":    uuid.NewString(),
		"interface":  p.Interface,
		"essid":      p.ESSID,
		"encryption": p.Encryption.String(),
	})
	r := c.connect(ctx, p, l)
	l.WithFields(logrus.Fields{
		"result":  r.String(),
		"elapsed": time.Since(start).Round(time.Millisecond).String(),
	}).Info("Connection attempt finished")
	c.Metrics.ObserveConnect(r.String(), time.Since(start))
	return r
}

func (c *Connector) connect(ctx context.Context, p ConnectParams, l *logrus.Entry) Result {
	secret := p.Secret
	if p.ConfigPath == "" {
		s, err := ValidateSecret(p.Encryption, p.Secret)
		if err != nil {
			l.WithError(err).Error("Rejected secret")
			if errors.Is(err, ErrKeyLength) {
				return IncorrectPasswordLength
			}
			return InternalError
		}
		secret = s
	}

	if c.Owner != nil {
		if _, err := c.Owner.Claim(); err != nil {
			l.WithError(err).Warn("Could not claim the connection PID file")
		}
		defer c.Owner.Release()
	}

	// Politely stop any supplicant left over from a previous attempt.
	c.run(ctx, l, "wpa_cli", c.cli("terminate")...)

	if p.ConfigPath == "" || p.Encryption != Off {
		c.reset(ctx, l, p.Interface, p.ESSID)
	}

	conf := p.ConfigPath
	switch {
	case conf != "":
		l.WithField("config", conf).Info("Starting wpa_supplicant with custom config")
	case p.Encryption == Off:
		return c.waitForLease(ctx, p, l)
	default:
		b, err := SupplicantConfig{
			ESSID:         p.ESSID,
			Encryption:    p.Encryption,
			Secret:        secret,
			Country:       c.Country.Code(),
			CtrlInterface: c.ctrl(),
		}.Bytes()
		if err != nil {
			l.WithError(err).Error("Could not build supplicant config")
			return InternalError
		}
		conf = c.confPath()
		if err := c.Runner.WriteFile(conf, b, 0600); err != nil {
			l.WithError(err).WithField("config", conf).Error("Could not write supplicant config")
			return InternalError
		}
		l.WithField("config", conf).Info("Starting wpa_supplicant")
	}

	if r := c.supervise(ctx, p, conf, l); r != Connected {
		return r
	}
	return c.waitForLease(ctx, p, l)
}

// reset puts the interface in a known state before associating.
func (c *Connector) reset(ctx context.Context, l *logrus.Entry, iface, essid string) {
	if essid == "" {
		essid = "any"
	}
	c.run(ctx, l, "iwconfig", iface, "power", "off")
	c.run(ctx, l, "ip", "link", "set", "dev", iface, "down")
	// The ESSID travels as a single argument, quotes and all.
	c.run(ctx, l, "iwconfig", iface, "essid", essid)
	c.run(ctx, l, "iwconfig", iface, "mode", "managed")
	c.run(ctx, l, "ip", "link", "set", "dev", iface, "up")
}

// supervise starts the supplicant daemon and follows its events through an
// interactive wpa_cli until a verdict is reached.
func (c *Connector) supervise(ctx context.Context, p ConnectParams, conf string, l *logrus.Entry) Result {
	logFile := c.SupplicantLog
	if logFile == "" {
		logFile = DefaultSupplicantLog
	}
	r := c.Runner.Run(ctx, "wpa_supplicant", "-D", "nl80211,wext", "-t", "-d",
		"-c"+conf, "-i"+p.Interface, "-f", logFile, "-B")
	if r.Err != nil {
		l.WithError(r.Err).Error("Could not start wpa_supplicant")
		return InternalError
	}
	if r.ExitCode != 0 {
		l.WithField("rc", r.ExitCode).Warn("wpa_supplicant returned an error, following events anyway")
	}

	s, err := c.Runner.Spawn(ctx, "wpa_cli", c.cli("-i", p.Interface)...)
	if err != nil {
		l.WithError(err).Error("Could not start wpa_cli")
		return InternalError
	}
	defer s.Close()

	var st sessionState
	lines := s.Lines()
	for {
		select {
		case <-ctx.Done():
			l.WithError(ctx.Err()).Warn("Connection attempt cancelled")
			quit(s, l)
			return InternalError
		case line, ok := <-lines:
			if !ok {
				rc, err := s.Wait()
				if err != nil {
					l.WithError(err).Error("wpa_cli failed")
					return InternalError
				}
				l.WithField("rc", rc).Warn("wpa_cli exited without a verdict")
				return resultFromExit(rc)
			}
			if p.Debug {
				l.WithField("event", line).Info("wpa_cli")
			} else {
				l.WithField("event", line).Debug("wpa_cli")
			}
			if res, done := st.feed(Classify(line)); done {
				l.WithFields(logrus.Fields{
					"verdict": res.String(),
					"scans":   st.scans,
				}).Info("Supplicant verdict")
				quit(s, l)
				return res
			}
		}
	}
}

// quit asks wpa_cli to leave through its held-open input.
func quit(s shell.Session, l *logrus.Entry) {
	if err := s.Send("quit\n"); err != nil {
		l.WithError(err).Debug("Could not send quit to wpa_cli")
	}
	s.Close()
	go s.Wait()
}

// waitForLease waits for the DHCP marker. The attempt is Connected only once
// it shows up.
func (c *Connector) waitForLease(ctx context.Context, p ConnectParams, l *logrus.Entry) Result {
	timeout := time.Duration(p.Timeout) * time.Second
	if timeout <= 0 {
		timeout = DefaultLeaseTimeout
	}
	marker := c.InternetUpFile
	if marker == "" {
		marker = DefaultInternetUpFile
	}

	if c.Lease != nil {
		lctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		go func() {
			if err := c.Lease(lctx, p.Interface); err != nil {
				l.WithError(err).Warn("In-process DHCP failed")
			}
		}()
	}

	l.WithFields(logrus.Fields{"marker": marker, "timeout": timeout.String()}).Debug("Waiting for DHCP lease")
	if WaitForLease(ctx, marker, timeout, c.PollInterval) {
		return Connected
	}
	l.Warn("No DHCP lease")
	return NoDHCPLease
}

// Disconnect stops the supplicant and clears the association. It is best
// effort and reports nothing.
func (c *Connector) Disconnect(ctx context.Context, iface string, clearCache bool) {
	if iface == "" {
		return
	}
	l := orDefault(c.Log).WithField("interface", iface)
	c.run(ctx, l, "wpa_cli", c.cli("terminate")...)
	if clearCache && c.Cache != nil {
		if err := c.Cache.Empty(); err != nil {
			l.WithError(err).Debug("Connection cache was already empty")
		}
	}
	c.run(ctx, l, "iwconfig", iface, "essid", "off")
	c.run(ctx, l, "iwconfig", iface, "mode", "managed")

	select {
	case <-ctx.Done():
	case <-time.After(c.DisconnectSettle):
	}
	l.Info("Disconnected")
}

func (c *Connector) run(ctx context.Context, l *logrus.Entry, name string, args ...string) shell.Result {
	r := c.Runner.Run(ctx, name, args...)
	if !r.OK() {
		l.WithFields(logrus.Fields{
			"cmd":    shell.CommandLine(name, args...),
			"rc":     r.ExitCode,
			"stderr": strings.TrimSpace(r.Stderr),
		}).Debug("Command failed")
	}
	return r
}

func (c *Connector) cli(args ...string) []string {
	return append([]string{"-p", c.ctrl()}, args...)
}

func (c *Connector) ctrl() string {
	if c.CtrlInterface == "" {
		return DefaultCtrlInterface
	}
	return c.CtrlInterface
}

func (c *Connector) confPath() string {
	if c.SupplicantConfig == "" {
		return DefaultSupplicantConfig
	}
	return c.SupplicantConfig
}
