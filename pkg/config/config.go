// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the settings of the wlan command. Everything has a
// default, so the YAML file is optional.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/u-root/wlan/pkg/wifi"
	"github.com/u-root/wlan/pkg/wificache"
)

// DefaultPath is read when no --config is given.
const DefaultPath = "/etc/wlan/wlan.yaml"

// Config is the complete configuration.
type Config struct {
	Interface string `yaml:"interface"`
	// Country overrides the regulatory domain derived from the locale.
	Country string `yaml:"country"`

	Paths    PathsConfig    `yaml:"paths"`
	Timeouts TimeoutsConfig `yaml:"timeouts"`
	Driver   DriverConfig   `yaml:"driver"`
	DHCP     DHCPConfig     `yaml:"dhcp"`
	Logging  LoggingConfig  `yaml:"logging"`
	// MetricsFile, when set, receives the Prometheus metrics in textfile
	// format after every command.
	MetricsFile string `yaml:"metrics_file"`
}

// PathsConfig locates the files shared with the supplicant and DHCP hooks.
type PathsConfig struct {
	SupplicantConfig string `yaml:"supplicant_config"`
	SupplicantLog    string `yaml:"supplicant_log"`
	CtrlInterface    string `yaml:"ctrl_interface"`
	InternetUp       string `yaml:"internet_up"`
	InternetProbe    string `yaml:"internet_probe"`
	PIDFile          string `yaml:"pid_file"`
	Cache            string `yaml:"cache"`
}

// TimeoutsConfig bounds the waits.
type TimeoutsConfig struct {
	ScanBudget       time.Duration `yaml:"scan_budget"`
	ScanPause        time.Duration `yaml:"scan_pause"`
	Lease            time.Duration `yaml:"lease"`
	DisconnectSettle time.Duration `yaml:"disconnect_settle"`
}

// DriverConfig names the dongle reload-driver acts on.
type DriverConfig struct {
	Vendor  string        `yaml:"vendor"`
	Product string        `yaml:"product"`
	Module  string        `yaml:"module"`
	Unload  time.Duration `yaml:"unload_pause"`
	Load    time.Duration `yaml:"load_pause"`
}

// DHCPConfig controls the in-process DHCP client.
type DHCPConfig struct {
	// InProcess asks for a lease from this process instead of relying on
	// an external client and its hooks.
	InProcess     bool          `yaml:"in_process"`
	PacketTimeout time.Duration `yaml:"packet_timeout"`
	Retries       int           `yaml:"retries"`
}

// LoggingConfig selects the log level and format.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	d := wifi.DefaultDriver
	return &Config{
		Interface: "wlan0",
		Paths: PathsConfig{
			SupplicantConfig: wifi.DefaultSupplicantConfig,
			SupplicantLog:    wifi.DefaultSupplicantLog,
			CtrlInterface:    wifi.DefaultCtrlInterface,
			InternetUp:       wifi.DefaultInternetUpFile,
			InternetProbe:    wifi.DefaultInternetProbe,
			PIDFile:          wifi.DefaultPIDFile,
			Cache:            wificache.DefaultPath,
		},
		Timeouts: TimeoutsConfig{
			ScanBudget:       wifi.DefaultScanBudget,
			ScanPause:        wifi.DefaultScanPause,
			Lease:            wifi.DefaultLeaseTimeout,
			DisconnectSettle: wifi.DefaultDisconnectSettle,
		},
		Driver: DriverConfig{
			Vendor:  d.Vendor,
			Product: d.Product,
			Module:  d.Module,
			Unload:  d.Unload,
			Load:    d.Load,
		},
		DHCP: DHCPConfig{
			PacketTimeout: 5 * time.Second,
			Retries:       3,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// Save writes c as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the wireless code cannot work with.
func (c *Config) Validate() error {
	if c.Interface == "" {
		return errors.New("interface is required")
	}
	if c.Paths.SupplicantConfig == "" || c.Paths.CtrlInterface == "" || c.Paths.InternetUp == "" {
		return errors.New("supplicant_config, ctrl_interface and internet_up paths are required")
	}
	if c.Timeouts.ScanBudget <= 0 {
		return errors.New("scan budget must be positive")
	}
	if c.Timeouts.ScanPause < 0 || c.Timeouts.ScanPause > c.Timeouts.ScanBudget {
		return fmt.Errorf("scan pause %v must be between 0 and the scan budget", c.Timeouts.ScanPause)
	}
	if c.Timeouts.Lease < time.Second {
		return fmt.Errorf("lease timeout %v is below one second", c.Timeouts.Lease)
	}
	if c.Timeouts.DisconnectSettle < 0 {
		return errors.New("disconnect settle must not be negative")
	}
	if c.DHCP.InProcess && (c.DHCP.PacketTimeout <= 0 || c.DHCP.Retries < 0) {
		return errors.New("dhcp packet_timeout must be positive and retries not negative")
	}
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	return nil
}

// DriverParams returns the reload-driver parameters.
func (c *Config) DriverParams() wifi.DriverParams {
	return wifi.DriverParams{
		Vendor:  c.Driver.Vendor,
		Product: c.Driver.Product,
		Module:  c.Driver.Module,
		Unload:  c.Driver.Unload,
		Load:    c.Driver.Load,
	}
}
