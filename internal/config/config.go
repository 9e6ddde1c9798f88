// Package config loads the blackjack HCL configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/logging"
)

// DefaultFile is the config file looked up when none is given
const DefaultFile = "blackjack.hcl"

// Config represents the complete configuration
type Config struct {
	State  StateSettings  `hcl:"state,block"`
	Dealer DealerSettings `hcl:"dealer,block"`
	Server ServerSettings `hcl:"server,block"`
	Log    LogSettings    `hcl:"log,block"`
}

// StateSettings controls where the balance and stats are persisted. When
// PostgresDSN is set it takes precedence over File.
type StateSettings struct {
	File        string `hcl:"file,optional"`
	PostgresDSN string `hcl:"postgres_dsn,optional"`
	Key         string `hcl:"key,optional"`
}

// DealerSettings controls dealer pacing. A delay_ms of 0 or an unset value
// means the default one second; use 1 for near-instant dealing.
type DealerSettings struct {
	DelayMS int `hcl:"delay_ms,optional"`
}

// ServerSettings contains network settings for `blackjack serve`
type ServerSettings struct {
	Address string `hcl:"address,optional"`
	Port    int    `hcl:"port,optional"`
}

// LogSettings contains logging settings
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		State: StateSettings{
			File: "blackjack.json",
			Key:  "default",
		},
		Dealer: DealerSettings{
			DelayMS: 1000,
		},
		Server: ServerSettings{
			Address: "localhost",
			Port:    8080,
		},
		Log: LogSettings{
			Level: "info",
			File:  "blackjack.log",
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults; fields left unset in the file are filled from the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.State.File == "" {
		c.State.File = defaults.State.File
	}
	if c.State.Key == "" {
		c.State.Key = defaults.State.Key
	}
	if c.Dealer.DelayMS == 0 {
		c.Dealer.DelayMS = defaults.Dealer.DelayMS
	}
	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = defaults.Log.File
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Dealer.DelayMS < 0 {
		return fmt.Errorf("dealer delay must not be negative: %d", c.Dealer.DelayMS)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.State.File == "" && c.State.PostgresDSN == "" {
		return fmt.Errorf("state needs a file or a postgres_dsn")
	}
	return nil
}

// ServerAddress returns the full listen address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// DealerDelay returns the pause between dealer draws
func (c *Config) DealerDelay() time.Duration {
	return time.Duration(c.Dealer.DelayMS) * time.Millisecond
}
