// Package config loads the liarsdice server configuration from an HCL file
// and applies LIARSDICE_* environment overrides on top.
package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "liarsdice"

// Config represents the complete configuration
type Config struct {
	Server ServerSettings
	Game   GameSettings
}

// fileConfig is the HCL layout. Both blocks may be omitted.
type fileConfig struct {
	Server *ServerSettings `hcl:"server,block"`
	Game   *GameSettings   `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address        string   `hcl:"address,optional"`
	Port           int      `hcl:"port,optional"`
	LogLevel       string   `hcl:"log_level,optional"`
	AllowedOrigins []string `hcl:"allowed_origins,optional"`
	AccessLog      bool     `hcl:"access_log,optional"`
}

// GameSettings contains match configuration. Dice and round counts are
// fixed and deliberately absent.
type GameSettings struct {
	Seed                *int64 `hcl:"seed,optional"`
	RerollDistinctHands *bool  `hcl:"reroll_distinct_hands,optional"`
}

// overrides are read from the environment, e.g. LIARSDICE_PORT
type overrides struct {
	Address  string `envconfig:"address"`
	Port     int    `envconfig:"port"`
	LogLevel string `envconfig:"log_level"`
	Seed     *int64 `envconfig:"seed"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server: ServerSettings{
			Address:        "localhost",
			Port:           8080,
			LogLevel:       "info",
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load reads filename if it exists, fills defaults and applies environment
// overrides
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			parsed, err := parseFile(filename)
			if err != nil {
				return nil, err
			}
			cfg = parsed
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func parseFile(filename string) (*Config, error) {
	parser := hclparse.NewParser()
	parsed, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var file fileConfig
	diags = gohcl.DecodeBody(parsed.Body, nil, &file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if file.Game != nil {
		cfg.Game = *file.Game
	}
	if s := file.Server; s != nil {
		if s.Address != "" {
			cfg.Server.Address = s.Address
		}
		if s.Port != 0 {
			cfg.Server.Port = s.Port
		}
		if s.LogLevel != "" {
			cfg.Server.LogLevel = s.LogLevel
		}
		if len(s.AllowedOrigins) > 0 {
			cfg.Server.AllowedOrigins = s.AllowedOrigins
		}
		cfg.Server.AccessLog = s.AccessLog
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env overrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	if env.Address != "" {
		c.Server.Address = env.Address
	}
	if env.Port != 0 {
		c.Server.Port = env.Port
	}
	if env.LogLevel != "" {
		c.Server.LogLevel = env.LogLevel
	}
	if env.Seed != nil {
		c.Game.Seed = env.Seed
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Server.LogLevel, err)
	}
	return nil
}

// Address returns the full listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// RerollDistinctHands reports whether full hands with no repeated face are
// rerolled. On unless the file turns it off.
func (c *Config) RerollDistinctHands() bool {
	if c.Game.RerollDistinctHands == nil {
		return true
	}
	return *c.Game.RerollDistinctHands
}

// Level returns the parsed log level
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.Server.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
