// Package config loads service configuration from a YAML or JSON file with
// optional environment overrides.
package config

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server  ServerConfig  `json:"server"`
	Storage StorageConfig `json:"storage"`
	Auth    AuthConfig    `json:"auth"`
	Audit   AuditConfig   `json:"audit"`
	Logging LoggingConfig `json:"logging"`
}

type ServerConfig struct {
	Addr            string `json:"addr"`
	ReadTimeoutSec  int    `json:"readTimeoutSec"`
	WriteTimeoutSec int    `json:"writeTimeoutSec"`
	ShutdownSec     int    `json:"shutdownSec"`
}

type StorageConfig struct {
	DSN string `json:"dsn"`
}

type AuthConfig struct {
	// TokenSecret signs and verifies bearer tokens.
	TokenSecret string `json:"tokenSecret"`
	// NicknameKey is the hex encoded 32 byte key used to decrypt agent
	// nicknames for display.
	NicknameKey string `json:"nicknameKey"`
}

type AuditConfig struct {
	Buffer int `json:"buffer"`
}

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

func (c *ServerConfig) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeoutSec <= 0 {
		c.ReadTimeoutSec = 15
	}
	if c.WriteTimeoutSec <= 0 {
		c.WriteTimeoutSec = 30
	}
	if c.ShutdownSec <= 0 {
		c.ShutdownSec = 10
	}
}

func (c *StorageConfig) setDefaults() {
	if c.DSN == "" {
		c.DSN = "file:restplanning.db"
	}
}

func (c *AuditConfig) setDefaults() {
	if c.Buffer <= 0 {
		c.Buffer = 256
	}
}

func (c *LoggingConfig) setDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
}

func (c *AuthConfig) validate() error {
	if strings.TrimSpace(c.TokenSecret) == "" {
		return fmt.Errorf("auth.tokenSecret is required")
	}
	key, err := hex.DecodeString(c.NicknameKey)
	if err != nil {
		return fmt.Errorf("auth.nicknameKey is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return fmt.Errorf("auth.nicknameKey must decode to 32 bytes, got %d", len(key))
	}
	return nil
}

func (c *LoggingConfig) validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format %q is not recognized", c.Format)
	}
	return nil
}

// NicknameKeyBytes decodes the configured nickname key. Validate must have
// succeeded first.
func (c AuthConfig) NicknameKeyBytes() []byte {
	key, _ := hex.DecodeString(c.NicknameKey)
	return key
}

// Load reads the configuration file at path, applies RP_ prefixed
// environment overrides, defaults, and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. RP_AUTH__TOKENSECRET. The callback
	// yields dot-delimited keys, so the provider delimiter must be "." for
	// them to land in the nested sections.
	if err := k.Load(env.Provider("RP_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "rp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Server.setDefaults()
	cfg.Storage.setDefaults()
	cfg.Audit.setDefaults()
	cfg.Logging.setDefaults()
	if err := cfg.Auth.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
