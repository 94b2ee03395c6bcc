package config

import (
	"time"

	"semrush-explorer/pkg/api"
	"semrush-explorer/pkg/logger"
)

// SupportedDatabases are the regional databases offered to the operator
var SupportedDatabases = []string{"br", "us", "uk", "de", "fr", "es", "it", "pt", "mx", "ar"}

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Domains DomainsConfig `mapstructure:"domains"`
	Server  ServerConfig  `mapstructure:"server"`
	Logger  logger.Config `mapstructure:"logger"`
}

type APIConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	Key              string `mapstructure:"key"`
	Database         string `mapstructure:"database"`
	DisableTLSVerify bool   `mapstructure:"disable_tls_verify"`
	TimeoutMs        int    `mapstructure:"timeout_ms"`
	RequestDelayMs   int    `mapstructure:"request_delay_ms"`
}

type DomainsConfig struct {
	Main        string   `mapstructure:"main"`
	Competitors []string `mapstructure:"competitors"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// APISettings converts the api section into client settings
func (c *Config) APISettings() api.Settings {
	return api.Settings{
		BaseURL:          c.API.BaseURL,
		APIKey:           c.API.Key,
		Database:         c.API.Database,
		DisableTLSVerify: c.API.DisableTLSVerify,
		Timeout:          time.Duration(c.API.TimeoutMs) * time.Millisecond,
		RequestDelay:     time.Duration(c.API.RequestDelayMs) * time.Millisecond,
	}
}

// AllDomains returns the main domain followed by the competitors
func (c *Config) AllDomains() []string {
	domains := make([]string, 0, len(c.Domains.Competitors)+1)
	if c.Domains.Main != "" {
		domains = append(domains, c.Domains.Main)
	}
	return append(domains, c.Domains.Competitors...)
}

// Clone returns a deep copy
func (c *Config) Clone() *Config {
	clone := *c
	clone.Domains.Competitors = append([]string(nil), c.Domains.Competitors...)
	return &clone
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
	Update(fn func(*Config)) (*Config, error)
}
