package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"semrush-explorer/pkg/api"
)

var ErrInvalidConfig = errors.New("invalid config")

type manager struct {
	mu         sync.RWMutex
	config     *Config
	viper      *viper.Viper
	configPath string
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

// Load reads configPath (optional) and the environment. An empty path
// loads defaults and environment variables only.
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.configPath = configPath
	m.setupViper(configPath)

	config, err := m.read()
	if err != nil {
		return nil, err
	}

	m.config = config
	return config.Clone(), nil
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded")
	}

	config, err := m.read()
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	m.config = config
	return nil
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return nil
	}
	return m.config.Clone()
}

// Update applies fn to a copy of the current config and keeps it if it
// validates. The file on disk is not rewritten.
func (m *manager) Update(fn func(*Config)) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return nil, fmt.Errorf("config not loaded")
	}

	next := m.config.Clone()
	fn(next)
	normalize(next)

	if err := validateConfig(next); err != nil {
		return nil, err
	}

	m.config = next
	return next.Clone(), nil
}

func (m *manager) setupViper(configPath string) {
	m.viper = viper.New()

	m.viper.SetDefault("api.base_url", api.DefaultBaseURL)
	m.viper.SetDefault("api.key", "")
	m.viper.SetDefault("api.database", "br")
	m.viper.SetDefault("api.disable_tls_verify", false)
	m.viper.SetDefault("api.timeout_ms", int(api.DefaultTimeout.Milliseconds()))
	m.viper.SetDefault("api.request_delay_ms", int(api.DefaultRequestDelay.Milliseconds()))
	m.viper.SetDefault("domains.main", "")
	m.viper.SetDefault("domains.competitors", []string{})
	m.viper.SetDefault("server.host", "127.0.0.1")
	m.viper.SetDefault("server.port", 8501)
	m.viper.SetDefault("logger.level", "warn")
	m.viper.SetDefault("logger.format", "json")
	m.viper.SetDefault("logger.output", "stderr")

	m.viper.SetEnvPrefix("SEMRUSH")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
	// DISABLE_SSL_VERIFY is the historical name of the TLS toggle
	_ = m.viper.BindEnv("api.disable_tls_verify", "SEMRUSH_API_DISABLE_TLS_VERIFY", "DISABLE_SSL_VERIFY")

	if configPath != "" {
		m.viper.SetConfigFile(configPath)
	}
}

func (m *manager) read() (*Config, error) {
	if m.configPath != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalize(&config)
	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func normalize(config *Config) {
	config.API.Database = strings.ToLower(strings.TrimSpace(config.API.Database))
	config.API.Key = strings.TrimSpace(config.API.Key)
	config.Domains.Main = strings.TrimSpace(config.Domains.Main)

	competitors := make([]string, 0, len(config.Domains.Competitors))
	for _, c := range config.Domains.Competitors {
		// env values arrive as one comma or newline separated string
		for _, part := range strings.FieldsFunc(c, func(r rune) bool { return r == ',' || r == '\n' }) {
			if part = strings.TrimSpace(part); part != "" {
				competitors = append(competitors, part)
			}
		}
	}
	config.Domains.Competitors = competitors
}

func validateConfig(config *Config) error {
	if !slices.Contains(SupportedDatabases, config.API.Database) {
		return fmt.Errorf("%w: unsupported database %q", ErrInvalidConfig, config.API.Database)
	}

	base, err := url.Parse(config.API.BaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return fmt.Errorf("%w: base_url must be an absolute http(s) URL", ErrInvalidConfig)
	}

	if config.API.TimeoutMs <= 0 {
		return fmt.Errorf("%w: timeout_ms must be positive", ErrInvalidConfig)
	}

	if config.API.RequestDelayMs < 0 {
		return fmt.Errorf("%w: request_delay_ms cannot be negative", ErrInvalidConfig)
	}

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("%w: invalid server port %d", ErrInvalidConfig, config.Server.Port)
	}

	return nil
}
