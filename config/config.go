package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Account stores the IMAP settings for a single support mailbox.
type Account struct {
	ID              string `mapstructure:"id" yaml:"id"`
	Name            string `mapstructure:"name" yaml:"name"`
	Email           string `mapstructure:"email" yaml:"email"`
	Password        string `mapstructure:"password" yaml:"password"`
	ServiceProvider string `mapstructure:"service_provider" yaml:"service_provider"` // "gmail", "icloud", or "custom"
	// FetchEmail narrows a shared mailbox to messages addressed to one alias.
	// If empty, it defaults to Email when accounts are added.
	FetchEmail string `mapstructure:"fetch_email" yaml:"fetch_email,omitempty"`

	// Custom server settings (used when ServiceProvider is "custom")
	IMAPServer string `mapstructure:"imap_server" yaml:"imap_server,omitempty"`
	IMAPPort   int    `mapstructure:"imap_port" yaml:"imap_port,omitempty"`
}

// Config stores rendering preferences and the configured accounts.
type Config struct {
	MaxURLLength     int       `mapstructure:"max_url_length" yaml:"max_url_length"`
	ShowSourceToggle bool      `mapstructure:"show_source_toggle" yaml:"show_source_toggle"`
	DisableImages    bool      `mapstructure:"disable_images" yaml:"disable_images"`
	CacheSize        int       `mapstructure:"cache_size" yaml:"cache_size"`
	Accounts         []Account `mapstructure:"accounts" yaml:"accounts"`
}

const envPrefix = "TICKETVIEW"

// GetIMAPServer returns the IMAP server address for the account.
func (a *Account) GetIMAPServer() string {
	switch a.ServiceProvider {
	case "gmail":
		return "imap.gmail.com"
	case "icloud":
		return "imap.mail.me.com"
	case "custom":
		return a.IMAPServer
	default:
		return ""
	}
}

// GetIMAPPort returns the IMAP port for the account.
func (a *Account) GetIMAPPort() int {
	if a.ServiceProvider == "custom" && a.IMAPPort != 0 {
		return a.IMAPPort
	}
	return 993
}

// Dir returns the path to the configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ticketview"), nil
}

// DefaultPath returns ~/.config/ticketview/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func defaultConfig() *Config {
	return &Config{
		MaxURLLength:     50,
		ShowSourceToggle: true,
		CacheSize:        256,
		Accounts:         []Account{},
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	d := defaultConfig()
	v.SetDefault("max_url_length", d.MaxURLLength)
	v.SetDefault("show_source_toggle", d.ShowSourceToggle)
	v.SetDefault("disable_images", d.DisableImages)
	v.SetDefault("cache_size", d.CacheSize)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return v
}

// Load reads the configuration at path. A missing file yields the defaults,
// still overridden by TICKETVIEW_* environment variables.
func Load(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	for i := range cfg.Accounts {
		cfg.Accounts[i].normalize()
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("max_url_length", cfg.MaxURLLength)
	v.Set("show_source_toggle", cfg.ShowSourceToggle)
	v.Set("disable_images", cfg.DisableImages)
	v.Set("cache_size", cfg.CacheSize)
	v.Set("accounts", cfg.Accounts)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return os.Chmod(path, 0600)
}

func (a *Account) normalize() {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	// Ensure FetchEmail defaults to the login Email if not explicitly set.
	if a.FetchEmail == "" && a.Email != "" {
		a.FetchEmail = a.Email
	}
}

// AddAccount adds a new account to the configuration.
func (c *Config) AddAccount(account Account) {
	account.normalize()
	c.Accounts = append(c.Accounts, account)
}

// RemoveAccount removes an account by its ID.
func (c *Config) RemoveAccount(id string) bool {
	for i, acc := range c.Accounts {
		if acc.ID == id {
			c.Accounts = append(c.Accounts[:i], c.Accounts[i+1:]...)
			return true
		}
	}
	return false
}

// FindAccount returns the account whose ID, name or email matches key.
func (c *Config) FindAccount(key string) *Account {
	for i := range c.Accounts {
		acc := &c.Accounts[i]
		if acc.ID == key || acc.Name == key || acc.Email == key {
			return acc
		}
	}
	return nil
}

// HasAccounts returns true if there are any configured accounts.
func (c *Config) HasAccounts() bool {
	return len(c.Accounts) > 0
}

// GetFirstAccount returns the first account or nil if none exist.
func (c *Config) GetFirstAccount() *Account {
	if len(c.Accounts) > 0 {
		return &c.Accounts[0]
	}
	return nil
}
