// Package config loads the CLI configuration from an HCL file, an optional
// .env file and INFOBIP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/database"
	"github.com/hashicorp-forge/infobip-go/pkg/history"
	"github.com/hashicorp-forge/infobip-go/pkg/service"
	"github.com/hashicorp-forge/infobip-go/pkg/settings"
	"github.com/hashicorp-forge/infobip-go/pkg/sms"
)

// Config is the CLI configuration.
//
// Example configuration:
//
//	base_url = "https://xyz.api.infobip.com"
//	format   = "json"
//
//	credential {
//	  kind    = "App"
//	  api_key = "..."
//	}
//
//	sms {
//	  api_version       = 2
//	  default_sender_id = "InfoSMS"
//	}
//
//	history {
//	  driver = "sqlite"
//	  dsn    = "infobip-history.db"
//	}
type Config struct {
	// BaseURL is the API root. Default: service.DefaultBaseURL.
	BaseURL string `hcl:"base_url,optional"`

	// Format is "json" or "xml". Default: "json".
	Format string `hcl:"format,optional"`

	Credential *Credential `hcl:"credential,block"`
	SMS        *SMS        `hcl:"sms,block"`
	TwoFA      *TwoFA      `hcl:"twofa,block"`
	Settings   *Settings   `hcl:"settings,block"`
	History    *History    `hcl:"history,block"`
}

// Credential configures the identity used for every request. Which secrets
// are required depends on Kind.
type Credential struct {
	// Kind is Basic, App (or ApiKey), or IBSSO (or Token).
	Kind     string `hcl:"kind"`
	Username string `hcl:"username,optional"`
	Password string `hcl:"password,optional"`
	APIKey   string `hcl:"api_key,optional"`
	Token    string `hcl:"token,optional"`
}

// SMS configures the SMS service.
type SMS struct {
	APIVersion      int    `hcl:"api_version,optional"`
	DefaultSenderID string `hcl:"default_sender_id,optional"`
}

// TwoFA configures the 2FA service.
type TwoFA struct {
	APIVersion int `hcl:"api_version,optional"`
}

// Settings configures the settings service.
type Settings struct {
	APIVersion int    `hcl:"api_version,optional"`
	AccountKey string `hcl:"account_key,optional"`
}

// History configures the local send history. Without this block nothing is
// recorded.
type History struct {
	Driver string `hcl:"driver,optional"`
	DSN    string `hcl:"dsn"`
}

// Default returns an empty configuration with the JSON format.
func Default() *Config {
	return &Config{Format: "json"}
}

// Load decodes the HCL file at path from fsys. The path must end in .hcl
// (or .json for the JSON variant of the syntax). An empty path returns the
// default configuration. Environment overrides are applied with lookup, which
// may be nil.
func Load(fsys afero.Fs, path string, lookup LookupFunc) (*Config, error) {
	cfg := Default()

	if path != "" {
		src, err := afero.ReadFile(fsys, path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}

		if err := hclsimple.Decode(path, src, nil, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
	}

	if lookup != nil {
		cfg.ApplyEnv(lookup)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv reads KEY=VALUE pairs from path on fsys and exports the ones
// not already set in the process environment. A missing file is ignored.
func LoadDotEnv(fsys afero.Fs, path string) error {
	f, err := fsys.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open env file: %w", err)
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse env file %s: %w", path, err)
	}

	for k, v := range env {
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("failed to set %s: %w", k, err)
		}
	}
	return nil
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := c.serviceConfig(0, nil).Validate(); err != nil {
		result = multierror.Append(result, err)
	}

	for name, v := range map[string]int{
		"sms":      c.smsBlock().APIVersion,
		"twofa":    c.twoFABlock().APIVersion,
		"settings": c.settingsBlock().APIVersion,
	} {
		if v == 0 {
			continue
		}
		if err := validation.Validate(v, validation.Min(service.MinVersion), validation.Max(service.MaxVersion)); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s.api_version: %w", name, err))
		}
	}

	if c.Credential != nil {
		if err := c.Credential.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("credential: %w", err))
		}
	}

	if c.History != nil {
		if err := validation.ValidateStruct(c.History,
			validation.Field(&c.History.Driver, validation.In(database.DriverSQLite, database.DriverPostgres)),
			validation.Field(&c.History.DSN, validation.Required),
		); err != nil {
			result = multierror.Append(result, fmt.Errorf("history: %w", err))
		}
	}

	return result.ErrorOrNil()
}

// Validate checks that the secrets required by the credential kind are set.
func (c *Credential) Validate() error {
	kind, err := auth.ParseKind(c.Kind)
	if err != nil {
		return err
	}

	switch kind {
	case auth.KindBasic:
		return validation.ValidateStruct(c,
			validation.Field(&c.Username, validation.Required),
			validation.Field(&c.Password, validation.Required),
		)
	case auth.KindAPIKey:
		return validation.ValidateStruct(c, validation.Field(&c.APIKey, validation.Required))
	default:
		return validation.ValidateStruct(c, validation.Field(&c.Token, validation.Required))
	}
}

// Build returns the credential described by c.
func (c *Credential) Build() (*auth.Credential, error) {
	kind, err := auth.ParseKind(c.Kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case auth.KindBasic:
		return auth.NewCredential(kind, c.Username, c.Password)
	case auth.KindAPIKey:
		return auth.NewCredential(kind, c.APIKey)
	default:
		return auth.NewCredential(kind, c.Token)
	}
}

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// Environment variables that override file values.
const (
	EnvBaseURL         = "INFOBIP_BASE_URL"
	EnvFormat          = "INFOBIP_FORMAT"
	EnvAuthKind        = "INFOBIP_AUTH_KIND"
	EnvUsername        = "INFOBIP_USERNAME"
	EnvPassword        = "INFOBIP_PASSWORD"
	EnvAPIKey          = "INFOBIP_API_KEY"
	EnvToken           = "INFOBIP_TOKEN"
	EnvSMSVersion      = "INFOBIP_SMS_API_VERSION"
	EnvSenderID        = "INFOBIP_SENDER_ID"
	EnvTwoFAVersion    = "INFOBIP_2FA_API_VERSION"
	EnvSettingsVersion = "INFOBIP_SETTINGS_API_VERSION"
	EnvAccountKey      = "INFOBIP_ACCOUNT_KEY"
	EnvHistoryDriver   = "INFOBIP_HISTORY_DRIVER"
	EnvHistoryDSN      = "INFOBIP_HISTORY_DSN"
)

// ApplyEnv overrides configuration values with the INFOBIP_* variables
// found by lookup. Setting INFOBIP_API_KEY or INFOBIP_TOKEN without
// INFOBIP_AUTH_KIND selects the matching kind.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			} else {
				*dst = -1
			}
		}
	}

	str(EnvBaseURL, &c.BaseURL)
	str(EnvFormat, &c.Format)

	if c.Credential == nil {
		c.Credential = &Credential{}
	}
	str(EnvUsername, &c.Credential.Username)
	str(EnvPassword, &c.Credential.Password)
	str(EnvAPIKey, &c.Credential.APIKey)
	str(EnvToken, &c.Credential.Token)
	str(EnvAuthKind, &c.Credential.Kind)
	if c.Credential.Kind == "" {
		switch {
		case c.Credential.APIKey != "":
			c.Credential.Kind = auth.KindAPIKey.String()
		case c.Credential.Token != "":
			c.Credential.Kind = auth.KindToken.String()
		case c.Credential.Username != "":
			c.Credential.Kind = auth.KindBasic.String()
		default:
			c.Credential = nil
		}
	}

	smsBlock, twoFABlock, settingsBlock := c.smsBlock(), c.twoFABlock(), c.settingsBlock()
	num(EnvSMSVersion, &smsBlock.APIVersion)
	str(EnvSenderID, &smsBlock.DefaultSenderID)
	num(EnvTwoFAVersion, &twoFABlock.APIVersion)
	num(EnvSettingsVersion, &settingsBlock.APIVersion)
	str(EnvAccountKey, &settingsBlock.AccountKey)
	c.SMS, c.TwoFA, c.Settings = smsBlock, twoFABlock, settingsBlock

	var h History
	if c.History != nil {
		h = *c.History
	}
	str(EnvHistoryDriver, &h.Driver)
	str(EnvHistoryDSN, &h.DSN)
	if h.DSN != "" || h.Driver != "" {
		c.History = &h
	}
}

func (c *Config) smsBlock() *SMS {
	if c.SMS == nil {
		return &SMS{}
	}
	return c.SMS
}

func (c *Config) twoFABlock() *TwoFA {
	if c.TwoFA == nil {
		return &TwoFA{}
	}
	return c.TwoFA
}

func (c *Config) settingsBlock() *Settings {
	if c.Settings == nil {
		return &Settings{}
	}
	return c.Settings
}

func (c *Config) serviceConfig(version int, log hclog.Logger) service.Config {
	return service.Config{
		BaseURL:    c.BaseURL,
		APIVersion: version,
		Format:     c.Format,
		Logger:     log,
	}
}

// StatusConfig returns the status service configuration.
func (c *Config) StatusConfig(log hclog.Logger) service.Config {
	return c.serviceConfig(0, log)
}

// SMSConfig returns the SMS service configuration.
func (c *Config) SMSConfig(log hclog.Logger) sms.Config {
	b := c.smsBlock()
	return sms.Config{
		Config:          c.serviceConfig(b.APIVersion, log),
		DefaultSenderID: b.DefaultSenderID,
	}
}

// TwoFAConfig returns the 2FA service configuration.
func (c *Config) TwoFAConfig(log hclog.Logger) service.Config {
	return c.serviceConfig(c.twoFABlock().APIVersion, log)
}

// SettingsConfig returns the settings service configuration.
func (c *Config) SettingsConfig(log hclog.Logger) settings.Config {
	b := c.settingsBlock()
	return settings.Config{
		Config:     c.serviceConfig(b.APIVersion, log),
		AccountKey: b.AccountKey,
	}
}

// HistoryConfig returns the history store configuration, or nil if history
// is not configured.
func (c *Config) HistoryConfig() *history.Config {
	if c.History == nil {
		return nil
	}
	driver := c.History.Driver
	if driver == "" {
		driver = database.DriverSQLite
	}
	return &history.Config{Driver: driver, DSN: c.History.DSN}
}
