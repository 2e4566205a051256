package base

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/infobip-go/internal/config"
	"github.com/hashicorp-forge/infobip-go/pkg/apierror"
	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/history"
	"github.com/hashicorp-forge/infobip-go/pkg/service"
)

// APIFlags are the flags shared by every command that calls the provider.
type APIFlags struct {
	Config     string
	EnvFile    string
	Output     string
	APIVersion int
}

// Register adds the shared flags to f.
func (a *APIFlags) Register(f *FlagSet) {
	f.StringVar(&a.Config, "config", "",
		"Path to an HCL config file. Values can be overridden with INFOBIP_* environment variables.")
	f.StringVar(&a.EnvFile, "env-file", ".env",
		"Path to a .env file with INFOBIP_* variables. Ignored if missing.")
	f.StringVar(&a.Output, "output", "json", "Output format: json or yaml.")
	f.IntVar(&a.APIVersion, "api-version", 0,
		"API path version for this call. 0 uses the configured version.")
}

// CallOptions returns the per-call options selected by the flags.
func (a *APIFlags) CallOptions() []service.CallOption {
	return []service.CallOption{service.WithVersion(a.APIVersion)}
}

// LoadConfig loads the .env file and the configuration named by flags.
func (c *Command) LoadConfig(flags *APIFlags) (*config.Config, error) {
	if flags.Output != "json" && flags.Output != "yaml" {
		return nil, fmt.Errorf("output must be json or yaml, got %q", flags.Output)
	}

	if flags.EnvFile != "" {
		if err := config.LoadDotEnv(c.FS, flags.EnvFile); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(c.FS, flags.Config, c.Env)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Authorizer is implemented by every service.
type Authorizer interface {
	Authorize(cred *auth.Credential) error
}

// Authorize attaches the configured credential to svc.
func (c *Command) Authorize(svc Authorizer, cfg *config.Config) error {
	if cfg.Credential == nil {
		return errors.New("no credential configured: set a credential block or INFOBIP_API_KEY, INFOBIP_TOKEN or INFOBIP_USERNAME/INFOBIP_PASSWORD")
	}
	cred, err := cfg.Credential.Build()
	if err != nil {
		return fmt.Errorf("invalid credential: %w", err)
	}
	return svc.Authorize(cred)
}

// WithTransport sets the command's HTTP client on a service config.
func (c *Command) WithTransport(cfg service.Config) service.Config {
	cfg.HTTPClient = c.HTTPClient
	return cfg
}

// OpenHistory opens the configured history store, or returns nil if none
// is configured.
func (c *Command) OpenHistory(cfg *config.Config) (*history.Store, error) {
	hc := cfg.HistoryConfig()
	if hc == nil {
		return nil, nil
	}
	return history.Open(*hc, c.Log)
}

// RecordingHistory opens the history store for commands that record what
// they send. A store that fails to open is logged as a warning and nil is
// returned, so recording never stops a provider call.
func (c *Command) RecordingHistory(cfg *config.Config) *history.Store {
	store, err := c.OpenHistory(cfg)
	if err != nil {
		c.Log.Warn("failed to open history", "error", err)
		return nil
	}
	return store
}

// Render writes v to standard output in the given format.
func (c *Command) Render(format string, v any) error {
	out, err := encode(format, v)
	if err != nil {
		return err
	}
	c.UI.Output(out)
	return nil
}

// Fail reports err on standard error and returns the exit code 1. Remote
// failures are rendered as their normalized payload.
func (c *Command) Fail(format string, err error) int {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		if _, isErr := apiErr.Payload.(error); !isErr {
			if out, encErr := encode(format, apiErr.Payload); encErr == nil {
				c.UI.Error(fmt.Sprintf("request failed (status %d):\n%s", apiErr.StatusCode(), out))
				return 1
			}
		}
	}

	c.UI.Error(fmt.Sprintf("error: %v", err))
	return 1
}

func encode(format string, v any) (string, error) {
	switch format {
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to encode yaml output: %w", err)
		}
		return strings.TrimSuffix(string(b), "\n"), nil
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode json output: %w", err)
		}
		return string(b), nil
	}
}
