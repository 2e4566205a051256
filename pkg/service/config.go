package service

import (
	"fmt"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp-forge/infobip-go/pkg/apierror"
	"github.com/hashicorp-forge/infobip-go/pkg/auth"
)

// DefaultBaseURL is the provider's production API root.
const DefaultBaseURL = "https://api.infobip.com"

const (
	// MinVersion is the lowest API path version.
	MinVersion = 1

	// MaxVersion is the highest API path version.
	MaxVersion = 2
)

// Config contains the endpoint configuration shared by every service.
//
// Example configuration:
//
//	service.Config{
//	  BaseURL:    "https://xyz.api.infobip.com",
//	  APIVersion: 2,
//	  Format:     "json",
//	}
type Config struct {
	// BaseURL is the API root. Default: DefaultBaseURL.
	BaseURL string

	// APIVersion is the path version used when a call does not override it.
	// Zero selects the service's default version.
	APIVersion int

	// Format is the request and response body format, "json" or "xml".
	// Empty selects "json".
	Format string

	// HTTPClient is the transport used for requests. Default:
	// http.DefaultClient.
	HTTPClient auth.Doer

	// Logger receives debug traces of requests. Default: a null logger.
	Logger hclog.Logger
}

// DefaultConfig returns a Config with the production base URL and JSON bodies.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Format:  "json",
	}
}

// Validate checks the configuration and returns every problem found.
// Version problems match apierror.ErrInvalidVersion and format problems
// apierror.ErrInvalidContentType.
func (c Config) Validate() error {
	var result *multierror.Error

	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		switch {
		case err != nil:
			result = multierror.Append(result, fmt.Errorf("invalid base url: %w", err))
		case u.Scheme != "http" && u.Scheme != "https":
			result = multierror.Append(result,
				fmt.Errorf("base url must use http or https scheme, got: %q", u.Scheme))
		}
	}

	if c.APIVersion != 0 {
		if err := validation.Validate(c.APIVersion,
			validation.Min(MinVersion), validation.Max(MaxVersion)); err != nil {
			result = multierror.Append(result,
				fmt.Errorf("%w: %d (%v)", apierror.ErrInvalidVersion, c.APIVersion, err))
		}
	}

	if err := validation.Validate(c.Format, validation.In("json", "xml")); err != nil {
		result = multierror.Append(result,
			fmt.Errorf("%w: %q (must be json or xml)", apierror.ErrInvalidContentType, c.Format))
	}

	return result.ErrorOrNil()
}

// withDefaults fills unset fields. defaultVersion is the service's own
// default path version.
func (c Config) withDefaults(defaultVersion int) Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.APIVersion == 0 {
		c.APIVersion = defaultVersion
	}
	if c.Format == "" {
		c.Format = "json"
	}
	if c.Logger == nil {
		c.Logger = hclog.NewNullLogger()
	}
	return c
}
