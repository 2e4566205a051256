// Package settings manages the API keys of an account.
package settings

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/service"
)

const (
	// DefaultVersion is the path version used when APIVersion is zero.
	DefaultVersion = 1

	// OwnAccount is the account key meaning the caller's own account.
	OwnAccount = "_"
)

// Config configures the settings service.
type Config struct {
	service.Config

	// AccountKey selects the account whose keys are managed. Empty means
	// OwnAccount.
	AccountKey string
}

// Service calls the /settings endpoints.
type Service struct {
	*service.Base

	accountKey string
}

// New returns a settings Service.
func New(cfg Config) (*Service, error) {
	base, err := service.NewBase("settings", cfg.Config, DefaultVersion)
	if err != nil {
		return nil, err
	}

	key := cfg.AccountKey
	if key == "" {
		key = OwnAccount
	}
	return &Service{Base: base, accountKey: key}, nil
}

// AccountKey returns the account the service operates on.
func (s *Service) AccountKey() string {
	return s.accountKey
}

// APIKey is an account API key, used both as a create/update body and as a
// decoded response.
type APIKey struct {
	XMLName      xml.Name `json:"-" xml:"request"`
	ID           string   `json:"id,omitempty" xml:"-"`
	AccountKey   string   `json:"accountKey,omitempty" xml:"accountKey,omitempty"`
	Name         string   `json:"name,omitempty" xml:"name,omitempty"`
	AllowedIPs   []string `json:"allowedIPs,omitempty" xml:"allowedIPs>allowedIP,omitempty"`
	ValidFrom    string   `json:"validFrom,omitempty" xml:"validFrom,omitempty"`
	ValidTo      string   `json:"validTo,omitempty" xml:"validTo,omitempty"`
	Enabled      *bool    `json:"enabled,omitempty" xml:"enabled,omitempty"`
	PublicAPIKey string   `json:"publicApiKey,omitempty" xml:"-"`
}

// ListFilter narrows ListAPIKeys. Zero fields are not sent.
type ListFilter struct {
	Enabled      *bool
	PublicAPIKey string
	Name         string
}

// Values returns the filter as query parameters.
func (f ListFilter) Values() url.Values {
	q := url.Values{}
	if f.Enabled != nil {
		q.Set("enabled", strconv.FormatBool(*f.Enabled))
	}
	if f.PublicAPIKey != "" {
		q.Set("publicApiKey", f.PublicAPIKey)
	}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	return q
}

func (s *Service) keysPath(key ...string) []string {
	return append([]string{"accounts", s.accountKey, "api-keys"}, key...)
}

// ListAPIKeys lists the API keys matching filter.
func (s *Service) ListAPIKeys(ctx context.Context, filter ListFilter, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method: http.MethodGet,
		Path:   s.keysPath(),
		Query:  filter.Values(),
	}, opts...)
}

// GetAPIKey fetches one API key by its id.
func (s *Service) GetAPIKey(ctx context.Context, key string, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method:   http.MethodGet,
		Path:     s.keysPath(key),
		Required: []service.Param{{Name: "key", Value: key}},
	}, opts...)
}

// CreateAPIKey creates an API key.
func (s *Service) CreateAPIKey(ctx context.Context, params APIKey, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method:   http.MethodPost,
		Path:     s.keysPath(),
		Body:     params,
		Required: []service.Param{{Name: "name", Value: params.Name}},
	}, opts...)
}

// UpdateAPIKey replaces the settings of an API key.
func (s *Service) UpdateAPIKey(ctx context.Context, key string, params APIKey, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method: http.MethodPut,
		Path:   s.keysPath(key),
		Body:   params,
		Required: []service.Param{
			{Name: "key", Value: key},
			{Name: "params", Value: params},
		},
	}, opts...)
}
