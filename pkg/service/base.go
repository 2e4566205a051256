// Package service implements the behavior shared by every endpoint group:
// the authorize step, argument presence checks, per-call version resolution,
// URL construction, and normalization of remote failures.
//
// Endpoint packages (status, sms, twofa, settings) embed *Base and describe
// each call as a Request:
//
//	resp, err := s.Do(ctx, service.Request{
//		Method:   http.MethodGet,
//		Path:     []string{"applications", appID},
//		Required: []service.Param{{Name: "applicationId", Value: appID}},
//	}, opts...)
package service

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync/atomic"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/infobip-go/pkg/apierror"
	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/codec"
)

// Base holds a service's immutable endpoint configuration and the client
// attached by Authorize. It is safe for concurrent use.
type Base struct {
	prefix  string
	baseURL string
	version int
	format  codec.Format
	doer    auth.Doer
	logger  hclog.Logger

	client atomic.Pointer[auth.Client]
}

// NewBase validates cfg and returns a Base for the endpoints under
// /{prefix}/{version}. An empty prefix means unversioned paths directly under
// the base URL.
func NewBase(prefix string, cfg Config, defaultVersion int) (*Base, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s service config: %w", name(prefix), err)
	}
	cfg = cfg.withDefaults(defaultVersion)

	return &Base{
		prefix:  prefix,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		version: cfg.APIVersion,
		format:  codec.ParseFormat(cfg.Format),
		doer:    cfg.HTTPClient,
		logger:  cfg.Logger.Named(name(prefix)),
	}, nil
}

func name(prefix string) string {
	if prefix == "" {
		return "status"
	}
	return prefix
}

// Authorize attaches a client derived from cred. Calling it again replaces
// the identity used by subsequent calls.
func (b *Base) Authorize(cred *auth.Credential) error {
	if cred == nil {
		return apierror.MissingParameter("credential")
	}

	opts := []auth.ClientOption{auth.WithLogger(b.logger)}
	if b.doer != nil {
		opts = append(opts, auth.WithDoer(b.doer))
	}
	b.client.Store(auth.DeriveClient(cred, b.format, opts...))

	b.logger.Debug("authorized", "authorization", cred.Masked())
	return nil
}

// Authorized reports whether Authorize has been called.
func (b *Base) Authorized() bool {
	return b.client.Load() != nil
}

// Client returns the attached client, or apierror.ErrUnauthorized.
func (b *Base) Client() (*auth.Client, error) {
	c := b.client.Load()
	if c == nil {
		return nil, apierror.ErrUnauthorized
	}
	return c, nil
}

// BaseURL returns the configured API root without a trailing slash.
func (b *Base) BaseURL() string {
	return b.baseURL
}

// APIVersion returns the stored path version. Per-call overrides never
// change it.
func (b *Base) APIVersion() int {
	return b.version
}

// Format returns the configured body format.
func (b *Base) Format() codec.Format {
	return b.format
}

// Logger returns the service logger.
func (b *Base) Logger() hclog.Logger {
	return b.logger
}

// ResolveVersion returns the version for one call: the override from opts if
// it is non-zero, the stored version otherwise.
func (b *Base) ResolveVersion(opts ...CallOption) (int, error) {
	o := newCallOptions(opts)
	if o.version == 0 {
		return b.version, nil
	}
	if o.version < MinVersion || o.version > MaxVersion {
		return 0, fmt.Errorf("%w: %d (must be between %d and %d)",
			apierror.ErrInvalidVersion, o.version, MinVersion, MaxVersion)
	}
	return o.version, nil
}

// URL builds the absolute URL for path under the given version. Path
// segments are escaped; empty trailing segments are dropped.
func (b *Base) URL(version int, path []string, query url.Values) string {
	parts := []string{b.baseURL}
	if b.prefix != "" {
		parts = append(parts, b.prefix, strconv.Itoa(version))
	}
	for _, p := range path {
		if p == "" {
			continue
		}
		parts = append(parts, url.PathEscape(p))
	}

	u := strings.Join(parts, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Param is a named argument subject to a presence check.
type Param struct {
	Name  string
	Value any
}

// Request describes one endpoint call.
type Request struct {
	Method string

	// Path segments after /{prefix}/{version}.
	Path []string

	// Query holds optional query parameters; empty values should be omitted
	// by the caller.
	Query url.Values

	// Body is encoded in the service format. Nil sends no body.
	Body any

	// Required arguments, checked in order after the authorization check.
	Required []Param
}

// Do runs the uniform call contract: authorization check, presence checks,
// version resolution, a single request, and normalization of remote failures.
func (b *Base) Do(ctx context.Context, req Request, opts ...CallOption) (*auth.Response, error) {
	client, err := b.Client()
	if err != nil {
		return nil, err
	}

	if err := Require(req.Required...); err != nil {
		return nil, err
	}

	version, err := b.ResolveVersion(opts...)
	if err != nil {
		return nil, err
	}

	u := b.URL(version, req.Path, req.Query)
	resp, err := client.Do(ctx, req.Method, u, req.Body)
	if err != nil {
		b.logger.Debug("request failed", "method", req.Method, "url", u, "error", err)
		return nil, apierror.Surface(err)
	}

	return resp, nil
}

// Require returns a *apierror.MissingParameterError for the first parameter
// whose value is nil, zero or empty.
func Require(params ...Param) error {
	for _, p := range params {
		if err := validation.Validate(p.Value, validation.Required); err != nil || isZeroStruct(p.Value) {
			return apierror.MissingParameter(p.Name)
		}
	}
	return nil
}

// isZeroStruct reports whether v is a struct with every field unset. The
// Required rule treats any struct other than time.Time as present.
func isZeroStruct(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Struct && rv.IsZero()
}
