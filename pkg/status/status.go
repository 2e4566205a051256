// Package status checks the availability of the provider's API.
package status

import (
	"context"
	"net/http"

	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/service"
)

// Service calls the unversioned status endpoint.
type Service struct {
	*service.Base
}

// New returns a status Service. cfg.APIVersion is accepted for uniformity
// but the status path carries no version.
func New(cfg service.Config) (*Service, error) {
	base, err := service.NewBase("", cfg, service.MinVersion)
	if err != nil {
		return nil, err
	}
	return &Service{Base: base}, nil
}

// Result is the decoded body of a status check.
type Result struct {
	Status string `json:"status"`
}

// Check issues GET /status.
func (s *Service) Check(ctx context.Context, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method: http.MethodGet,
		Path:   []string{"status"},
	}, opts...)
}
