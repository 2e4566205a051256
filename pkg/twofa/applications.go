package twofa

import (
	"context"
	"encoding/xml"
	"net/http"

	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/service"
)

// ApplicationConfig holds the PIN policy of an application. Zero fields are
// left to the provider's defaults.
type ApplicationConfig struct {
	PinAttempts                   int    `json:"pinAttempts,omitempty" xml:"pinAttempts,omitempty"`
	AllowMultiplePinVerifications *bool  `json:"allowMultiplePinVerifications,omitempty" xml:"allowMultiplePinVerifications,omitempty"`
	PinTimeToLive                 string `json:"pinTimeToLive,omitempty" xml:"pinTimeToLive,omitempty"`
	VerifyPinLimit                string `json:"verifyPinLimit,omitempty" xml:"verifyPinLimit,omitempty"`
	SendPinPerApplicationLimit    string `json:"sendPinPerApplicationLimit,omitempty" xml:"sendPinPerApplicationLimit,omitempty"`
	SendPinPerPhoneNumberLimit    string `json:"sendPinPerPhoneNumberLimit,omitempty" xml:"sendPinPerPhoneNumberLimit,omitempty"`
}

// Application is a 2FA application, used both as a create/update body and
// as a decoded response.
type Application struct {
	XMLName       xml.Name           `json:"-" xml:"request"`
	ApplicationID string             `json:"applicationId,omitempty" xml:"-"`
	Name          string             `json:"name,omitempty" xml:"name,omitempty"`
	Enabled       *bool              `json:"enabled,omitempty" xml:"enabled,omitempty"`
	Configuration *ApplicationConfig `json:"configuration,omitempty" xml:"configuration,omitempty"`
}

// ListApplications lists every application of the account.
func (s *Service) ListApplications(ctx context.Context, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method: http.MethodGet,
		Path:   []string{"applications"},
	}, opts...)
}

// GetApplication fetches one application.
func (s *Service) GetApplication(ctx context.Context, appID string, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method:   http.MethodGet,
		Path:     []string{"applications", appID},
		Required: []service.Param{{Name: "applicationId", Value: appID}},
	}, opts...)
}

// CreateApplication creates an application.
func (s *Service) CreateApplication(ctx context.Context, app Application, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method:   http.MethodPost,
		Path:     []string{"applications"},
		Body:     app,
		Required: []service.Param{{Name: "name", Value: app.Name}},
	}, opts...)
}

// UpdateApplication replaces the settings of an application.
func (s *Service) UpdateApplication(ctx context.Context, appID string, app Application, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method: http.MethodPut,
		Path:   []string{"applications", appID},
		Body:   app,
		Required: []service.Param{
			{Name: "applicationId", Value: appID},
			{Name: "name", Value: app.Name},
		},
	}, opts...)
}
