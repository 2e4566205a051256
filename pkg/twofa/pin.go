package twofa

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/service"
)

// PinRequest is the body of SendPin.
type PinRequest struct {
	XMLName       xml.Name          `json:"-" xml:"request"`
	ApplicationID string            `json:"applicationId" xml:"applicationId"`
	MessageID     string            `json:"messageId" xml:"messageId"`
	From          string            `json:"from,omitempty" xml:"from,omitempty"`
	To            string            `json:"to" xml:"to"`
	Placeholders  map[string]string `json:"placeholders,omitempty" xml:"-"`
}

// ResendRequest is the body of ResendPin.
type ResendRequest struct {
	XMLName      xml.Name          `json:"-" xml:"request"`
	Placeholders map[string]string `json:"placeholders,omitempty" xml:"-"`
}

// PinResponse is the decoded body of SendPin and ResendPin.
type PinResponse struct {
	PinID     string `json:"pinId"`
	To        string `json:"to"`
	NCStatus  string `json:"ncStatus"`
	SMSStatus string `json:"smsStatus"`
}

// VerifyResponse is the decoded body of VerifyPin.
type VerifyResponse struct {
	PinID             string `json:"pinId"`
	MSISDN            string `json:"msisdn"`
	Verified          bool   `json:"verified"`
	AttemptsRemaining int    `json:"attemptsRemaining"`
	PinError          string `json:"pinError,omitempty"`
}

// Verification is one entry of VerificationStatus.
type Verification struct {
	MSISDN     string `json:"msisdn"`
	Verified   bool   `json:"verified"`
	VerifiedAt int64  `json:"verifiedAt"`
	SentAt     int64  `json:"sentAt"`
}

// VerificationsResponse is the decoded body of VerificationStatus.
type VerificationsResponse struct {
	Verifications []Verification `json:"verifications"`
}

// SendPin sends a PIN to req.To using the given application and template.
// ncNeeded asks the provider to run a number lookup first.
func (s *Service) SendPin(ctx context.Context, req PinRequest, ncNeeded bool, opts ...service.CallOption) (*auth.Response, error) {
	q := url.Values{}
	if ncNeeded {
		q.Set("ncNeeded", "true")
	}

	return s.Do(ctx, service.Request{
		Method: http.MethodPost,
		Path:   []string{"pin"},
		Query:  q,
		Body:   req,
		Required: []service.Param{
			{Name: "applicationId", Value: req.ApplicationID},
			{Name: "messageId", Value: req.MessageID},
			{Name: "to", Value: req.To},
		},
	}, opts...)
}

// ResendPin sends the PIN identified by pinID again.
func (s *Service) ResendPin(ctx context.Context, pinID string, req ResendRequest, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method:   http.MethodPost,
		Path:     []string{"pin", pinID, "resend"},
		Body:     req,
		Required: []service.Param{{Name: "pinId", Value: pinID}},
	}, opts...)
}

// VerifyPin checks pin against the PIN identified by pinID.
func (s *Service) VerifyPin(ctx context.Context, pinID, pin string, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method: http.MethodPost,
		Path:   []string{"pin", pinID, "verify"},
		Body:   map[string]string{"pin": pin},
		Required: []service.Param{
			{Name: "pinId", Value: pinID},
			{Name: "pin", Value: pin},
		},
	}, opts...)
}

// VerificationFilter narrows VerificationStatus. Nil fields are not sent.
type VerificationFilter struct {
	Verified *bool
	Sent     *bool
}

// VerificationStatus lists the verification state of msisdn within an
// application.
func (s *Service) VerificationStatus(ctx context.Context, appID, msisdn string, filter VerificationFilter, opts ...service.CallOption) (*auth.Response, error) {
	q := url.Values{"msisdn": {msisdn}}
	if filter.Verified != nil {
		q.Set("verified", strconv.FormatBool(*filter.Verified))
	}
	if filter.Sent != nil {
		q.Set("sent", strconv.FormatBool(*filter.Sent))
	}

	return s.Do(ctx, service.Request{
		Method: http.MethodGet,
		Path:   []string{"applications", appID, "verifications"},
		Query:  q,
		Required: []service.Param{
			{Name: "applicationId", Value: appID},
			{Name: "msisdn", Value: msisdn},
		},
	}, opts...)
}
