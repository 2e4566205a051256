package twofa

import (
	"context"
	"encoding/xml"
	"net/http"

	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/service"
)

// PIN types accepted by a message template.
const (
	PinTypeNumeric      = "NUMERIC"
	PinTypeAlpha        = "ALPHA"
	PinTypeHex          = "HEX"
	PinTypeAlphanumeric = "ALPHANUMERIC"
)

// MessageTemplate is a PIN message template of an application. MessageText
// must contain the {{pin}} placeholder.
type MessageTemplate struct {
	XMLName       xml.Name `json:"-" xml:"request"`
	MessageID     string   `json:"messageId,omitempty" xml:"-"`
	ApplicationID string   `json:"applicationId,omitempty" xml:"-"`
	PinType       string   `json:"pinType,omitempty" xml:"pinType,omitempty"`
	PinLength     int      `json:"pinLength,omitempty" xml:"pinLength,omitempty"`
	MessageText   string   `json:"messageText,omitempty" xml:"messageText,omitempty"`
	Language      string   `json:"language,omitempty" xml:"language,omitempty"`
	SenderID      string   `json:"senderId,omitempty" xml:"senderId,omitempty"`
	RepeatDTMF    string   `json:"repeatDTMF,omitempty" xml:"repeatDTMF,omitempty"`
	SpeechRate    float64  `json:"speechRate,omitempty" xml:"speechRate,omitempty"`
}

// ListMessages lists the message templates of an application.
func (s *Service) ListMessages(ctx context.Context, appID string, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method:   http.MethodGet,
		Path:     []string{"applications", appID, "messages"},
		Required: []service.Param{{Name: "applicationId", Value: appID}},
	}, opts...)
}

// GetMessage fetches one message template.
func (s *Service) GetMessage(ctx context.Context, appID, msgID string, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method: http.MethodGet,
		Path:   []string{"applications", appID, "messages", msgID},
		Required: []service.Param{
			{Name: "applicationId", Value: appID},
			{Name: "messageId", Value: msgID},
		},
	}, opts...)
}

// CreateMessage adds a message template to an application.
func (s *Service) CreateMessage(ctx context.Context, appID string, msg MessageTemplate, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method: http.MethodPost,
		Path:   []string{"applications", appID, "messages"},
		Body:   msg,
		Required: []service.Param{
			{Name: "applicationId", Value: appID},
			{Name: "messageText", Value: msg.MessageText},
			{Name: "pinType", Value: msg.PinType},
		},
	}, opts...)
}

// UpdateMessage replaces a message template.
func (s *Service) UpdateMessage(ctx context.Context, appID, msgID string, msg MessageTemplate, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method: http.MethodPut,
		Path:   []string{"applications", appID, "messages", msgID},
		Body:   msg,
		Required: []service.Param{
			{Name: "applicationId", Value: appID},
			{Name: "messageId", Value: msgID},
			{Name: "params", Value: msg},
		},
	}, opts...)
}
