// Package sms sends text messages and reads their delivery reports and logs.
package sms

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/service"
)

// DefaultVersion is the path version used when Config.APIVersion is zero.
const DefaultVersion = 2

// Config configures the SMS service.
type Config struct {
	service.Config

	// DefaultSenderID is used as the sender of a message sent without one.
	DefaultSenderID string
}

// Service calls the /sms endpoints.
type Service struct {
	*service.Base

	defaultSenderID string
}

// New returns an SMS Service.
func New(cfg Config) (*Service, error) {
	base, err := service.NewBase("sms", cfg.Config, DefaultVersion)
	if err != nil {
		return nil, err
	}
	return &Service{Base: base, defaultSenderID: cfg.DefaultSenderID}, nil
}

// DefaultSenderID returns the configured fallback sender.
func (s *Service) DefaultSenderID() string {
	return s.defaultSenderID
}

// Send sends a single text message. An empty from uses the default sender ID
// for this call.
func (s *Service) Send(ctx context.Context, to, text, from string, opts ...service.CallOption) (*auth.Response, error) {
	if from == "" {
		from = s.defaultSenderID
	}

	body := map[string]string{"to": to, "text": text}
	if from != "" {
		body["from"] = from
	}

	return s.Do(ctx, service.Request{
		Method: http.MethodPost,
		Path:   []string{"text", "single"},
		Body:   body,
		Required: []service.Param{
			{Name: "to", Value: to},
			{Name: "text", Value: text},
		},
	}, opts...)
}

// SendMultiple sends several messages in one request. Messages without a
// sender use the default sender ID.
func (s *Service) SendMultiple(ctx context.Context, msgs []Message, opts ...service.CallOption) (*auth.Response, error) {
	req := MultiRequest{Messages: make([]Message, len(msgs))}
	for i, m := range msgs {
		if m.From == "" {
			m.From = s.defaultSenderID
		}
		req.Messages[i] = m
	}

	return s.Do(ctx, service.Request{
		Method:   http.MethodPost,
		Path:     []string{"text", "multi"},
		Body:     req,
		Required: []service.Param{{Name: "messages", Value: msgs}},
	}, opts...)
}

// Reports fetches the delivery report for one message.
func (s *Service) Reports(ctx context.Context, messageID string, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method:   http.MethodGet,
		Path:     []string{"reports"},
		Query:    url.Values{"messageId": {messageID}},
		Required: []service.Param{{Name: "messageId", Value: messageID}},
	}, opts...)
}

// LogsFilter narrows a Logs query. Zero fields are not sent.
type LogsFilter struct {
	From          string
	To            string
	BulkID        string
	MessageID     string
	GeneralStatus string
	SentSince     time.Time
	SentUntil     time.Time
	Limit         int
}

// Values returns the filter as query parameters.
func (f LogsFilter) Values() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("from", f.From)
	set("to", f.To)
	set("bulkId", f.BulkID)
	set("messageId", f.MessageID)
	set("generalStatus", f.GeneralStatus)
	if !f.SentSince.IsZero() {
		q.Set("sentSince", f.SentSince.UTC().Format(time.RFC3339))
	}
	if !f.SentUntil.IsZero() {
		q.Set("sentUntil", f.SentUntil.UTC().Format(time.RFC3339))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// Logs lists sent messages matching filter.
func (s *Service) Logs(ctx context.Context, filter LogsFilter, opts ...service.CallOption) (*auth.Response, error) {
	return s.Do(ctx, service.Request{
		Method: http.MethodGet,
		Path:   []string{"logs"},
		Query:  filter.Values(),
	}, opts...)
}

// Message is one message of a SendMultiple request.
type Message struct {
	From string `json:"from,omitempty" xml:"from,omitempty"`
	To   string `json:"to" xml:"to"`
	Text string `json:"text" xml:"text"`
}

// MultiRequest is the body of a SendMultiple request.
type MultiRequest struct {
	XMLName  xml.Name  `json:"-" xml:"request"`
	Messages []Message `json:"messages" xml:"messages>message"`
}

// Status is a message delivery state.
type Status struct {
	GroupID     int    `json:"groupId"`
	GroupName   string `json:"groupName"`
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ErrorInfo describes why a message was not delivered.
type ErrorInfo struct {
	GroupID     int    `json:"groupId"`
	GroupName   string `json:"groupName"`
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Permanent   bool   `json:"permanent"`
}

// Price is the cost of a message.
type Price struct {
	PricePerMessage float64 `json:"pricePerMessage"`
	Currency        string  `json:"currency"`
}

// SentMessage is the per-recipient result of a send.
type SentMessage struct {
	To        string `json:"to"`
	MessageID string `json:"messageId"`
	SMSCount  int    `json:"smsCount,omitempty"`
	Status    Status `json:"status"`
}

// SendResponse is the decoded body of Send and SendMultiple.
type SendResponse struct {
	BulkID   string        `json:"bulkId,omitempty"`
	Messages []SentMessage `json:"messages"`
}

// Report is a delivery report.
type Report struct {
	BulkID    string    `json:"bulkId,omitempty"`
	MessageID string    `json:"messageId"`
	To        string    `json:"to"`
	From      string    `json:"from,omitempty"`
	SentAt    string    `json:"sentAt"`
	DoneAt    string    `json:"doneAt"`
	SMSCount  int       `json:"smsCount"`
	Price     Price     `json:"price"`
	Status    Status    `json:"status"`
	Error     ErrorInfo `json:"error"`
}

// ReportsResponse is the decoded body of Reports.
type ReportsResponse struct {
	Results []Report `json:"results"`
}

// LogEntry is one sent message in a Logs result.
type LogEntry struct {
	Report `json:",squash"`

	Text string `json:"text"`
}

// LogsResponse is the decoded body of Logs.
type LogsResponse struct {
	Results []LogEntry `json:"results"`
}
