package sms

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/infobip-go/internal/testprovider"
	"github.com/hashicorp-forge/infobip-go/pkg/apierror"
	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/service"
)

func newTestService(t *testing.T, cfg Config) (*Service, *testprovider.Server) {
	t.Helper()

	srv := testprovider.New(t)
	cfg.BaseURL = srv.URL
	cfg.HTTPClient = srv.Client()

	svc, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, svc.Authorize(auth.NewAPIKey("pk_abc")))
	return svc, srv
}

func TestUnauthorized(t *testing.T) {
	srv := testprovider.New(t)
	svc, err := New(Config{Config: service.Config{BaseURL: srv.URL, HTTPClient: srv.Client()}})
	require.NoError(t, err)
	ctx := context.Background()

	calls := map[string]func() error{
		"send": func() error {
			_, err := svc.Send(ctx, "41793026727", "hi", "")
			return err
		},
		"send empty": func() error {
			_, err := svc.Send(ctx, "", "", "")
			return err
		},
		"send multiple": func() error {
			_, err := svc.SendMultiple(ctx, nil)
			return err
		},
		"reports": func() error {
			_, err := svc.Reports(ctx, "", service.WithVersion(1))
			return err
		},
		"logs": func() error {
			_, err := svc.Logs(ctx, LogsFilter{})
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), apierror.ErrUnauthorized)
		})
	}
	assert.Empty(t, srv.Requests())
}

func TestSend(t *testing.T) {
	svc, srv := newTestService(t, Config{DefaultSenderID: "InfoSMS"})

	resp, err := svc.Send(context.Background(), "41793026727", "Hello", "")
	require.NoError(t, err)

	last := srv.Last()
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/sms/2/text/single", last.Path)
	assert.Equal(t, "App pk_abc", last.Header.Get("Authorization"))
	assert.JSONEq(t, `{"from":"InfoSMS","to":"41793026727","text":"Hello"}`, string(last.Body))

	var out SendResponse
	require.NoError(t, resp.Decode(&out))
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "41793026727", out.Messages[0].To)
	assert.NotEmpty(t, out.Messages[0].MessageID)
	assert.Equal(t, "PENDING", out.Messages[0].Status.GroupName)
}

func TestSend_SenderOverride(t *testing.T) {
	svc, srv := newTestService(t, Config{DefaultSenderID: "InfoSMS"})
	ctx := context.Background()

	_, err := svc.Send(ctx, "41793026727", "Hello", "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", srv.Last().JSON()["from"])
	assert.Equal(t, "InfoSMS", svc.DefaultSenderID())

	_, err = svc.Send(ctx, "41793026727", "Hello", "")
	require.NoError(t, err)
	assert.Equal(t, "InfoSMS", srv.Last().JSON()["from"])
}

func TestSend_NoSender(t *testing.T) {
	svc, srv := newTestService(t, Config{})

	_, err := svc.Send(context.Background(), "41793026727", "Hello", "")
	require.NoError(t, err)
	assert.NotContains(t, srv.Last().JSON(), "from")
}

func TestSend_MissingParameter(t *testing.T) {
	svc, srv := newTestService(t, Config{})

	_, err := svc.Send(context.Background(), "", "Hello", "")
	var missing *apierror.MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "to", missing.Name)

	_, err = svc.Send(context.Background(), "41793026727", "", "")
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "text", missing.Name)

	assert.Empty(t, srv.Requests())
}

func TestSend_VersionOverride(t *testing.T) {
	svc, srv := newTestService(t, Config{})

	_, err := svc.Send(context.Background(), "41793026727", "Hello", "", service.WithVersion(1))
	require.NoError(t, err)
	assert.Equal(t, "/sms/1/text/single", srv.Last().Path)
	assert.Equal(t, 2, svc.APIVersion())
}

func TestSend_XML(t *testing.T) {
	svc, srv := newTestService(t, Config{
		Config:          service.Config{Format: "xml"},
		DefaultSenderID: "InfoSMS",
	})
	srv.Handle(http.MethodPost, "/sms/2/text/single", testprovider.Response{
		ContentType: "application/xml",
		Body: `<smsResponse><messages><message><to>41793026727</to><messageId>m-1</messageId>` +
			`<status><groupId>1</groupId><groupName>PENDING</groupName></status></message></messages></smsResponse>`,
	})

	resp, err := svc.Send(context.Background(), "41793026727", "Hello", "")
	require.NoError(t, err)
	assert.Equal(t,
		"<request><from>InfoSMS</from><text>Hello</text><to>41793026727</to></request>",
		string(srv.Last().Body))

	var out struct {
		Messages struct {
			Message SentMessage `json:"message"`
		} `json:"messages"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "m-1", out.Messages.Message.MessageID)
	assert.Equal(t, 1, out.Messages.Message.Status.GroupID)
}

func TestSendMultiple(t *testing.T) {
	svc, srv := newTestService(t, Config{DefaultSenderID: "InfoSMS"})

	msgs := []Message{
		{To: "41793026727", Text: "one"},
		{To: "41793026728", Text: "two", From: "Acme"},
	}
	resp, err := svc.SendMultiple(context.Background(), msgs)
	require.NoError(t, err)

	last := srv.Last()
	assert.Equal(t, "/sms/2/text/multi", last.Path)
	assert.JSONEq(t, `{"messages":[
		{"from":"InfoSMS","to":"41793026727","text":"one"},
		{"from":"Acme","to":"41793026728","text":"two"}
	]}`, string(last.Body))
	assert.Empty(t, msgs[0].From)

	var out SendResponse
	require.NoError(t, resp.Decode(&out))
	assert.NotEmpty(t, out.BulkID)
	assert.Len(t, out.Messages, 2)
}

func TestSendMultiple_Empty(t *testing.T) {
	svc, _ := newTestService(t, Config{})

	_, err := svc.SendMultiple(context.Background(), []Message{})
	assert.ErrorIs(t, err, apierror.ErrMissingParameter)
}

func TestReports(t *testing.T) {
	svc, srv := newTestService(t, Config{})
	srv.Handle(http.MethodGet, "/sms/2/reports", testprovider.Response{
		Body: `{"results":[{"messageId":"m-1","to":"41793026727","smsCount":1,
			"price":{"pricePerMessage":0.01,"currency":"EUR"},
			"status":{"groupId":3,"groupName":"DELIVERED","id":5,"name":"DELIVERED_TO_HANDSET"},
			"error":{"groupId":0,"groupName":"OK","id":0,"name":"NO_ERROR","permanent":false}}]}`,
	})

	resp, err := svc.Reports(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, "m-1", srv.Last().Query.Get("messageId"))

	var out ReportsResponse
	require.NoError(t, resp.Decode(&out))
	require.Len(t, out.Results, 1)
	assert.Equal(t, "DELIVERED", out.Results[0].Status.GroupName)
	assert.Equal(t, "EUR", out.Results[0].Price.Currency)
	assert.InDelta(t, 0.01, out.Results[0].Price.PricePerMessage, 1e-9)

	_, err = svc.Reports(context.Background(), "")
	assert.ErrorIs(t, err, apierror.ErrMissingParameter)
}

func TestLogs(t *testing.T) {
	svc, srv := newTestService(t, Config{})
	srv.Handle(http.MethodGet, "/sms/2/logs", testprovider.Response{
		Body: `{"results":[{"messageId":"m-1","to":"41793026727","text":"Hello","status":{"groupName":"DELIVERED"}}]}`,
	})

	since := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	resp, err := svc.Logs(context.Background(), LogsFilter{
		To:        "41793026727",
		SentSince: since,
		Limit:     10,
	})
	require.NoError(t, err)

	q := srv.Last().Query
	assert.Equal(t, "41793026727", q.Get("to"))
	assert.Equal(t, "2026-01-02T03:04:05Z", q.Get("sentSince"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.NotContains(t, q, "from")
	assert.NotContains(t, q, "sentUntil")

	var out LogsResponse
	require.NoError(t, resp.Decode(&out))
	require.Len(t, out.Results, 1)
	assert.Equal(t, "Hello", out.Results[0].Text)
	assert.Equal(t, "m-1", out.Results[0].MessageID)
}

func TestSend_RemoteFailure(t *testing.T) {
	svc, srv := newTestService(t, Config{})
	srv.Handle(http.MethodPost, "/sms/2/text/single", testprovider.Response{
		Status: http.StatusUnauthorized,
		Body:   `{"requestError":{"serviceException":{"messageId":"UNAUTHORIZED","text":"Invalid login details"}}}`,
	})

	_, err := svc.Send(context.Background(), "41793026727", "Hello", "")

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode())
	payload, ok := apiErr.Payload.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, payload, "requestError")
}
