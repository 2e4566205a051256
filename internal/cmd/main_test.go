package cmd

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/infobip-go/internal/cmd/base"
	"github.com/hashicorp-forge/infobip-go/internal/testprovider"
)

type harness struct {
	srv *testprovider.Server
	ui  *cli.MockUi
	fs  afero.Fs
	env map[string]string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	srv := testprovider.New(t)
	return &harness{
		srv: srv,
		fs:  afero.NewMemMapFs(),
		env: map[string]string{
			"INFOBIP_BASE_URL": srv.URL,
			"INFOBIP_API_KEY":  "secret",
		},
	}
}

func (h *harness) run(t *testing.T, args ...string) int {
	t.Helper()

	h.ui = cli.NewMockUi()
	b := &base.Command{
		Log: hclog.NewNullLogger(),
		UI:  h.ui,
		FS:  h.fs,
		Env: func(key string) (string, bool) {
			v, ok := h.env[key]
			return v, ok
		},
		HTTPClient: h.srv.Client(),
	}
	return Run(b, append([]string{"infobip"}, args...))
}

func (h *harness) output(t *testing.T) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(h.ui.OutputWriter.String()), &out), h.ui.OutputWriter.String())
	return out
}

func TestStatus(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run(t, "status"), h.ui.ErrorWriter.String())
	assert.Equal(t, "OK", h.output(t)["status"])

	last := h.srv.Last()
	assert.Equal(t, "/status", last.Path)
	assert.Equal(t, "App secret", last.Header.Get("Authorization"))
}

func TestStatus_NoCredential(t *testing.T) {
	h := newHarness(t)
	delete(h.env, "INFOBIP_API_KEY")

	assert.Equal(t, 1, h.run(t, "status"))
	assert.Contains(t, h.ui.ErrorWriter.String(), "no credential configured")
	assert.Empty(t, h.srv.Requests())
}

func TestStatus_YAMLOutput(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run(t, "status", "-output=yaml"), h.ui.ErrorWriter.String())
	assert.Equal(t, "status: OK\n", h.ui.OutputWriter.String())

	assert.Equal(t, 1, h.run(t, "status", "-output=toml"))
	assert.Contains(t, h.ui.ErrorWriter.String(), "output must be json or yaml")
}

func TestConfigFile(t *testing.T) {
	h := newHarness(t)
	h.env = map[string]string{}

	require.NoError(t, afero.WriteFile(h.fs, "infobip.hcl", []byte(`
base_url = "`+h.srv.URL+`"

credential {
  kind     = "Basic"
  username = "alice"
  password = "wonderland"
}

sms {
  default_sender_id = "ACME"
}
`), 0o600))

	require.Equal(t, 0, h.run(t, "sms", "send", "-config=infobip.hcl", "-to=41793026727", "-text=hello"),
		h.ui.ErrorWriter.String())

	last := h.srv.Last()
	assert.Equal(t, "/sms/2/text/single", last.Path)
	assert.Equal(t, "Basic YWxpY2U6d29uZGVybGFuZA==", last.Header.Get("Authorization"))
	assert.Equal(t, map[string]any{"from": "ACME", "to": "41793026727", "text": "hello"}, last.JSON())
}

func TestSMSSend_History(t *testing.T) {
	h := newHarness(t)
	h.env["INFOBIP_HISTORY_DSN"] = filepath.Join(t.TempDir(), "history.db")
	h.env["INFOBIP_SENDER_ID"] = "ACME"

	require.Equal(t, 0, h.run(t, "sms", "send", "-to=41793026727", "-text=hello"), h.ui.ErrorWriter.String())
	sent := h.output(t)
	messages, ok := sent["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	messageID := messages[0].(map[string]any)["messageId"]

	require.Equal(t, 0, h.run(t, "history", "list", "-kind=sms"), h.ui.ErrorWriter.String())

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(h.ui.OutputWriter.String()), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, messageID, entries[0]["externalId"])
	assert.Equal(t, "ACME", entries[0]["from"])
	assert.Equal(t, "PENDING_ACCEPTED", entries[0]["status"])
}

func TestSMS_HistoryUnavailable(t *testing.T) {
	h := newHarness(t)
	h.env["INFOBIP_HISTORY_DSN"] = filepath.Join(t.TempDir(), "missing", "history.db")

	require.Equal(t, 0, h.run(t, "sms", "send", "-to=41793026727", "-text=hello"), h.ui.ErrorWriter.String())
	assert.Equal(t, "/sms/2/text/single", h.srv.Last().Path)

	require.Equal(t, 0, h.run(t, "sms", "logs", "-to=41793026727"), h.ui.ErrorWriter.String())
	assert.Equal(t, "/sms/2/logs", h.srv.Last().Path)

	assert.Equal(t, 1, h.run(t, "history", "list"))
}

func TestHistoryList_NotConfigured(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, 1, h.run(t, "history", "list"))
	assert.Contains(t, h.ui.ErrorWriter.String(), "no history configured")
}

func TestSMSSend_RemoteFailure(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle(http.MethodPost, "/sms/2/text/single", testprovider.Response{
		Status: http.StatusBadRequest,
		Body:   `{"requestError":{"serviceException":{"messageId":"BAD_REQUEST","text":"Bad request"}}}`,
	})

	assert.Equal(t, 1, h.run(t, "sms", "send", "-to=41793026727", "-text=hello"))

	errOut := h.ui.ErrorWriter.String()
	assert.Contains(t, errOut, "request failed (status 400)")
	assert.Contains(t, errOut, "BAD_REQUEST")
}

func TestSMSSend_MissingParameter(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, 1, h.run(t, "sms", "send", "-text=hello"))
	assert.Contains(t, h.ui.ErrorWriter.String(), "to")
	assert.Empty(t, h.srv.Requests())
}

func TestTwoFA_PinFlow(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run(t, "2fa", "pin", "send", "-nc-needed",
		"-param", "application-id=app-1",
		"-param", "message-id=msg-1",
		"-param", "to=41793026727",
		"-param", "placeholders.first_name=Ann",
	), h.ui.ErrorWriter.String())

	last := h.srv.Last()
	assert.Equal(t, "/2fa/2/pin", last.Path)
	assert.Equal(t, "true", last.Query.Get("ncNeeded"))
	assert.Equal(t, "app-1", last.JSON()["applicationId"])
	assert.Equal(t, map[string]any{"first_name": "Ann"}, last.JSON()["placeholders"])

	pinID, ok := h.output(t)["pinId"].(string)
	require.True(t, ok)

	require.Equal(t, 0, h.run(t, "2fa", "pin", "verify", "-pin-id="+pinID, "-pin=1234"), h.ui.ErrorWriter.String())
	assert.Equal(t, "/2fa/2/pin/"+pinID+"/verify", h.srv.Last().Path)
	assert.Equal(t, true, h.output(t)["verified"])
}

func TestTwoFA_VersionOverride(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run(t, "2fa", "apps", "create", "-api-version=1", "-param", "name=login"),
		h.ui.ErrorWriter.String())
	assert.Equal(t, "/2fa/1/applications", h.srv.Last().Path)
	assert.Equal(t, "login", h.output(t)["name"])

	assert.Equal(t, 1, h.run(t, "2fa", "apps", "create", "-param", "colour=blue"))
	assert.Contains(t, h.ui.ErrorWriter.String(), "colour")
}

func TestSettings_ListAPIKeys(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run(t, "settings", "api-keys", "list", "-enabled=true", "-name=ops"),
		h.ui.ErrorWriter.String())

	last := h.srv.Last()
	assert.Equal(t, "/settings/1/accounts/_/api-keys", last.Path)
	assert.Equal(t, "true", last.Query.Get("enabled"))
	assert.Equal(t, "ops", last.Query.Get("name"))
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run(t, "version"))
	assert.Contains(t, h.ui.OutputWriter.String(), "infobip ")
}
