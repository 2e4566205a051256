package status

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/infobip-go/internal/testprovider"
	"github.com/hashicorp-forge/infobip-go/pkg/apierror"
	"github.com/hashicorp-forge/infobip-go/pkg/auth"
	"github.com/hashicorp-forge/infobip-go/pkg/service"
)

func TestCheck(t *testing.T) {
	srv := testprovider.New(t)
	svc, err := New(service.Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)

	_, err = svc.Check(context.Background())
	assert.ErrorIs(t, err, apierror.ErrUnauthorized)
	assert.Empty(t, srv.Requests())

	require.NoError(t, svc.Authorize(auth.NewBasic("u", "p")))

	resp, err := svc.Check(context.Background(), service.WithVersion(2))
	require.NoError(t, err)

	var out Result
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "OK", out.Status)

	last := srv.Last()
	assert.Equal(t, http.MethodGet, last.Method)
	assert.Equal(t, "/status", last.Path)
	assert.Equal(t, "Basic dTpw", last.Header.Get("Authorization"))
}

func TestCheck_XML(t *testing.T) {
	srv := testprovider.New(t)
	srv.Handle(http.MethodGet, "/status", testprovider.Response{
		ContentType: "application/xml",
		Body:        `<statusResponse><status>OK</status></statusResponse>`,
	})

	svc, err := New(service.Config{BaseURL: srv.URL, Format: "xml", HTTPClient: srv.Client()})
	require.NoError(t, err)
	require.NoError(t, svc.Authorize(auth.NewToken("t")))

	resp, err := svc.Check(context.Background())
	require.NoError(t, err)

	var out Result
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "OK", out.Status)
	assert.Equal(t, "application/xml", srv.Last().Header.Get("Accept"))
}
