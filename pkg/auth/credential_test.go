package auth

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/infobip-go/pkg/apierror"
	"github.com/hashicorp-forge/infobip-go/pkg/codec"
)

func TestNewCredential_Basic(t *testing.T) {
	cred, err := NewCredential(KindBasic, "u", "p")
	require.NoError(t, err)

	assert.Equal(t, KindBasic, cred.Kind())
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("u:p")), cred.Secret())
	assert.Equal(t, "dTpw", cred.Secret())
	assert.NotContains(t, cred.Secret(), "p:")
}

func TestNewCredential_Verbatim(t *testing.T) {
	key, err := NewCredential(KindAPIKey, "pk_abc", "ignored")
	require.NoError(t, err)
	assert.Equal(t, "pk_abc", key.Secret())

	token, err := NewCredential(KindToken, "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token.Secret())
}

func TestNewCredential_InvalidKind(t *testing.T) {
	for _, k := range []Kind{0, 4, -1} {
		cred, err := NewCredential(k, "a", "b")
		assert.ErrorIs(t, err, apierror.ErrInvalidAuthorizationKind)
		assert.Nil(t, cred)
	}
}

func TestParseCredential(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		want    Kind
		wantErr bool
	}{
		{name: "basic", kind: "Basic", want: KindBasic},
		{name: "app", kind: "App", want: KindAPIKey},
		{name: "api key alias", kind: "ApiKey", want: KindAPIKey},
		{name: "ibsso", kind: "IBSSO", want: KindToken},
		{name: "token alias", kind: "Token", want: KindToken},
		{name: "oauth", kind: "OAuth", wantErr: true},
		{name: "bearer", kind: "Bearer", wantErr: true},
		{name: "empty", kind: "", wantErr: true},
		{name: "lowercase", kind: "basic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred, err := ParseCredential(tt.kind, "secret", "other")
			if tt.wantErr {
				require.ErrorIs(t, err, apierror.ErrInvalidAuthorizationKind)
				assert.Nil(t, cred)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cred.Kind())
		})
	}
}

func TestParseCredential_InvalidKindAnySecret(t *testing.T) {
	for _, secrets := range [][]string{{""}, {"x"}, {"x", "y"}, {"", ""}} {
		_, err := ParseCredential("OAuth", secrets[0], secrets[1:]...)
		assert.ErrorIs(t, err, apierror.ErrInvalidAuthorizationKind)
	}
}

func TestHeaders_Prefix(t *testing.T) {
	creds := map[string]*Credential{
		"Basic": NewBasic("user", "pass"),
		"App":   NewAPIKey("pk_abc"),
		"IBSSO": NewToken("sso-token"),
	}

	for prefix, cred := range creds {
		t.Run(prefix, func(t *testing.T) {
			h := Headers(cred, codec.JSON)
			got := h.Get("Authorization")
			assert.True(t, strings.HasPrefix(got, prefix+" "), got)
			assert.Equal(t, prefix+" "+cred.Secret(), got)
		})
	}
}

func TestHeaders_Format(t *testing.T) {
	cred := NewToken("t")

	xml := Headers(cred, codec.ParseFormat("xml"))
	assert.Equal(t, "application/xml", xml.Get("Content-Type"))
	assert.Equal(t, "application/xml", xml.Get("Accept"))

	// Unrecognized formats fall back to JSON.
	other := Headers(cred, codec.ParseFormat("csv"))
	assert.Equal(t, "application/json", other.Get("Content-Type"))
	assert.Equal(t, "application/json", other.Get("Accept"))
}

func TestCredential_Masked(t *testing.T) {
	cred := NewAPIKey("0123456789abcdef")
	assert.Equal(t, "App 0123...cdef", cred.Masked())
	assert.Equal(t, "App 0123...cdef", cred.String())

	short := NewToken("abc")
	assert.Equal(t, "IBSSO ***", short.Masked())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Basic", KindBasic.String())
	assert.Equal(t, "App", KindAPIKey.String())
	assert.Equal(t, "IBSSO", KindToken.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
