// Package auth holds the credentials used to sign requests to the provider
// and derives HTTP clients that carry them.
//
// Three mutually exclusive credential kinds are supported:
//
//   - Basic: username and password, sent as "Basic base64(username:password)"
//   - API key: a public API key, sent as "App <key>"
//   - Token: an IBSSO session token, sent as "IBSSO <token>"
//
// A Credential is immutable and may be shared by any number of services.
package auth

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/infobip-go/pkg/apierror"
)

// Kind identifies how a credential is presented in the Authorization header.
type Kind int

const (
	// KindBasic is username/password authorization.
	KindBasic Kind = iota + 1

	// KindAPIKey is public API key authorization ("App").
	KindAPIKey

	// KindToken is IBSSO token authorization.
	KindToken
)

// String returns the Authorization header scheme for the kind.
func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "Basic"
	case KindAPIKey:
		return "App"
	case KindToken:
		return "IBSSO"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) valid() bool {
	return k == KindBasic || k == KindAPIKey || k == KindToken
}

// ParseKind resolves a kind name. Both the header schemes ("Basic", "App",
// "IBSSO") and the descriptive names ("ApiKey", "Token") are accepted.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "Basic":
		return KindBasic, nil
	case "App", "ApiKey":
		return KindAPIKey, nil
	case "IBSSO", "Token":
		return KindToken, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be one of Basic, App, IBSSO)",
			apierror.ErrInvalidAuthorizationKind, name)
	}
}

// Credential is one authorization identity.
type Credential struct {
	kind   Kind
	secret string
}

// NewCredential builds a credential of the given kind. For KindBasic, primary
// is the username and secondary[0] the password; the pair is base64 encoded
// immediately and the password is not retained. For the other kinds primary
// is used verbatim and secondary is ignored.
func NewCredential(kind Kind, primary string, secondary ...string) (*Credential, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("%w: %s", apierror.ErrInvalidAuthorizationKind, kind)
	}

	secret := primary
	if kind == KindBasic {
		var password string
		if len(secondary) > 0 {
			password = secondary[0]
		}
		secret = base64.StdEncoding.EncodeToString([]byte(primary + ":" + password))
	}

	return &Credential{kind: kind, secret: secret}, nil
}

// ParseCredential is NewCredential with the kind given by name (see ParseKind).
func ParseCredential(kind string, primary string, secondary ...string) (*Credential, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	return NewCredential(k, primary, secondary...)
}

// NewBasic returns a Basic credential for username and password.
func NewBasic(username, password string) *Credential {
	c, _ := NewCredential(KindBasic, username, password)
	return c
}

// NewAPIKey returns an App credential for a public API key.
func NewAPIKey(key string) *Credential {
	c, _ := NewCredential(KindAPIKey, key)
	return c
}

// NewToken returns an IBSSO credential for a session token.
func NewToken(token string) *Credential {
	c, _ := NewCredential(KindToken, token)
	return c
}

// Kind returns the credential kind.
func (c *Credential) Kind() Kind {
	return c.kind
}

// Secret returns the stored secret: the encoded pair for Basic, the key or
// token otherwise.
func (c *Credential) Secret() string {
	return c.secret
}

// AuthorizationHeader returns the Authorization header value.
func (c *Credential) AuthorizationHeader() string {
	return c.kind.String() + " " + c.secret
}

// Masked returns the header value with most of the secret hidden, for logs.
func (c *Credential) Masked() string {
	const visible = 4
	if len(c.secret) <= visible*2 {
		return c.kind.String() + " " + strings.Repeat("*", len(c.secret))
	}
	return c.kind.String() + " " + c.secret[:visible] + "..." + c.secret[len(c.secret)-visible:]
}

// String implements fmt.Stringer without exposing the secret.
func (c *Credential) String() string {
	return c.Masked()
}
