// Package twofa manages two-factor authentication applications, their PIN
// message templates, and the PIN send/verify flow.
//
// A typical flow:
//
//	app := twofa.Application{Name: "login"}
//	resp, err := svc.CreateApplication(ctx, app)
//	...
//	resp, err = svc.SendPin(ctx, twofa.PinRequest{ApplicationID: id, MessageID: msgID, To: msisdn}, false)
//	...
//	resp, err = svc.VerifyPin(ctx, pinID, "1234")
package twofa

import (
	"github.com/hashicorp-forge/infobip-go/pkg/service"
)

// DefaultVersion is the path version used when APIVersion is zero.
const DefaultVersion = 2

// Service calls the /2fa endpoints.
type Service struct {
	*service.Base
}

// New returns a 2FA Service.
func New(cfg service.Config) (*Service, error) {
	base, err := service.NewBase("2fa", cfg, DefaultVersion)
	if err != nil {
		return nil, err
	}
	return &Service{Base: base}, nil
}
