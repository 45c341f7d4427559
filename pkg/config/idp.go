package config

import (
	"fmt"
	"time"
)

// IdP holds the connection settings for the managed identity provider.
// BaseURL/Realm/ClientID/ClientSecret drive the admin and token endpoints;
// JwksURL/Issuer drive bearer-token verification.
type IdP struct {
	BaseURL      string        `koanf:"baseurl"`
	Realm        string        `koanf:"realm"`
	ClientID     string        `koanf:"clientid"`
	ClientSecret string        `koanf:"clientsecret"`
	JwksURL      string        `koanf:"jwksurl"`
	Issuer       string        `koanf:"issuer"`
	MinInterval  time.Duration `koanf:"mininterval"`
}

func (c *IdP) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("IdP base URL cannot be empty")
	}
	if c.Realm == "" {
		return fmt.Errorf("IdP realm cannot be empty")
	}
	if c.ClientID == "" {
		return fmt.Errorf("IdP client ID cannot be empty")
	}
	if c.JwksURL == "" {
		return fmt.Errorf("IdP JWKS URL cannot be empty")
	}
	if c.Issuer == "" {
		return fmt.Errorf("IdP issuer cannot be empty")
	}
	if c.MinInterval <= 0 {
		return fmt.Errorf("IdP minimum interval must be greater than zero")
	}
	return nil
}
