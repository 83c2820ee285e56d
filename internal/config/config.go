// Package config holds server configuration, populated from flags and
// SKETCHCODES_* environment variables by cmd/server.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
)

type Config struct {
	Bind           string
	Port           int
	PublicURL      string
	AllowedOrigins []string
	FrontendDir    string
	Verbose        bool
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.PublicURL == "" {
		return errors.New("public-url must not be empty")
	}
	u, err := url.Parse(c.PublicURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid public-url: %q", c.PublicURL)
	}
	return nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}
