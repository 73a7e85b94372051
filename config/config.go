// Package config holds the application configuration loaded by
// go-config from config/app.json plus environment overrides.
package config

import (
	"github.com/goliatone/go-errors"
)

// AppConfig is the root configuration document.
type AppConfig struct {
	Server   Server   `json:"server" koanf:"server"`
	Auth     Auth     `json:"auth" koanf:"auth"`
	Database Database `json:"database" koanf:"database"`
	Search   Search   `json:"search" koanf:"search"`
}

// Validate rejects configurations that cannot possibly run. The refresh
// lifetime exceeding the access lifetime is an operational expectation, not
// a structural one, so it only warns at boot.
func (c *AppConfig) Validate() error {
	if c.Auth.AccessSigningKey == "" {
		return errors.New("auth.access_signing_key is required", errors.CategoryValidation)
	}
	if c.Auth.RefreshSigningKey == "" {
		return errors.New("auth.refresh_signing_key is required", errors.CategoryValidation)
	}
	if c.Auth.AccessSigningKey == c.Auth.RefreshSigningKey {
		return errors.New("auth signing keys must differ", errors.CategoryValidation)
	}
	if c.Auth.AccessTokenExpiration <= 0 {
		return errors.New("auth.access_token_expiration must be positive", errors.CategoryValidation)
	}
	if c.Auth.RefreshTokenExpiration <= 0 {
		return errors.New("auth.refresh_token_expiration must be positive", errors.CategoryValidation)
	}
	return nil
}

// GetServer returns the server section.
func (c *AppConfig) GetServer() Server { return c.Server }

// GetAuth returns the auth section.
func (c *AppConfig) GetAuth() *Auth { return &c.Auth }

// GetDatabase returns the database section.
func (c *AppConfig) GetDatabase() Database { return c.Database }

// GetSearch returns the search section.
func (c *AppConfig) GetSearch() Search { return c.Search }

// Server configures the HTTP listener.
type Server struct {
	Address string `json:"address" koanf:"address"`
	Debug   bool   `json:"debug" koanf:"debug"`
}

// GetAddress returns the listen address.
func (s Server) GetAddress() string {
	if s.Address == "" {
		return ":9876"
	}
	return s.Address
}

// GetDebug reports whether debug output is enabled.
func (s Server) GetDebug() bool { return s.Debug }

// Auth configures the session subsystem. Lifetimes are in seconds.
type Auth struct {
	AccessSigningKey       string   `json:"access_signing_key" koanf:"access_signing_key"`
	RefreshSigningKey      string   `json:"refresh_signing_key" koanf:"refresh_signing_key"`
	AccessTokenExpiration  int      `json:"access_token_expiration" koanf:"access_token_expiration"`
	RefreshTokenExpiration int      `json:"refresh_token_expiration" koanf:"refresh_token_expiration"`
	Issuer                 string   `json:"issuer" koanf:"issuer"`
	Audience               []string `json:"audience" koanf:"audience"`
	ContextKey             string   `json:"context_key" koanf:"context_key"`
	AuthScheme             string   `json:"auth_scheme" koanf:"auth_scheme"`
}

// GetAccessSigningKey returns the access token HMAC secret.
func (a *Auth) GetAccessSigningKey() string { return a.AccessSigningKey }

// GetRefreshSigningKey returns the refresh token HMAC secret.
func (a *Auth) GetRefreshSigningKey() string { return a.RefreshSigningKey }

// GetAccessTokenExpiration returns the access token lifetime in seconds.
func (a *Auth) GetAccessTokenExpiration() int { return a.AccessTokenExpiration }

// GetRefreshTokenExpiration returns the refresh token lifetime in seconds.
func (a *Auth) GetRefreshTokenExpiration() int { return a.RefreshTokenExpiration }

// GetIssuer returns the iss claim value.
func (a *Auth) GetIssuer() string { return a.Issuer }

// GetAudience returns the aud claim values.
func (a *Auth) GetAudience() []string { return a.Audience }

// GetContextKey returns the router locals key the principal is stored
// under.
func (a *Auth) GetContextKey() string {
	if a.ContextKey == "" {
		return "user"
	}
	return a.ContextKey
}

// GetAuthScheme returns the Authorization header scheme.
func (a *Auth) GetAuthScheme() string {
	if a.AuthScheme == "" {
		return "Bearer"
	}
	return a.AuthScheme
}

// Database configures the relational store.
type Database struct {
	DSN string `json:"dsn" koanf:"dsn"`
}

// GetDSN returns the sqlite connection string.
func (d Database) GetDSN() string {
	if d.DSN == "" {
		return "file:boards.db?cache=shared&_pragma=foreign_keys(1)"
	}
	return d.DSN
}

// Search configures the full-text index.
type Search struct {
	IndexPath string `json:"index_path" koanf:"index_path"`
}

// GetIndexPath returns the on-disk index location; empty means in-memory.
func (s Search) GetIndexPath() string { return s.IndexPath }
