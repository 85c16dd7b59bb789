package oci

import (
	"context"

	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
)

// Option configures an OCI Client.
type Option func(*Client)

// WithCredentialStore sets the credential store for authentication.
func WithCredentialStore(store credentials.Store) Option {
	return func(c *Client) {
		c.credStore = store
	}
}

// WithCredentialFunc sets a function resolving credentials per registry
// host. It takes precedence over any configured credential store.
func WithCredentialFunc(fn CredentialFunc) Option {
	return func(c *Client) {
		c.credFunc = fn
	}
}

// WithStaticCredentials sets static username/password credentials for a registry.
func WithStaticCredentials(registry, username, password string) Option {
	return func(c *Client) {
		c.credStore = staticStore{
			host: registry,
			cred: auth.Credential{Username: username, Password: password},
		}
	}
}

// WithStaticToken sets a bearer token for a registry.
func WithStaticToken(registry, token string) Option {
	return func(c *Client) {
		c.credStore = staticStore{
			host: registry,
			cred: auth.Credential{AccessToken: token},
		}
	}
}

// WithDockerConfig enables reading credentials from ~/.docker/config.json.
// If the docker config cannot be loaded (common in environments without
// docker), the client falls back to no credentials.
func WithDockerConfig() Option {
	return func(c *Client) {
		store, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
		if err != nil {
			return
		}
		c.credStore = store
	}
}

// WithPlainHTTP enables plain HTTP (no TLS) for registries.
// This is useful for local development registries.
func WithPlainHTTP(enabled bool) Option {
	return func(c *Client) {
		c.plainHTTP = enabled
	}
}

// WithAnonymous disables all authentication, including credential store lookups.
// Use this for public registries where authentication is not needed.
func WithAnonymous() Option {
	return func(c *Client) {
		c.anonymous = true
	}
}

// WithUserAgent sets the User-Agent header for requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// staticStore serves one fixed credential for one registry host.
type staticStore struct {
	host string
	cred auth.Credential
}

func (s staticStore) Get(_ context.Context, hostport string) (auth.Credential, error) {
	if hostport == s.host {
		return s.cred, nil
	}
	return auth.EmptyCredential, nil
}

func (s staticStore) Put(context.Context, string, auth.Credential) error { return nil }

func (s staticStore) Delete(context.Context, string) error { return nil }
