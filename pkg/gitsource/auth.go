package gitsource

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"maso-hq/masolint/pkg/config"
)

// Auth types accepted in source.auth.type.
const (
	AuthNone  = "none"
	AuthToken = "token"
	AuthSSH   = "ssh"
)

// AuthProvider supplies transport credentials for clone and pull.
type AuthProvider interface {
	// GetAuth returns the transport auth method, nil for anonymous access.
	GetAuth() (transport.AuthMethod, error)

	// Type returns the auth type for logging.
	Type() string
}

// TokenAuth authenticates over HTTPS with a personal access token.
type TokenAuth struct {
	token string
}

// NewTokenAuth creates token authentication.
func NewTokenAuth(token string) *TokenAuth {
	return &TokenAuth{token: token}
}

// GetAuth returns HTTP basic auth with the token as password.
func (a *TokenAuth) GetAuth() (transport.AuthMethod, error) {
	if a.token == "" {
		return nil, errors.New("token cannot be empty")
	}
	return &http.BasicAuth{
		Username: "git", // ignored by token-accepting hosts
		Password: a.token,
	}, nil
}

// Type returns "token".
func (a *TokenAuth) Type() string { return AuthToken }

// SSHAuth authenticates with a private key file.
type SSHAuth struct {
	keyPath    string
	passphrase string
}

// NewSSHAuth creates SSH key authentication. passphrase may be empty.
func NewSSHAuth(keyPath, passphrase string) *SSHAuth {
	return &SSHAuth{keyPath: keyPath, passphrase: passphrase}
}

// GetAuth loads the key. The key file must not be readable by group or
// others.
func (a *SSHAuth) GetAuth() (transport.AuthMethod, error) {
	if a.keyPath == "" {
		return nil, errors.New("ssh key path cannot be empty")
	}

	info, err := os.Stat(a.keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access SSH key file: %w", err)
	}
	if mode := info.Mode().Perm(); mode&0o077 != 0 {
		return nil, fmt.Errorf("SSH key file permissions too open (%o), should be 0600", mode)
	}

	auth, err := ssh.NewPublicKeysFromFile("git", a.keyPath, a.passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key: %w", err)
	}
	return auth, nil
}

// Type returns "ssh".
func (a *SSHAuth) Type() string { return AuthSSH }

// NoAuth is used for public repositories and local paths.
type NoAuth struct{}

// GetAuth returns nil.
func (NoAuth) GetAuth() (transport.AuthMethod, error) { return nil, nil }

// Type returns "none".
func (NoAuth) Type() string { return AuthNone }

// NewAuthProvider creates the provider named by cfg.Type.
func NewAuthProvider(cfg config.SourceAuthConfig) (AuthProvider, error) {
	switch cfg.Type {
	case AuthToken:
		if cfg.Token == "" {
			return nil, errors.New("token auth requires non-empty token")
		}
		return NewTokenAuth(cfg.Token), nil
	case AuthSSH:
		if cfg.SSHKeyPath == "" {
			return nil, errors.New("ssh auth requires ssh_key_path")
		}
		return NewSSHAuth(cfg.SSHKeyPath, cfg.SSHKeyPassphrase), nil
	case AuthNone, "":
		return NoAuth{}, nil
	default:
		return nil, fmt.Errorf("unknown auth type: %s", cfg.Type)
	}
}
