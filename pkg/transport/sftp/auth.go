package sftp

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/williamokano/fastdeploy/pkg/transport"
)

func buildClientConfig(creds transport.Credentials, logger zerolog.Logger) (*ssh.ClientConfig, error) {
	authMethods, err := buildAuthMethods(creds)
	if err != nil {
		return nil, err
	}

	hostKeyCallback, err := buildHostKeyCallback(creds, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure host key verification: %w", err)
	}

	return &ssh.ClientConfig{
		User:            creds.Username,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         creds.Timeout,
	}, nil
}

// buildAuthMethods offers the private key first, then the password.
// An empty result is valid: the server then rejects the "none" method
// and Connect fails with ErrAuthFailed.
func buildAuthMethods(creds transport.Credentials) ([]ssh.AuthMethod, error) {
	var authMethods []ssh.AuthMethod

	if creds.PrivateKey != "" {
		signer, err := parsePrivateKey([]byte(creds.PrivateKey), creds.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", transport.ErrAuthFailed, err)
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	}

	if creds.Password != "" {
		password := creds.Password
		authMethods = append(authMethods,
			ssh.Password(password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		)
	}

	return authMethods, nil
}

func parsePrivateKey(key []byte, passphrase string) (ssh.Signer, error) {
	if passphrase != "" {
		signer, err := ssh.ParsePrivateKeyWithPassphrase(key, []byte(passphrase))
		if err != nil {
			return nil, fmt.Errorf("failed to parse SSH key with passphrase: %w", err)
		}
		return signer, nil
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("SSH key is encrypted, set server.passphrase: %w", err)
		}
		return nil, fmt.Errorf("failed to parse SSH key: %w", err)
	}
	return signer, nil
}

func buildHostKeyCallback(creds transport.Credentials, logger zerolog.Logger) (ssh.HostKeyCallback, error) {
	if creds.InsecureIgnoreHostKey {
		logger.Warn().
			Str("host", creds.Host).
			Msg("SSH host key verification disabled, this is insecure")
		return ssh.InsecureIgnoreHostKey(), nil
	}

	if creds.KnownHostsFile != "" {
		knownHostsPath := expandHome(creds.KnownHostsFile)
		callback, err := knownhosts.New(knownHostsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load known_hosts file %s: %w", knownHostsPath, err)
		}
		return callback, nil
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		defaultKnownHosts := filepath.Join(homeDir, ".ssh", "known_hosts")
		if _, err := os.Stat(defaultKnownHosts); err == nil {
			callback, err := knownhosts.New(defaultKnownHosts)
			if err == nil {
				return acceptUnknownHosts(callback, logger), nil
			}
			logger.Warn().Err(err).Str("file", defaultKnownHosts).Msg("could not parse known_hosts file")
		}
	}

	logger.Warn().
		Str("host", creds.Host).
		Msg("no known_hosts file found, host key verification disabled")
	return ssh.InsecureIgnoreHostKey(), nil
}

// acceptUnknownHosts rejects changed host keys but lets hosts that are missing
// from the default known_hosts file through with a warning.
func acceptUnknownHosts(callback ssh.HostKeyCallback, logger zerolog.Logger) ssh.HostKeyCallback {
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := callback(hostname, remote, key)
		var keyErr *knownhosts.KeyError
		if errors.As(err, &keyErr) && len(keyErr.Want) == 0 {
			logger.Warn().
				Str("host", hostname).
				Str("fingerprint", ssh.FingerprintSHA256(key)).
				Msg("host is not in known_hosts, accepting its key")
			return nil
		}
		return err
	}
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, p[2:])
		}
	}
	return p
}

// mapConnectError tags dial and handshake failures with a transport sentinel
// while keeping the raw error in the chain.
func mapConnectError(err error) error {
	var dnsErr *net.DNSError
	var netErr net.Error

	switch {
	case errors.As(err, &dnsErr) && dnsErr.IsNotFound:
		return fmt.Errorf("%w: %w", transport.ErrHostNotFound, err)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("%w: %w", transport.ErrConnRefused, err)
	case errors.Is(err, os.ErrDeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %w", transport.ErrTimeout, err)
	case strings.Contains(err.Error(), "unable to authenticate"):
		return fmt.Errorf("%w: %w", transport.ErrAuthFailed, err)
	default:
		return fmt.Errorf("%w: %w", transport.ErrConnFailed, err)
	}
}

func wrapRemoteError(operation, p string, err error) error {
	if isPermissionError(err) {
		return transport.WrapError(operation, p, fmt.Errorf("%w: %w", transport.ErrPermissionDenied, err))
	}
	return transport.WrapError(operation, p, err)
}

func isPermissionError(err error) bool {
	if errors.Is(err, os.ErrPermission) {
		return true
	}
	var statusErr *sftp.StatusError
	return errors.As(err, &statusErr) && statusErr.FxCode() == sftp.ErrSSHFxPermissionDenied
}
