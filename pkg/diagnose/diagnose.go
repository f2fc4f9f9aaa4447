// Package diagnose maps deployment failures to actionable diagnostic categories.
//
// Classification is advisory only: it never changes what the caller does with
// the error, it only explains it.
package diagnose

import (
	"errors"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/williamokano/fastdeploy/pkg/config"
	"github.com/williamokano/fastdeploy/pkg/transport"
)

// Kind is a diagnostic category
type Kind string

const (
	KindNone                   Kind = ""
	KindRemotePermissionDenied Kind = "remote-permission-denied"
	KindAuthenticationFailed   Kind = "authentication-failed"
	KindConnectionFailed       Kind = "connection-failed"
)

// Field is one piece of context shown with a diagnosis
type Field struct {
	Name  string
	Value string
}

// Diagnosis explains a classified failure
type Diagnosis struct {
	Kind     Kind
	Headline string
	Context  []Field
	Causes   []string
	Advice   string
}

// Classify inspects err and returns the matching diagnosis, or nil when no rule matches.
// Rules are evaluated in order: permission, authentication, connection.
func Classify(err error, server *config.ServerConfig, remotePath string) *Diagnosis {
	if err == nil {
		return nil
	}
	if server == nil {
		server = &config.ServerConfig{}
	}

	switch {
	case isPermissionDenied(err):
		return &Diagnosis{
			Kind:     KindRemotePermissionDenied,
			Headline: "Permission denied accessing or creating remote directory.",
			Context:  []Field{{"Target path", remotePath}},
			Causes: []string{
				"The remote directory does not exist, and the current user does not have permission to create it.",
				"The current user does not have write permission for the existing remote directory.",
			},
			Advice: "Please verify the remote path and user permissions on the server.",
		}
	case isAuthenticationFailure(err):
		return &Diagnosis{
			Kind:     KindAuthenticationFailed,
			Headline: "SSH authentication failed.",
			Context:  []Field{{"Host", server.Host}, {"Username", server.Username}},
			Causes: []string{
				"Incorrect password or private key.",
				"Incorrect username.",
				"The server does not support the configured authentication method.",
			},
			Advice: "Please verify your credentials and server configuration.",
		}
	case isConnectionFailure(err):
		return &Diagnosis{
			Kind:     KindConnectionFailed,
			Headline: "Could not connect to server.",
			Context:  []Field{{"Host", server.Host}, {"Port", strconv.Itoa(server.GetPort())}},
			Causes: []string{
				"The hostname or IP address is incorrect.",
				"The server is down or not reachable.",
				"The port is blocked by a firewall.",
			},
			Advice: "Please check your network connection and server status.",
		}
	}

	return nil
}

// Report writes the diagnosis to logger: the headline and context as an error,
// then one numbered warning per likely cause and the advice.
func (d *Diagnosis) Report(logger zerolog.Logger) {
	if d == nil {
		return
	}

	event := logger.Error().Str("category", string(d.Kind))
	for _, f := range d.Context {
		event = event.Str(strings.ToLower(strings.ReplaceAll(f.Name, " ", "_")), f.Value)
	}
	event.Msg("Error: " + d.Headline)

	logger.Warn().Msg("Possible reasons:")
	for i, cause := range d.Causes {
		logger.Warn().Msg(strconv.Itoa(i+1) + ". " + cause)
	}
	logger.Warn().Msg(d.Advice)
}

func isPermissionDenied(err error) bool {
	return errors.Is(err, transport.ErrPermissionDenied) ||
		errors.Is(err, fs.ErrPermission) ||
		strings.Contains(strings.ToLower(err.Error()), "permission denied")
}

func isAuthenticationFailure(err error) bool {
	if errors.Is(err, transport.ErrAuthFailed) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "All configured authentication methods failed") ||
		strings.Contains(msg, "unable to authenticate")
}

func isConnectionFailure(err error) bool {
	if transport.IsConnectionError(err) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
