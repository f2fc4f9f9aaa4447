package config

import "fmt"

// ValidationError reports the first configuration field that violates the model
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// Validate checks the invariants of a deployment request.
// It never touches the filesystem or the network.
func (o *DeployOptions) Validate() error {
	if o == nil {
		return &ValidationError{Field: "options", Reason: "are required"}
	}
	if o.Server == nil {
		return &ValidationError{Field: "server", Reason: "is required"}
	}
	if o.RemotePath == "" {
		return &ValidationError{Field: "remotePath", Reason: "is required"}
	}
	return o.Server.Validate()
}

// Validate checks that host, username and at least one credential are present
func (s *ServerConfig) Validate() error {
	if s.Host == "" {
		return &ValidationError{Field: "server.host", Reason: "is required"}
	}
	if s.Username == "" {
		return &ValidationError{Field: "server.username", Reason: "is required"}
	}
	if !s.HasCredentials() {
		return &ValidationError{
			Field:  "server",
			Reason: "must include a password, privateKey or privateKeyPath",
		}
	}
	if s.Port < 0 || s.Port > 65535 {
		return &ValidationError{Field: "server.port", Reason: "must be between 1 and 65535"}
	}
	return nil
}
