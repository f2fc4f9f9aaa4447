package config

import "time"

const (
	DefaultLocalPath   = "dist"
	DefaultPort        = 22
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 4
)

// ServerConfig holds the connection credentials for one remote host
type ServerConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port,omitempty"` // default: 22
	Username       string `json:"username"`
	Password       string `json:"password,omitempty"`       // optional
	PrivateKey     string `json:"privateKey,omitempty"`     // optional: inline key material
	PrivateKeyPath string `json:"privateKeyPath,omitempty"` // optional: path to private key
	Passphrase     string `json:"passphrase,omitempty"`     // optional: decrypts the private key

	KnownHostsFile        string `json:"knownHostsFile,omitempty"`
	InsecureIgnoreHostKey bool   `json:"insecureIgnoreHostKey,omitempty"`
	Timeout               int    `json:"timeout,omitempty"` // seconds, default: 30
}

// DeployOptions describes a single deployment request
type DeployOptions struct {
	LocalPath   string        `json:"localPath,omitempty"` // default: dist
	RemotePath  string        `json:"remotePath"`
	Server      *ServerConfig `json:"server"`
	BackupPath  string        `json:"backupPath,omitempty"`  // empty disables backup rotation
	KeepBackups int           `json:"keepBackups,omitempty"` // 0 = keep all backups
	Exclude     []string      `json:"exclude,omitempty"`
	Concurrency int           `json:"concurrency,omitempty"` // parallel file uploads, default: 4
	LogLevel    string        `json:"logLevel,omitempty"`    // debug, info, warn, error (default: info)
	LogFormat   string        `json:"logFormat,omitempty"`   // console, json (default: console)
}

// GetPort returns the SSH port (defaults to 22)
func (s *ServerConfig) GetPort() int {
	if s.Port > 0 {
		return s.Port
	}
	return DefaultPort
}

// GetTimeout returns the connection timeout (defaults to 30s)
func (s *ServerConfig) GetTimeout() time.Duration {
	if s.Timeout > 0 {
		return time.Duration(s.Timeout) * time.Second
	}
	return DefaultTimeout
}

// HasCredentials reports whether a password or some form of private key is configured
func (s *ServerConfig) HasCredentials() bool {
	return s.Password != "" || s.PrivateKey != "" || s.PrivateKeyPath != ""
}

// GetLocalPath returns the local directory to upload (defaults to dist)
func (o *DeployOptions) GetLocalPath() string {
	if o.LocalPath != "" {
		return o.LocalPath
	}
	return DefaultLocalPath
}

// BackupEnabled reports whether the previous remote contents should be rotated
func (o *DeployOptions) BackupEnabled() bool {
	return o.BackupPath != ""
}

// GetConcurrency returns the number of parallel file uploads (defaults to 4)
func (o *DeployOptions) GetConcurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return DefaultConcurrency
}

// GetLogLevel returns the log level (defaults to info)
func (o *DeployOptions) GetLogLevel() string {
	if o.LogLevel != "" {
		return o.LogLevel
	}
	return "info"
}

// GetLogFormat returns the log format (defaults to console)
func (o *DeployOptions) GetLogFormat() string {
	if o.LogFormat != "" {
		return o.LogFormat
	}
	return "console"
}
