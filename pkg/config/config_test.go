package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerConfig_Defaults(t *testing.T) {
	s := &ServerConfig{Host: "h", Username: "u", Password: "p"}
	assert.Equal(t, 22, s.GetPort())
	assert.Equal(t, 30*time.Second, s.GetTimeout())

	s.Port = 2222
	s.Timeout = 5
	assert.Equal(t, 2222, s.GetPort())
	assert.Equal(t, 5*time.Second, s.GetTimeout())
}

func TestDeployOptions_Defaults(t *testing.T) {
	opts := &DeployOptions{}
	assert.Equal(t, "dist", opts.GetLocalPath())
	assert.Equal(t, 4, opts.GetConcurrency())
	assert.Equal(t, "info", opts.GetLogLevel())
	assert.Equal(t, "console", opts.GetLogFormat())
	assert.False(t, opts.BackupEnabled())

	opts.LocalPath = "build"
	opts.BackupPath = "/backups"
	assert.Equal(t, "build", opts.GetLocalPath())
	assert.True(t, opts.BackupEnabled())
}

func TestDeployOptions_Validate(t *testing.T) {
	tests := []struct {
		name      string
		opts      DeployOptions
		wantField string
	}{
		{
			name:      "missing server",
			opts:      DeployOptions{RemotePath: "/var/www/app"},
			wantField: "server",
		},
		{
			name:      "missing remote path",
			opts:      DeployOptions{Server: &ServerConfig{Host: "h", Username: "u", Password: "p"}},
			wantField: "remotePath",
		},
		{
			name:      "missing host",
			opts:      DeployOptions{RemotePath: "/app", Server: &ServerConfig{Username: "u", Password: "p"}},
			wantField: "server.host",
		},
		{
			name:      "missing username",
			opts:      DeployOptions{RemotePath: "/app", Server: &ServerConfig{Host: "h", Password: "p"}},
			wantField: "server.username",
		},
		{
			name:      "missing credentials",
			opts:      DeployOptions{RemotePath: "/app", Server: &ServerConfig{Host: "h", Username: "u"}},
			wantField: "server",
		},
		{
			name:      "port out of range",
			opts:      DeployOptions{RemotePath: "/app", Server: &ServerConfig{Host: "h", Username: "u", Password: "p", Port: 70000}},
			wantField: "server.port",
		},
		{
			name: "password",
			opts: DeployOptions{RemotePath: "/app", Server: &ServerConfig{Host: "h", Username: "u", Password: "p"}},
		},
		{
			name: "inline key",
			opts: DeployOptions{RemotePath: "/app", Server: &ServerConfig{Host: "h", Username: "u", PrivateKey: "---"}},
		},
		{
			name: "key path",
			opts: DeployOptions{RemotePath: "/app", Server: &ServerConfig{Host: "h", Username: "u", PrivateKeyPath: "~/.ssh/id_ed25519"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestParseConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".fastdeploy")
	content := `{
  "localPath": "build",
  "remotePath": "/var/www/html/my-app",
  "server": {
    "host": "192.168.1.100",
    "username": "user",
    "privateKeyPath": "~/.ssh/id_rsa",
    "port": 2222
  },
  "backupPath": "/var/www/backups",
  "keepBackups": 5
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	opts, err := ParseConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "build", opts.LocalPath)
	assert.Equal(t, "/var/www/html/my-app", opts.RemotePath)
	assert.Equal(t, "/var/www/backups", opts.BackupPath)
	assert.Equal(t, 5, opts.KeepBackups)
	require.NotNil(t, opts.Server)
	assert.Equal(t, "192.168.1.100", opts.Server.Host)
	assert.Equal(t, "user", opts.Server.Username)
	assert.Equal(t, "~/.ssh/id_rsa", opts.Server.PrivateKeyPath)
	assert.Equal(t, 2222, opts.Server.GetPort())
}

func TestParseConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".fastdeploy")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := ParseConfig(path)
	assert.ErrorContains(t, err, "valid JSON")
}

func TestParseConfig_MissingFile(t *testing.T) {
	_, err := ParseConfig(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
