// Package deploy runs one deployment: connect, optionally rotate the current
// remote tree into a timestamped backup, upload the local build and disconnect.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/williamokano/fastdeploy/pkg/config"
	"github.com/williamokano/fastdeploy/pkg/diagnose"
	"github.com/williamokano/fastdeploy/pkg/rotation"
	"github.com/williamokano/fastdeploy/pkg/transport"
)

var errNotDirectory = errors.New("not a directory")

// Deployer drives a transport through a single deployment
type Deployer struct {
	transport transport.Transport
	logger    zerolog.Logger
	workDir   string
	now       func() time.Time
}

// Option configures a Deployer
type Option func(*Deployer)

// WithWorkDir sets the directory relative paths are resolved against.
// Defaults to the process working directory.
func WithWorkDir(dir string) Option {
	return func(d *Deployer) {
		d.workDir = dir
	}
}

// WithClock overrides the clock used for backup timestamps
func WithClock(now func() time.Time) Option {
	return func(d *Deployer) {
		d.now = now
	}
}

// New creates a Deployer that owns t for the duration of each Deploy call
func New(t transport.Transport, logger zerolog.Logger, opts ...Option) *Deployer {
	d := &Deployer{
		transport: t,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			d.workDir = wd
		} else {
			d.workDir = "."
		}
	}

	return d
}

// Deploy uploads opts.LocalPath to opts.RemotePath.
// The transport is disconnected exactly once on every path after Connect is attempted.
func (d *Deployer) Deploy(ctx context.Context, opts *config.DeployOptions) error {
	if err := opts.Validate(); err != nil {
		d.logger.Error().Err(err).Msg("invalid deploy configuration")
		return &ConfigurationError{Err: err}
	}

	creds := d.resolveCredentials(opts.Server)

	defer d.teardown()

	d.logger.Info().
		Str("host", creds.Host).
		Int("port", creds.Port).
		Str("username", creds.Username).
		Msg("Connecting to host")

	if err := d.transport.Connect(ctx, creds); err != nil {
		return d.transportFailure(StageConnect, err, opts)
	}

	d.logger.Debug().Str("host", creds.Host).Msg("connected")

	localPath, err := d.resolveLocalPath(opts.GetLocalPath())
	if err != nil {
		return d.localFailure(err, opts)
	}

	backedUp := false
	if opts.BackupEnabled() {
		backedUp, err = d.rotate(ctx, opts)
		if err != nil {
			return d.transportFailure(StageBackup, err, opts)
		}
	}

	d.logger.Info().
		Str("local_path", localPath).
		Str("remote_path", opts.RemotePath).
		Msg("Uploading")

	if err := d.transport.UploadDirectory(ctx, localPath, opts.RemotePath); err != nil {
		return d.transportFailure(StageUpload, err, opts)
	}

	if backedUp && opts.KeepBackups > 0 {
		if err := rotation.Prune(ctx, d.transport, opts.BackupPath, opts.RemotePath, opts.KeepBackups, d.logger); err != nil {
			d.logger.Warn().Err(err).Str("backup_path", opts.BackupPath).Msg("failed to prune old backups")
		}
	}

	d.logger.Info().
		Str("remote_path", opts.RemotePath).
		Str("host", creds.Host).
		Msg("deploy completed successfully")

	return nil
}

// rotate moves the current remote tree aside. It reports whether a backup was taken.
func (d *Deployer) rotate(ctx context.Context, opts *config.DeployOptions) (bool, error) {
	exists, err := d.transport.Exists(ctx, opts.RemotePath)
	if err != nil {
		return false, err
	}
	if !exists {
		d.logger.Info().
			Str("remote_path", opts.RemotePath).
			Msg("remote path does not exist, skipping backup")
		return false, nil
	}

	backupDirExists, err := d.transport.Exists(ctx, opts.BackupPath)
	if err != nil {
		return false, err
	}
	if !backupDirExists {
		d.logger.Debug().Str("backup_path", opts.BackupPath).Msg("creating backup directory")
		if err := d.transport.Mkdir(ctx, opts.BackupPath, true); err != nil {
			return false, err
		}
	}

	target := rotation.BackupTarget(opts.BackupPath, opts.RemotePath, d.now())

	d.logger.Info().
		Str("from", opts.RemotePath).
		Str("to", target).
		Msg("Backing up")

	if err := d.transport.Rename(ctx, opts.RemotePath, target); err != nil {
		return false, err
	}

	d.logger.Info().Str("backup", target).Msg("Backup created at")
	return true, nil
}

// resolveCredentials builds the transport credentials without touching server.
// A private key path that cannot be read only produces a warning.
func (d *Deployer) resolveCredentials(server *config.ServerConfig) transport.Credentials {
	creds := transport.Credentials{
		Host:                  server.Host,
		Port:                  server.GetPort(),
		Username:              server.Username,
		Password:              server.Password,
		PrivateKey:            server.PrivateKey,
		Passphrase:            server.Passphrase,
		KnownHostsFile:        server.KnownHostsFile,
		InsecureIgnoreHostKey: server.InsecureIgnoreHostKey,
		Timeout:               server.GetTimeout(),
	}

	if creds.PrivateKey != "" || server.PrivateKeyPath == "" {
		return creds
	}

	keyPath := d.resolvePath(server.PrivateKeyPath)
	key, err := os.ReadFile(keyPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		d.logger.Warn().
			Str("private_key_path", keyPath).
			Msg("private key file not found, continuing without a private key")
	case err != nil:
		d.logger.Warn().
			Err(err).
			Str("private_key_path", keyPath).
			Msg("could not read private key file, continuing without a private key")
	default:
		creds.PrivateKey = string(key)
	}

	return creds
}

func (d *Deployer) resolveLocalPath(localPath string) (string, error) {
	resolved := d.resolvePath(localPath)

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &LocalPreconditionError{Path: resolved, Err: err}
	}
	if !info.IsDir() {
		return "", &LocalPreconditionError{Path: resolved, Err: errNotDirectory}
	}

	return resolved, nil
}

func (d *Deployer) resolvePath(p string) string {
	if strings.HasPrefix(p, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, p[2:])
		}
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(d.workDir, p)
}

func (d *Deployer) transportFailure(stage Stage, err error, opts *config.DeployOptions) error {
	tErr := &TransportError{Stage: stage, Err: err}
	if diagnosis := diagnose.Classify(err, opts.Server, opts.RemotePath); diagnosis != nil {
		tErr.Kind = diagnosis.Kind
		diagnosis.Report(d.logger)
	}
	return fmt.Errorf("deploy to %s: %w", opts.RemotePath, tErr)
}

func (d *Deployer) localFailure(err error, opts *config.DeployOptions) error {
	if diagnosis := diagnose.Classify(err, opts.Server, opts.RemotePath); diagnosis != nil {
		diagnosis.Report(d.logger)
	}
	return err
}

func (d *Deployer) teardown() {
	if err := d.transport.Disconnect(); err != nil {
		d.logger.Error().Err(&TeardownError{Err: err}).Msg("failed to close connection")
		return
	}
	d.logger.Debug().Msg("disconnected")
}
