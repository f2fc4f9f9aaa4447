package sftp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

	"github.com/williamokano/fastdeploy/pkg/transport"
)

const defaultConcurrency = 4

// Transport implements transport.Transport over SSH/SFTP
type Transport struct {
	logger      zerolog.Logger
	concurrency int
	exclude     []string

	sshClient  *ssh.Client
	sftpClient *sftp.Client
}

var _ transport.Transport = (*Transport)(nil)

// Option configures a Transport
type Option func(*Transport)

// WithConcurrency sets how many files are uploaded in parallel
func WithConcurrency(n int) Option {
	return func(t *Transport) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// WithExclude skips local files and directories matching any of the glob patterns during upload
func WithExclude(patterns []string) Option {
	return func(t *Transport) {
		t.exclude = patterns
	}
}

// New creates a disconnected SFTP transport
func New(logger zerolog.Logger, opts ...Option) *Transport {
	t := &Transport{
		logger:      logger,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Connect dials the SSH server, authenticates and starts the SFTP subsystem
func (t *Transport) Connect(ctx context.Context, creds transport.Credentials) error {
	if t.sftpClient != nil {
		return fmt.Errorf("connect %s: session already open", creds.Host)
	}

	clientConfig, err := buildClientConfig(creds, t.logger)
	if err != nil {
		return err
	}

	port := creds.Port
	if port == 0 {
		port = 22
	}
	addr := net.JoinHostPort(creds.Host, strconv.Itoa(port))

	dialer := net.Dialer{Timeout: clientConfig.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", addr, mapConnectError(err))
	}

	// ssh.ClientConfig.Timeout only covers the TCP dial, bound the handshake too
	if clientConfig.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(clientConfig.Timeout))
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		conn.Close()
		return fmt.Errorf("connect %s: %w", addr, mapConnectError(err))
	}
	_ = conn.SetDeadline(time.Time{})

	sshClient := ssh.NewClient(sshConn, chans, reqs)
	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return fmt.Errorf("connect %s: sftp init: %w: %w", addr, transport.ErrConnFailed, err)
	}

	t.sshClient = sshClient
	t.sftpClient = sftpClient
	return nil
}

// Disconnect closes the SFTP and SSH clients. It is a no-op without an open session.
func (t *Transport) Disconnect() error {
	var errs []error
	if t.sftpClient != nil {
		if err := t.sftpClient.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, fmt.Errorf("close sftp client: %w", err))
		}
		t.sftpClient = nil
	}
	if t.sshClient != nil {
		if err := t.sshClient.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, fmt.Errorf("close ssh client: %w", err))
		}
		t.sshClient = nil
	}
	return errors.Join(errs...)
}

// Exists checks if a remote path exists
func (t *Transport) Exists(ctx context.Context, p string) (bool, error) {
	client, err := t.session(ctx)
	if err != nil {
		return false, err
	}

	if _, err := client.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, wrapRemoteError("stat", p, err)
	}
	return true, nil
}

// Mkdir creates a remote directory
func (t *Transport) Mkdir(ctx context.Context, p string, recursive bool) error {
	client, err := t.session(ctx)
	if err != nil {
		return err
	}

	if recursive {
		err = client.MkdirAll(p)
	} else {
		err = client.Mkdir(p)
	}
	if err != nil {
		return wrapRemoteError("mkdir", p, err)
	}
	return nil
}

// Rename moves a remote path
func (t *Transport) Rename(ctx context.Context, from, to string) error {
	client, err := t.session(ctx)
	if err != nil {
		return err
	}

	if err := client.Rename(from, to); err != nil {
		return wrapRemoteError("rename", from+" -> "+to, err)
	}
	return nil
}

// List returns the entries of a remote directory
func (t *Transport) List(ctx context.Context, p string) ([]transport.FileInfo, error) {
	client, err := t.session(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := client.ReadDir(p)
	if err != nil {
		return nil, wrapRemoteError("list", p, err)
	}

	files := make([]transport.FileInfo, 0, len(entries))
	for _, entry := range entries {
		files = append(files, transport.FileInfo{
			Name:    entry.Name(),
			Size:    entry.Size(),
			ModTime: entry.ModTime(),
			IsDir:   entry.IsDir(),
		})
	}
	return files, nil
}

// RemoveAll deletes a remote path recursively
func (t *Transport) RemoveAll(ctx context.Context, p string) error {
	client, err := t.session(ctx)
	if err != nil {
		return err
	}
	return t.removeAll(ctx, client, p)
}

func (t *Transport) removeAll(ctx context.Context, client *sftp.Client, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := client.Lstat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return wrapRemoteError("stat", p, err)
	}

	if !info.IsDir() {
		if err := client.Remove(p); err != nil {
			return wrapRemoteError("remove", p, err)
		}
		return nil
	}

	entries, err := client.ReadDir(p)
	if err != nil {
		return wrapRemoteError("list", p, err)
	}
	for _, entry := range entries {
		if err := t.removeAll(ctx, client, path.Join(p, entry.Name())); err != nil {
			return err
		}
	}

	if err := client.RemoveDirectory(p); err != nil {
		return wrapRemoteError("rmdir", p, err)
	}
	return nil
}

func (t *Transport) session(ctx context.Context) (*sftp.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.sftpClient == nil {
		return nil, transport.ErrNotConnected
	}
	return t.sftpClient, nil
}
