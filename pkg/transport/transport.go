package transport

import (
	"context"
	"time"
)

// Transport is the remote file-transfer capability used by a deployment.
// One Transport holds at most one session: Connect opens it, Disconnect releases it.
type Transport interface {
	// Connect opens a session with the remote host
	Connect(ctx context.Context, creds Credentials) error

	// Exists reports whether a remote path (file or directory) exists
	Exists(ctx context.Context, path string) (bool, error)

	// Mkdir creates a remote directory, including parents when recursive is true
	Mkdir(ctx context.Context, path string, recursive bool) error

	// Rename moves a remote path to a new location
	Rename(ctx context.Context, from, to string) error

	// UploadDirectory recursively copies a local directory tree to remotePath,
	// creating remotePath and intermediate directories as needed
	UploadDirectory(ctx context.Context, localPath, remotePath string) error

	// List returns the entries of a remote directory
	List(ctx context.Context, path string) ([]FileInfo, error)

	// RemoveAll deletes a remote path and everything below it
	RemoveAll(ctx context.Context, path string) error

	// Disconnect releases the session. Calling it without an open session is a no-op.
	Disconnect() error
}

// Credentials is the resolved connection material handed to Connect.
// Private keys are always inline; key files are read before connecting.
type Credentials struct {
	Host       string
	Port       int
	Username   string
	Password   string
	PrivateKey string
	Passphrase string

	KnownHostsFile        string
	InsecureIgnoreHostKey bool
	Timeout               time.Duration
}

// FileInfo represents metadata about a remote entry
type FileInfo struct {
	Name    string    // Base name
	Size    int64     // Size in bytes
	ModTime time.Time // Last modification time
	IsDir   bool
}
