package sftp

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"net"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/williamokano/fastdeploy/pkg/transport"
)

func generateKey(t *testing.T, passphrase string) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	var block *pem.Block
	if passphrase != "" {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "", []byte(passphrase))
	} else {
		block, err = ssh.MarshalPrivateKey(priv, "")
	}
	require.NoError(t, err)
	return string(pem.EncodeToMemory(block))
}

func TestBuildAuthMethods(t *testing.T) {
	t.Run("password only", func(t *testing.T) {
		methods, err := buildAuthMethods(transport.Credentials{Password: "secret"})
		require.NoError(t, err)
		// password plus keyboard-interactive fallback
		assert.Len(t, methods, 2)
	})

	t.Run("private key only", func(t *testing.T) {
		methods, err := buildAuthMethods(transport.Credentials{PrivateKey: generateKey(t, "")})
		require.NoError(t, err)
		assert.Len(t, methods, 1)
	})

	t.Run("key and password", func(t *testing.T) {
		methods, err := buildAuthMethods(transport.Credentials{
			PrivateKey: generateKey(t, ""),
			Password:   "secret",
		})
		require.NoError(t, err)
		assert.Len(t, methods, 3)
	})

	t.Run("encrypted key with passphrase", func(t *testing.T) {
		methods, err := buildAuthMethods(transport.Credentials{
			PrivateKey: generateKey(t, "hunter2"),
			Passphrase: "hunter2",
		})
		require.NoError(t, err)
		assert.Len(t, methods, 1)
	})

	t.Run("encrypted key without passphrase", func(t *testing.T) {
		_, err := buildAuthMethods(transport.Credentials{PrivateKey: generateKey(t, "hunter2")})
		require.Error(t, err)
		assert.ErrorIs(t, err, transport.ErrAuthFailed)
		assert.Contains(t, err.Error(), "passphrase")
	})

	t.Run("garbage key", func(t *testing.T) {
		_, err := buildAuthMethods(transport.Credentials{PrivateKey: "not a key"})
		assert.ErrorIs(t, err, transport.ErrAuthFailed)
	})

	t.Run("no credentials", func(t *testing.T) {
		methods, err := buildAuthMethods(transport.Credentials{})
		require.NoError(t, err)
		assert.Empty(t, methods)
	})
}

func TestBuildHostKeyCallback(t *testing.T) {
	t.Run("insecure", func(t *testing.T) {
		cb, err := buildHostKeyCallback(transport.Credentials{InsecureIgnoreHostKey: true}, zerolog.Nop())
		require.NoError(t, err)
		assert.NotNil(t, cb)
	})

	t.Run("missing known_hosts file", func(t *testing.T) {
		_, err := buildHostKeyCallback(transport.Credentials{
			KnownHostsFile: filepath.Join(t.TempDir(), "known_hosts"),
		}, zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("known_hosts file", func(t *testing.T) {
		pub, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		sshPub, err := ssh.NewPublicKey(pub)
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "known_hosts")
		line := "example.com " + string(ssh.MarshalAuthorizedKey(sshPub))
		require.NoError(t, os.WriteFile(path, []byte(line), 0o600))

		cb, err := buildHostKeyCallback(transport.Credentials{KnownHostsFile: path}, zerolog.Nop())
		require.NoError(t, err)

		addr := &net.TCPAddr{IP: net.ParseIP("93.184.216.34"), Port: 22}
		assert.NoError(t, cb("example.com:22", addr, sshPub))

		otherPub, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		otherKey, err := ssh.NewPublicKey(otherPub)
		require.NoError(t, err)
		assert.Error(t, cb("example.com:22", addr, otherKey))
	})
}

func TestMapConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "dns not found",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true}},
			want: transport.ErrHostNotFound,
		},
		{
			name: "connection refused",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)},
			want: transport.ErrConnRefused,
		},
		{
			name: "deadline exceeded",
			err:  &net.OpError{Op: "read", Net: "tcp", Err: os.ErrDeadlineExceeded},
			want: transport.ErrTimeout,
		},
		{
			name: "authentication",
			err:  errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [none password], no supported methods remain"),
			want: transport.ErrAuthFailed,
		},
		{
			name: "other",
			err:  errors.New("ssh: handshake failed: EOF"),
			want: transport.ErrConnFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapConnectError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestWrapRemoteError(t *testing.T) {
	t.Run("status permission denied", func(t *testing.T) {
		raw := &sftp.StatusError{Code: uint32(sftp.ErrSSHFxPermissionDenied)}
		err := wrapRemoteError("mkdir", "/var/www", raw)
		assert.ErrorIs(t, err, transport.ErrPermissionDenied)
		assert.Contains(t, err.Error(), "mkdir /var/www")
	})

	t.Run("os permission", func(t *testing.T) {
		err := wrapRemoteError("rename", "/a -> /b", os.ErrPermission)
		assert.ErrorIs(t, err, transport.ErrPermissionDenied)
		assert.ErrorIs(t, err, os.ErrPermission)
	})

	t.Run("other failure", func(t *testing.T) {
		err := wrapRemoteError("stat", "/x", errors.New("boom"))
		assert.NotErrorIs(t, err, transport.ErrPermissionDenied)
		assert.EqualError(t, err, "stat /x: boom")
	})
}
