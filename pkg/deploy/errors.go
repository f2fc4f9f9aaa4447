package deploy

import (
	"fmt"

	"github.com/williamokano/fastdeploy/pkg/diagnose"
)

// Stage names the deploy step a TransportError came from
type Stage string

const (
	StageConnect Stage = "connect"
	StageBackup  Stage = "backup"
	StageUpload  Stage = "upload"
)

// ConfigurationError is returned when the deploy options are invalid.
// No transport call is made before it is returned.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// LocalPreconditionError is returned when the local source directory is unusable
type LocalPreconditionError struct {
	Path string
	Err  error
}

func (e *LocalPreconditionError) Error() string {
	return fmt.Sprintf("local path %s: %v", e.Path, e.Err)
}

func (e *LocalPreconditionError) Unwrap() error {
	return e.Err
}

// TransportError is a failure that originated on the remote side
type TransportError struct {
	Stage Stage
	Kind  diagnose.Kind
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// TeardownError wraps a failure to close the transport session.
// It is logged but never returned in place of an earlier failure.
type TeardownError struct {
	Err error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("teardown failed: %v", e.Err)
}

func (e *TeardownError) Unwrap() error {
	return e.Err
}
