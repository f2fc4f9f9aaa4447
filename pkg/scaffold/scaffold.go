// Package scaffold prepares a project directory for fastdeploy.
package scaffold

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/williamokano/fastdeploy/pkg/config"
)

const (
	PackageJSONName = "package.json"
	GitignoreName   = ".gitignore"

	// PublishScript is the npm script name added to package.json
	PublishScript  = "publish"
	publishCommand = "fastdeploy"

	// IgnoreEntry keeps every config variant, and the credentials in it, out of git
	IgnoreEntry = config.BaseConfigName + "*"
)

// Result reports what Init changed
type Result struct {
	ConfigCreated    bool
	ScriptAdded      bool
	GitignoreUpdated bool
}

// DefaultConfig returns the configuration written by Init
func DefaultConfig() *config.DeployOptions {
	return &config.DeployOptions{
		LocalPath:  config.DefaultLocalPath,
		RemotePath: "/var/www/html/my-app",
		Server: &config.ServerConfig{
			Host:     "192.168.1.100",
			Username: "user",
			Password: "password",
			Port:     config.DefaultPort,
		},
		BackupPath: "/var/www/backups",
	}
}

// Init writes a default .fastdeploy into dir, adds a publish script to
// package.json and makes sure .gitignore excludes the config files.
// Existing files and entries are left alone, so running it twice is safe.
// Only a failure to write the config file is returned; package.json and
// .gitignore problems are logged.
func Init(dir string, logger zerolog.Logger) (Result, error) {
	var result Result

	created, err := writeDefaultConfig(filepath.Join(dir, config.BaseConfigName))
	if err != nil {
		return result, fmt.Errorf("failed to create %s: %w", config.BaseConfigName, err)
	}
	result.ConfigCreated = created
	if created {
		logger.Info().Msg("Created .fastdeploy configuration file.")
	} else {
		logger.Info().Msg(".fastdeploy configuration file already exists.")
	}

	added, err := addPublishScript(filepath.Join(dir, PackageJSONName))
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Warn().Msg("package.json not found in the current directory.")
	case err != nil:
		logger.Error().Err(err).Msg("Failed to parse or update package.json")
	case added:
		result.ScriptAdded = true
		logger.Info().Msg(`Added "publish" script to package.json.`)
	default:
		logger.Info().Msg(`"publish" script already exists in package.json.`)
	}

	updated, err := ensureIgnored(filepath.Join(dir, GitignoreName))
	switch {
	case err != nil:
		logger.Error().Err(err).Msg("Failed to update .gitignore")
	case updated:
		result.GitignoreUpdated = true
		logger.Info().Msgf("Added %q to .gitignore.", IgnoreEntry)
	default:
		logger.Info().Msgf("%q already exists in .gitignore.", IgnoreEntry)
	}

	return result, nil
}

func writeDefaultConfig(path string) (bool, error) {
	data, err := marshalIndent(DefaultConfig())
	if err != nil {
		return false, err
	}

	// O_EXCL so an existing config is never overwritten
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return false, err
	}
	return true, f.Close()
}

// addPublishScript appends scripts.publish unless it is already defined.
// Keys keep the order they have in the file.
func addPublishScript(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	pkg, err := decodeObject(data)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", PackageJSONName, err)
	}

	var scripts object
	if raw, ok := pkg.get("scripts"); ok && string(raw) != "null" {
		if scripts, err = decodeObject(raw); err != nil {
			return false, fmt.Errorf("invalid scripts in %s: %w", PackageJSONName, err)
		}
	}

	if existing, ok := scripts.get(PublishScript); ok && string(existing) != `""` {
		return false, nil
	}

	command, err := encodeString(publishCommand)
	if err != nil {
		return false, err
	}
	scripts.set(PublishScript, command)

	rawScripts, err := scripts.encode()
	if err != nil {
		return false, err
	}
	pkg.set("scripts", rawScripts)

	compact, err := pkg.encode()
	if err != nil {
		return false, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return false, err
	}
	out.WriteByte('\n')

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, out.Bytes(), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

type member struct {
	key   string
	value json.RawMessage
}

// object is a JSON object that remembers the order of its keys
type object []member

func decodeObject(data []byte) (object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("expected a JSON object")
	}

	obj := object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		obj.set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func (o object) get(key string) (json.RawMessage, bool) {
	for _, m := range o {
		if m.key == key {
			return m.value, true
		}
	}
	return nil, false
}

// set replaces the value of key in place, or appends key when it is new
func (o *object) set(key string, value json.RawMessage) {
	for i := range *o {
		if (*o)[i].key == key {
			(*o)[i].value = value
			return
		}
	}
	*o = append(*o, member{key: key, value: value})
}

func (o object) encode() (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeString(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeString(s string) (json.RawMessage, error) {
	data, err := marshalIndent(s)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(data, "\n"), nil
}

// ensureIgnored appends IgnoreEntry to the gitignore file, creating it when missing
func ensureIgnored(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	content := string(data)
	if strings.Contains(content, IgnoreEntry) {
		return false, nil
	}

	var entry string
	if content != "" && !strings.HasSuffix(content, "\n") {
		entry = "\n"
	}
	entry += IgnoreEntry + "\n"

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return false, err
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return false, err
	}
	return true, f.Close()
}

func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
