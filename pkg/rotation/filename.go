package rotation

import (
	"fmt"
	"path"
	"strings"
	"time"
)

const (
	// TimestampLayout renders backup timestamps in UTC to the millisecond.
	// The '.' before the milliseconds is written as '-', so names carry no ':' or '.'
	// and still sort chronologically: 2024-12-17T15-04-05-123Z
	TimestampLayout = "2006-01-02T15-04-05.000Z"

	// secondsLayout is the millisecond-less form, still accepted when parsing
	secondsLayout = "2006-01-02T15-04-05Z"

	// Separator joins the target directory name and the timestamp
	Separator = "-"
)

// FormatTimestamp renders t with TimestampLayout in UTC
func FormatTimestamp(t time.Time) string {
	return strings.Replace(t.UTC().Format(TimestampLayout), ".", Separator, 1)
}

// ParseTimestamp parses a timestamp produced by FormatTimestamp.
// Timestamps without milliseconds are accepted too.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(secondsLayout, s); err == nil {
		return t, nil
	}

	i := strings.LastIndex(s, Separator)
	if i < 0 {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return time.Parse(TimestampLayout, s[:i]+"."+s[i+1:])
}

// BackupName returns the name of the backup directory for remotePath taken at t.
// Format: <basename(remotePath)>-2024-12-17T15-04-05-123Z
func BackupName(remotePath string, t time.Time) string {
	return path.Base(remotePath) + Separator + FormatTimestamp(t)
}

// BackupTarget returns the full remote path a rotated remotePath is renamed to
func BackupTarget(backupPath, remotePath string, t time.Time) string {
	return path.Join(backupPath, BackupName(remotePath, t))
}

// ParseBackupName extracts the timestamp from a backup name produced by BackupName
// for the given remote path. Names belonging to other targets return an error.
func ParseBackupName(name, remotePath string) (time.Time, error) {
	prefix := path.Base(remotePath) + Separator
	if !strings.HasPrefix(name, prefix) {
		return time.Time{}, fmt.Errorf("backup name %q does not belong to %q", name, remotePath)
	}

	timestampStr := strings.TrimPrefix(name, prefix)
	t, err := ParseTimestamp(timestampStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q from %q: %w", timestampStr, name, err)
	}
	return t, nil
}
