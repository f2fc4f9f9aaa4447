package rotation

import (
	"context"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/williamokano/fastdeploy/pkg/transport"
)

// Backup represents a rotated backup of a remote target
type Backup struct {
	Name      string
	Timestamp time.Time
}

// SelectExpired returns the backups of remotePath that exceed the keep limit, oldest first.
// Entries that are not backups of remotePath are ignored. keep <= 0 keeps everything.
func SelectExpired(entries []transport.FileInfo, remotePath string, keep int, logger zerolog.Logger) []Backup {
	if keep <= 0 {
		return nil
	}

	var backups []Backup
	for _, entry := range entries {
		timestamp, err := ParseBackupName(entry.Name, remotePath)
		if err != nil {
			logger.Debug().
				Str("entry", entry.Name).
				Msg("skipping entry that is not a backup of this target")
			continue
		}
		backups = append(backups, Backup{Name: entry.Name, Timestamp: timestamp})
	}

	if len(backups) <= keep {
		logger.Debug().
			Int("count", len(backups)).
			Int("keep", keep).
			Msg("within retention limit")
		return nil
	}

	// Sort backups by timestamp (oldest first)
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.Before(backups[j].Timestamp)
	})

	return backups[:len(backups)-keep]
}

// Prune removes the oldest backups of remotePath under backupPath, keeping the newest keep entries
func Prune(ctx context.Context, t transport.Transport, backupPath, remotePath string, keep int, logger zerolog.Logger) error {
	if keep <= 0 {
		return nil
	}

	entries, err := t.List(ctx, backupPath)
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	expired := SelectExpired(entries, remotePath, keep, logger)
	if len(expired) == 0 {
		return nil
	}

	logger.Info().
		Int("to_delete", len(expired)).
		Int("keep", keep).
		Msg("applying backup retention")

	errorCount := 0
	for _, backup := range expired {
		target := path.Join(backupPath, backup.Name)
		if err := t.RemoveAll(ctx, target); err != nil {
			logger.Error().
				Err(err).
				Str("backup", target).
				Msg("failed to delete old backup")
			errorCount++
			continue
		}
		logger.Info().
			Str("backup", target).
			Time("timestamp", backup.Timestamp).
			Msg("deleted old backup")
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to delete %d out of %d backups", errorCount, len(expired))
	}

	return nil
}
