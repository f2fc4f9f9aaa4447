package sftp

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/sync/errgroup"
)

type uploadJob struct {
	localPath  string
	remotePath string
	size       int64
}

// UploadDirectory mirrors the local tree rooted at localPath into remotePath.
// Directories are created first, in walk order, then files are uploaded in parallel.
func (t *Transport) UploadDirectory(ctx context.Context, localPath, remotePath string) error {
	client, err := t.session(ctx)
	if err != nil {
		return err
	}

	start := time.Now()

	dirs, jobs, err := t.scan(localPath, remotePath)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", localPath, err)
	}

	if err := client.MkdirAll(remotePath); err != nil {
		return wrapRemoteError("mkdir", remotePath, err)
	}
	for _, dir := range dirs {
		if err := client.MkdirAll(dir); err != nil {
			return wrapRemoteError("mkdir", dir, err)
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	for _, job := range jobs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			return t.uploadFile(client, job)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	var totalBytes int64
	for _, job := range jobs {
		totalBytes += job.size
	}

	t.logger.Info().
		Int("files", len(jobs)).
		Int("directories", len(dirs)).
		Int64("bytes", totalBytes).
		Dur("duration", time.Since(start)).
		Msg("directory uploaded")

	return nil
}

func (t *Transport) uploadFile(client *sftp.Client, job uploadJob) error {
	localFile, err := os.Open(job.localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer localFile.Close()

	remoteFile, err := client.Create(job.remotePath)
	if err != nil {
		return wrapRemoteError("create", job.remotePath, err)
	}

	if _, err := io.Copy(remoteFile, localFile); err != nil {
		remoteFile.Close()
		return wrapRemoteError("upload", job.remotePath, err)
	}
	if err := remoteFile.Close(); err != nil {
		return wrapRemoteError("upload", job.remotePath, err)
	}

	t.logger.Debug().
		Str("file", job.remotePath).
		Int64("size_bytes", job.size).
		Msg("uploaded file")

	return nil
}

// scan walks localRoot and returns the remote directories to create and the files to upload
func (t *Transport) scan(localRoot, remoteRoot string) ([]string, []uploadJob, error) {
	var dirs []string
	var jobs []uploadJob

	err := filepath.WalkDir(localRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(localRoot, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if shouldExclude(rel, t.exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		remote := path.Join(remoteRoot, filepath.ToSlash(rel))

		if d.IsDir() {
			dirs = append(dirs, remote)
			return nil
		}

		// follow symlinks to regular files, skip anything else
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", rel, err)
		}
		if !info.Mode().IsRegular() {
			t.logger.Warn().Str("file", p).Msg("skipping non-regular file")
			return nil
		}

		jobs = append(jobs, uploadJob{
			localPath:  p,
			remotePath: remote,
			size:       info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return dirs, jobs, nil
}

func shouldExclude(rel string, patterns []string) bool {
	slashed := filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if matched, _ := path.Match(pattern, path.Base(slashed)); matched {
			return true
		}
		if matched, _ := path.Match(pattern, slashed); matched {
			return true
		}
		for _, part := range strings.Split(slashed, "/") {
			if matched, _ := path.Match(pattern, part); matched {
				return true
			}
		}
	}
	return false
}
