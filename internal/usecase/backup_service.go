package usecase

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/riskibarqy/draft-state/internal/domain/blob"
	"github.com/riskibarqy/draft-state/internal/platform/logging"
)

const (
	backupBundleName = "lineups-backup.tar.gz"
	backupTimeLayout = "20060102-150405"
)

// BackupResult reports one backup invocation. Skipped is set when the local
// tree does not exist and nothing was captured.
type BackupResult struct {
	Key     string `json:"key,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

// BackupService archives the whole local snapshot tree into a single
// timestamped bundle and uploads it. Unlike sync, backup is unconditional:
// every invocation produces a new remote object, a full point-in-time
// capture with no existence check or dedup.
type BackupService struct {
	store  blob.Store
	logger *logging.Logger
	now    func() time.Time
}

func NewBackupService(store blob.Store, logger *logging.Logger) *BackupService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &BackupService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Backup bundles localRoot into a tar.gz and uploads it under
// backups/<timestamp>/lineups-backup.tar.gz. The bundle is a transient
// artifact removed after the upload. A missing local tree is a reported
// no-op.
func (s *BackupService) Backup(ctx context.Context, localRoot string) (BackupResult, error) {
	if strings.TrimSpace(localRoot) == "" {
		return BackupResult{}, fmt.Errorf("%w: local root is required", ErrInvalidInput)
	}

	if _, err := os.Stat(localRoot); err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("no local snapshot tree, nothing to backup", "dir", localRoot)
			return BackupResult{Skipped: true}, nil
		}
		return BackupResult{}, fmt.Errorf("stat snapshot tree: %w", err)
	}

	ts := s.now().UTC().Format(backupTimeLayout)
	bundlePath := filepath.Join(os.TempDir(), fmt.Sprintf("lineups-backup-%s.tar.gz", ts))

	if err := writeBundle(bundlePath, localRoot); err != nil {
		return BackupResult{}, err
	}
	defer os.Remove(bundlePath)

	bundle, err := os.Open(bundlePath)
	if err != nil {
		return BackupResult{}, fmt.Errorf("open bundle: %w", err)
	}
	defer bundle.Close()

	key := fmt.Sprintf("backups/%s/%s", ts, backupBundleName)
	if err := s.store.Put(ctx, key, bundle, "application/gzip"); err != nil {
		return BackupResult{}, fmt.Errorf("upload bundle: %w", err)
	}

	s.logger.Info("backup uploaded", "key", key)
	return BackupResult{Key: key}, nil
}

// writeBundle archives root into a gzip-compressed tarball whose entries
// live under the fixed namespace, mirroring how the tree is keyed remotely.
func writeBundle(bundlePath, root string) error {
	out, err := os.Create(bundlePath)
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}
		name := SnapshotNamespace
		if rel != "." {
			name = SnapshotNamespace + "/" + filepath.ToSlash(rel)
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("tar header %s: %w", path, err)
		}
		header.Name = name
		if entry.IsDir() {
			header.Name += "/"
		}

		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("write tar header %s: %w", name, err)
		}
		if entry.IsDir() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		_, copyErr := io.Copy(tw, file)
		closeErr := file.Close()
		if copyErr != nil {
			return fmt.Errorf("archive %s: %w", path, copyErr)
		}
		return closeErr
	})
	if walkErr != nil {
		tw.Close()
		gz.Close()
		out.Close()
		return walkErr
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar writer: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close gzip writer: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close bundle: %w", err)
	}
	return nil
}
