package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/draft-state/internal/domain/blob"
	"github.com/riskibarqy/draft-state/internal/platform/logging"
)

const (
	// SnapshotNamespace roots every mirrored snapshot key. The value is a
	// compatibility contract with the remote layout and must not change.
	SnapshotNamespace = "lineups"

	snapshotExt         = ".json"
	snapshotContentType = "application/json"
)

// SyncInput selects which slices of the local snapshot tree to mirror.
type SyncInput struct {
	LocalRoot  string
	Prefixes   []string
	DryRun     bool
	MaxWorkers int
	// ContinueOnError keeps processing remaining prefixes after one fails.
	// Either way the returned result reports the counts reached so far, so
	// the idempotent design makes a re-run after a partial failure safe.
	ContinueOnError bool
}

// SyncPrefixResult is the outcome for one prefix subdirectory.
type SyncPrefixResult struct {
	Prefix   string `json:"prefix"`
	Uploaded int    `json:"uploaded"`
	Skipped  int    `json:"skipped"`
	Total    int    `json:"total"`
	Missing  bool   `json:"missing,omitempty"`
	Message  string `json:"message,omitempty"`
}

// SyncResult aggregates all prefixes. The totals always equal the sum of
// the per-prefix counts.
type SyncResult struct {
	Uploaded int                `json:"uploaded"`
	Skipped  int                `json:"skipped"`
	Total    int                `json:"total"`
	DryRun   bool               `json:"dry_run"`
	Prefixes []SyncPrefixResult `json:"prefixes"`
}

// SyncService mirrors a local tree of snapshot documents into the remote
// store. Remote keys are a 1:1 mirror of the path relative to the local
// root, under the fixed namespace. Keys already present remotely are never
// overwritten: the remote side is treated as append-only per key.
type SyncService struct {
	store  blob.Store
	logger *logging.Logger
}

func NewSyncService(store blob.Store, logger *logging.Logger) *SyncService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SyncService{store: store, logger: logger}
}

// Sync processes every prefix and returns per-prefix and aggregate counts.
// A missing prefix directory is a reported no-op. With DryRun set the
// existence checks and counting still run but nothing is uploaded. Prefixes
// are processed concurrently when MaxWorkers allows; each prefix's counters
// are accumulated sequentially within that prefix.
func (s *SyncService) Sync(ctx context.Context, input SyncInput) (SyncResult, error) {
	if strings.TrimSpace(input.LocalRoot) == "" {
		return SyncResult{}, fmt.Errorf("%w: local root is required", ErrInvalidInput)
	}
	if len(input.Prefixes) == 0 {
		return SyncResult{}, fmt.Errorf("%w: at least one prefix is required", ErrInvalidInput)
	}

	workers := input.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(input.Prefixes) {
		workers = len(input.Prefixes)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]SyncPrefixResult, len(input.Prefixes))
	errs := make([]error, len(input.Prefixes))

	pool, err := ants.NewPool(workers)
	if err != nil {
		return SyncResult{}, fmt.Errorf("create sync worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, prefix := range input.Prefixes {
		// go.mod targets Go 1.21, where range variables are shared across
		// iterations; copy them so each submitted closure sees its own pair.
		i, prefix := i, prefix
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = s.syncPrefix(runCtx, input, prefix)
			if errs[i] != nil && !input.ContinueOnError {
				cancel()
			}
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit prefix %s: %w", prefix, submitErr)
		}
	}
	wg.Wait()

	out := SyncResult{DryRun: input.DryRun, Prefixes: results}
	var firstErr error
	for i, res := range results {
		out.Uploaded += res.Uploaded
		out.Skipped += res.Skipped
		out.Total += res.Total
		if errs[i] != nil && firstErr == nil {
			firstErr = fmt.Errorf("prefix %s: %w", input.Prefixes[i], errs[i])
		}
	}

	s.logger.Info("snapshot sync finished",
		"uploaded", out.Uploaded,
		"skipped", out.Skipped,
		"total", out.Total,
		"dry_run", out.DryRun,
	)

	return out, firstErr
}

func (s *SyncService) syncPrefix(ctx context.Context, input SyncInput, prefix string) (SyncPrefixResult, error) {
	result := SyncPrefixResult{Prefix: prefix}

	root := filepath.Join(input.LocalRoot, prefix)
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			result.Missing = true
			result.Message = "no local dir"
			s.logger.Info("skip missing prefix", "prefix", prefix, "dir", root)
			return result, nil
		}
		return result, fmt.Errorf("stat prefix dir: %w", err)
	}

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(path), snapshotExt) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		result.Total++

		rel, err := filepath.Rel(input.LocalRoot, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}
		key := SnapshotNamespace + "/" + filepath.ToSlash(rel)

		exists, err := s.store.Exists(ctx, key)
		if err != nil {
			return fmt.Errorf("check %s: %w", key, err)
		}
		if exists {
			result.Skipped++
			return nil
		}

		if input.DryRun {
			s.logger.Info("dry-run would upload", "key", key)
			result.Uploaded++
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		putErr := s.store.Put(ctx, key, file, snapshotContentType)
		closeErr := file.Close()
		if putErr != nil {
			return fmt.Errorf("upload %s: %w", key, putErr)
		}
		if closeErr != nil {
			return fmt.Errorf("close %s: %w", path, closeErr)
		}

		s.logger.Info("uploaded snapshot", "key", key)
		result.Uploaded++
		return nil
	})
	if walkErr != nil {
		result.Message = walkErr.Error()
		return result, walkErr
	}

	s.logger.Info("prefix synced",
		"prefix", prefix,
		"uploaded", result.Uploaded,
		"skipped", result.Skipped,
		"total", result.Total,
	)
	return result, nil
}
