package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	sonic "github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/draft-state/internal/config"
	"github.com/riskibarqy/draft-state/internal/domain/blob"
	"github.com/riskibarqy/draft-state/internal/domain/draft"
	s3store "github.com/riskibarqy/draft-state/internal/infrastructure/blob/s3"
	"github.com/riskibarqy/draft-state/internal/platform/logging"
	"github.com/riskibarqy/draft-state/internal/usecase"
)

func newCleanCommand(cfg config.Config, logger *logging.Logger) *cobra.Command {
	var statePath, outPath string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove invalid player references from a draft state snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(statePath)
			if err != nil {
				return fmt.Errorf("read state %s: %w", statePath, err)
			}

			svc := usecase.NewIntegrityService(logger)
			cleaned, report, err := svc.CleanDocument(data, usecase.IntegrityRule{
				MaxValidID: cfg.MaxValidPlayerID,
				Denylist:   cfg.Denylist(),
			})
			if err != nil {
				return err
			}

			if len(report.InvalidIDs) == 0 {
				logger.Info("no invalid player ids found", "state", statePath)
				return nil
			}

			if outPath == "" {
				outPath = statePath
			}
			if err := os.WriteFile(outPath, cleaned, 0o644); err != nil {
				return fmt.Errorf("write cleaned state: %w", err)
			}

			logger.Info("cleaned state written",
				"out", outPath,
				"invalid_ids", len(report.InvalidIDs),
				"removed", report.TotalRemoved(),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "path to the draft state snapshot")
	cmd.Flags().StringVar(&outPath, "out", "", "output path (defaults to overwriting the input)")
	_ = cmd.MarkFlagRequired("state")

	return cmd
}

func newTransfersCommand(cfg config.Config, logger *logging.Logger) *cobra.Command {
	var currentPath, referencePath string

	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "Reconstruct transfer history from two snapshots of the same league",
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := loadState(currentPath)
			if err != nil {
				return err
			}
			reference, err := loadState(referencePath)
			if err != nil {
				return err
			}

			managers := make(map[string]struct{})
			for manager := range current.Rosters {
				managers[manager] = struct{}{}
			}
			for manager := range reference.Rosters {
				managers[manager] = struct{}{}
			}

			svc := usecase.NewTransferService(logger)
			enc := sonic.ConfigDefault.NewEncoder(os.Stdout)
			for _, manager := range sortedKeys(managers) {
				for _, event := range svc.Reconcile(manager, reference, current) {
					if err := enc.Encode(event); err != nil {
						return fmt.Errorf("encode transfer event: %w", err)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&currentPath, "current", "", "path to the current snapshot")
	cmd.Flags().StringVar(&referencePath, "reference", "", "path to the earlier reference snapshot")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("reference")

	return cmd
}

func newSyncCommand(cfg config.Config, logger *logging.Logger) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror local snapshot files into the remote bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			svc := usecase.NewSyncService(store, logger)
			result, err := svc.Sync(cmd.Context(), usecase.SyncInput{
				LocalRoot:       cfg.LocalSnapshotDir,
				Prefixes:        cfg.SyncPrefixes,
				DryRun:          dryRun || cfg.SyncDryRun,
				MaxWorkers:      cfg.SyncMaxWorkers,
				ContinueOnError: cfg.SyncContinueOnErr,
			})
			if err != nil {
				return err
			}

			logger.Info("sync done",
				"uploaded", result.Uploaded,
				"skipped", result.Skipped,
				"total", result.Total,
				"dry_run", result.DryRun,
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be uploaded without writing")

	return cmd
}

func newBackupCommand(cfg config.Config, logger *logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Archive the local snapshot tree and upload it as one bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			svc := usecase.NewBackupService(store, logger)
			result, err := svc.Backup(cmd.Context(), cfg.LocalSnapshotDir)
			if err != nil {
				return err
			}
			if result.Skipped {
				logger.Info("nothing to backup")
				return nil
			}

			logger.Info("backup done", "key", result.Key)
			return nil
		},
	}
}

func newProbeCommand(cfg config.Config, logger *logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Upload the fixed connectivity-test object",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return usecase.Probe(cmd.Context(), store, logger)
		},
	}
}

func newStore(ctx context.Context, cfg config.Config) (blob.Store, error) {
	return s3store.New(ctx, s3store.Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	})
}

func loadState(path string) (draft.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return draft.State{}, fmt.Errorf("read state %s: %w", path, err)
	}
	state, err := draft.Decode(data)
	if err != nil {
		return draft.State{}, fmt.Errorf("decode state %s: %w", path, err)
	}
	return state, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
