package usecase

import (
	"bytes"
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/draft-state/internal/domain/blob"
	"github.com/riskibarqy/draft-state/internal/platform/logging"
)

// ProbeKey is the fixed connectivity-check object, kept under its own
// namespace away from snapshot and backup keys.
const ProbeKey = "ucl/1.json"

// Probe uploads a fixed test payload so operators can verify bucket access
// and credentials before a real run.
func Probe(ctx context.Context, store blob.Store, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}

	payload, err := sonic.Marshal(map[string]any{"message": "ucl test", "ok": true})
	if err != nil {
		return fmt.Errorf("encode probe payload: %w", err)
	}

	if err := store.Put(ctx, ProbeKey, bytes.NewReader(payload), "application/json; charset=utf-8"); err != nil {
		return fmt.Errorf("%w: upload probe object: %v", ErrDependencyUnavailable, err)
	}

	logger.Info("probe object uploaded", "key", ProbeKey)
	return nil
}
