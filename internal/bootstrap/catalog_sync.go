package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/StarCase_Go/internal/catalog"
)

// SyncCatalog loads the catalog file, checks it and upserts it into the store.
// Warnings are logged by the catalog and do not fail startup; integrity
// errors do.
func SyncCatalog(ctx context.Context, svc catalog.Service) error {
	slog.Info(LogMsgSyncingCatalog)

	result, err := svc.Reload(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSyncCatalog, err)
	}

	slog.Info(LogMsgCatalogSynced,
		"version", result.Version,
		"items", result.Items,
		"cases", result.Cases,
		"warnings", len(result.Warnings))

	return nil
}
