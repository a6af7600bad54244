package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/andy/billbook/internal/storage"
)

// readDocument decodes the JSON stored under key into v. It reports false
// when the key is absent or unreadable; the latter is logged, not returned.
func readDocument(ctx context.Context, store storage.Store, logger *zap.Logger, key string, v any) bool {
	data, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("failed to read document", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("failed to decode document", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// writeDocument replaces the document under key with the JSON encoding of v
func writeDocument(ctx context.Context, store storage.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return store.Set(ctx, key, data)
}
