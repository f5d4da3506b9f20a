package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"secwatch-reporting/internal/domain"
	"secwatch-reporting/internal/report"
)

// ReportCache keeps generated reports in the KV store so repeated requests
// with identical parameters skip regeneration until the TTL lapses.
type ReportCache struct {
	kv     KVStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewReportCache creates a report cache.
func NewReportCache(kv KVStore, ttl time.Duration, logger *zap.Logger) *ReportCache {
	return &ReportCache{kv: kv, ttl: ttl, logger: logger}
}

// Key derives the deterministic cache key for a type/parameter pair.
func Key(t domain.ReportType, p report.Parameters) string {
	payload, _ := json.Marshal(p)
	sum := sha256.Sum256(append([]byte(t), payload...))
	return fmt.Sprintf("reports:cache:%s:%s", t, hex.EncodeToString(sum[:8]))
}

// Get returns the cached report for the key, or (nil, nil) on a miss.
// Store errors are logged and treated as misses so a broken cache never
// fails a report request.
func (c *ReportCache) Get(ctx context.Context, key string) (*domain.ReportData, error) {
	raw, err := c.kv.Get(ctx, key)
	if err != nil {
		if err != ErrCacheMiss {
			c.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, nil
	}

	var data domain.ReportData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		c.logger.Warn("report cache entry is corrupt, ignoring", zap.String("key", key), zap.Error(err))
		return nil, nil
	}

	return &data, nil
}

// Set stores a generated report under the key. Failures are logged only.
func (c *ReportCache) Set(ctx context.Context, key string, data *domain.ReportData) {
	payload, err := json.Marshal(data)
	if err != nil {
		c.logger.Warn("failed to marshal report for cache", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.kv.Set(ctx, key, string(payload), c.ttl); err != nil {
		c.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}
