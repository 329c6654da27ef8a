package service

import (
	"SwiftShare/config"
	"SwiftShare/internal/apperr"
	"SwiftShare/internal/repo"
	storagepkg "SwiftShare/internal/storage"
	"SwiftShare/model"
	"fmt"
	"log"
	"time"

	"golang.org/x/net/context"
)

// SweepStats summarizes one sweep pass.
type SweepStats struct {
	Expired   int
	Reclaimed int
	Purged    int
}

// ReclaimFileByUUID deletes a record's blob and marks the metadata DELETED.
//
// Blob first, metadata second: a crash between the two leaves an EXPIRED row
// pointing at a missing blob, which the next sweep (or a racing download,
// which treats a missing blob as not-found) resolves. Re-running on a record
// that is already DELETED or whose blob is already gone is a no-op.
func ReclaimFileByUUID(ctx context.Context, fileUUID string) error {
	if storagepkg.Default == nil {
		return fmt.Errorf("%w: storage not initialized", apperr.ErrUnavailable)
	}
	bucket := config.AppConfig.BucketName
	if err := withStoreRetry(ctx, func() error {
		return storagepkg.Default.RemoveObject(ctx, bucket, FinalObjectName(fileUUID))
	}); err != nil {
		return err
	}
	// An upload aborted between staging and promote can leave a staged key.
	_ = storagepkg.Default.RemoveObject(ctx, bucket, StagingObjectName(fileUUID))

	if _, err := MarkDeleted(ctx, fileUUID, time.Now()); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
	}
	return nil
}

// SweepOnce runs one expiry pass: due ACTIVE records become EXPIRED, EXPIRED
// records are reclaimed, and DELETED records past the audit retention window
// are purged together with their download events.
func SweepOnce(ctx context.Context, now time.Time) (SweepStats, error) {
	var stats SweepStats

	var due []model.FileRecord
	err := repo.Db.
		Where("status = ? AND ((expires_at IS NOT NULL AND expires_at <= ?) OR (max_downloads IS NOT NULL AND download_count >= max_downloads))",
			model.StatusActive, now).
		Limit(500).
		Find(&due).Error
	if err != nil {
		return stats, err
	}
	for _, rec := range due {
		changed, err := MarkExpired(ctx, rec.UUID)
		if err != nil {
			log.Printf("sweep: expire %s failed: %v", rec.UUID, err)
			continue
		}
		if changed {
			stats.Expired++
		}
	}

	var expired []model.FileRecord
	err = repo.Db.
		Where("status = ? AND reclaimed_at IS NULL", model.StatusExpired).
		Limit(500).
		Find(&expired).Error
	if err != nil {
		return stats, err
	}
	for _, rec := range expired {
		if err := ReclaimFileByUUID(ctx, rec.UUID); err != nil {
			log.Printf("sweep: reclaim %s failed: %v", rec.UUID, err)
			continue
		}
		stats.Reclaimed++
	}

	retention := config.AppConfig.AuditRetention
	cutoff := now.Add(-retention)
	var stale []model.FileRecord
	err = repo.Db.
		Where("status = ? AND reclaimed_at IS NOT NULL AND reclaimed_at <= ?", model.StatusDeleted, cutoff).
		Limit(500).
		Find(&stale).Error
	if err != nil {
		return stats, err
	}
	for _, rec := range stale {
		if err := repo.Db.Where("file_id = ?", rec.ID).Delete(&model.DownloadEvent{}).Error; err != nil {
			log.Printf("sweep: purge events for %s failed: %v", rec.UUID, err)
			continue
		}
		if err := repo.Db.Delete(&model.FileRecord{}, rec.ID).Error; err != nil {
			log.Printf("sweep: purge %s failed: %v", rec.UUID, err)
			continue
		}
		stats.Purged++
	}

	return stats, nil
}

// RunSweeper executes SweepOnce on a fixed interval under a Redis lock, so
// only one replica sweeps at a time. The loop stops when ctx is done.
func RunSweeper(ctx context.Context) {
	interval := config.AppConfig.SweepInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		lock := repo.NewRedisLock(repo.Redis, "lock:sweep", interval)
		if err := lock.Lock(ctx); err != nil {
			// Another replica holds the sweep.
			continue
		}
		stats, err := SweepOnce(ctx, time.Now())
		if err != nil {
			log.Printf("sweep failed: %v", err)
		} else if stats.Expired > 0 || stats.Reclaimed > 0 || stats.Purged > 0 {
			log.Printf("sweep: expired=%d reclaimed=%d purged=%d", stats.Expired, stats.Reclaimed, stats.Purged)
		}
		_ = lock.Unlock(ctx)
	}
}
