package service

import (
	"SwiftShare/internal/apperr"
	"SwiftShare/internal/repo"
	"SwiftShare/model"
	"SwiftShare/utils"
	"errors"
	"time"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

const fileRecordCacheTTL = 5 * time.Minute

func cacheFileRecord(ctx context.Context, rec *model.FileRecord) {
	if rec == nil || rec.UUID == "" {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	_ = utils.SetFileRecordToCache(ctx, rec.UUID, rec, fileRecordCacheTTL)
}

// GetFileRecordByUUID finds a file record by UUID, cache first.
func GetFileRecordByUUID(ctx context.Context, fileUUID string) (*model.FileRecord, error) {
	if cached, ok := utils.GetFileRecordFromCache(ctx, fileUUID); ok && cached != nil {
		return cached, nil
	}
	var rec model.FileRecord
	err := repo.Db.Where("uuid = ?", fileUUID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	cacheFileRecord(ctx, &rec)
	return &rec, nil
}

// ConsumeDownload atomically increments download_count and, when the
// increment reaches max_downloads, flips the record to EXPIRED in the same
// statement. There is no window where a record shows ACTIVE with
// download_count past its limit; concurrent consumers past the limit simply
// match zero rows.
//
// MySQL applies SET clauses left to right, so the status expression sees the
// already-incremented download_count.
func ConsumeDownload(ctx context.Context, fileUUID string) (bool, error) {
	res := repo.Db.WithContext(ctx).Exec(
		`UPDATE file_record
		 SET download_count = download_count + 1,
		     status = IF(max_downloads IS NOT NULL AND download_count >= max_downloads, ?, status),
		     updated_at = ?
		 WHERE uuid = ? AND status = ?
		   AND (max_downloads IS NULL OR download_count < max_downloads)`,
		model.StatusExpired, time.Now(), fileUUID, model.StatusActive,
	)
	if res.Error != nil {
		return false, res.Error
	}
	_ = utils.InvalidateFileRecordCache(ctx, fileUUID)
	return res.RowsAffected > 0, nil
}

// MarkExpired transitions a record ACTIVE -> EXPIRED. A record that already
// moved on (racing download or sweep) is left alone.
func MarkExpired(ctx context.Context, fileUUID string) (bool, error) {
	res := repo.Db.WithContext(ctx).Model(&model.FileRecord{}).
		Where("uuid = ? AND status = ?", fileUUID, model.StatusActive).
		Update("status", model.StatusExpired)
	if res.Error != nil {
		return false, res.Error
	}
	_ = utils.InvalidateFileRecordCache(ctx, fileUUID)
	return res.RowsAffected > 0, nil
}

// MarkDeleted transitions a record EXPIRED -> DELETED once its blob is gone.
func MarkDeleted(ctx context.Context, fileUUID string, reclaimedAt time.Time) (bool, error) {
	res := repo.Db.WithContext(ctx).Model(&model.FileRecord{}).
		Where("uuid = ? AND status = ?", fileUUID, model.StatusExpired).
		Updates(map[string]interface{}{
			"status":       model.StatusDeleted,
			"reclaimed_at": &reclaimedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	_ = utils.InvalidateFileRecordCache(ctx, fileUUID)
	return res.RowsAffected > 0, nil
}

// RecordDownloadEvent appends an audit row for a successful download.
func RecordDownloadEvent(ctx context.Context, rec *model.FileRecord, remoteIP, userAgent string) {
	event := model.DownloadEvent{
		FileID:    rec.ID,
		UUID:      rec.UUID,
		RemoteIP:  remoteIP,
		UserAgent: userAgent,
	}
	if err := repo.Db.WithContext(ctx).Create(&event).Error; err != nil {
		// Audit only; the download itself already succeeded.
		return
	}
}

// ListDownloadEvents returns recent download events for a file.
func ListDownloadEvents(fileID uint64, limit int) ([]model.DownloadEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []model.DownloadEvent
	err := repo.Db.Where("file_id = ?", fileID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
