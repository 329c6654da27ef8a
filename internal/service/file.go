package service

import (
	"SwiftShare/config"
	"SwiftShare/internal/apperr"
	"SwiftShare/internal/repo"
	storagepkg "SwiftShare/internal/storage"
	"SwiftShare/model"
	"SwiftShare/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// StagingObjectName is the blob key used while an upload is in flight.
func StagingObjectName(fileUUID string) string {
	return "staging/" + fileUUID
}

// FinalObjectName is the blob key of a committed upload.
func FinalObjectName(fileUUID string) string {
	return "files/" + fileUUID
}

var errLimitExceeded = errors.New("upload limit exceeded")

// limitReader aborts a stream once more than max bytes have been read, so an
// oversized upload is rejected without ever being buffered or fully stored.
type limitReader struct {
	r    io.Reader
	max  int64
	read int64
}

func newLimitReader(r io.Reader, max int64) *limitReader {
	return &limitReader{r: r, max: max}
}

func (l *limitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.max {
		return n, errLimitExceeded
	}
	return n, err
}

// classifyStoreErr translates blob-store failures into the gateway taxonomy.
func classifyStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storagepkg.ErrObjectMissing) {
		return apperr.ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, errLimitExceeded) {
		return apperr.ErrPayloadTooLarge
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
	}
	// Unclassified storage failures are treated as transient.
	return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
}

// withStoreRetry retries transient blob-store failures a bounded number of
// times with doubling backoff. Anything non-retryable surfaces immediately.
func withStoreRetry(ctx context.Context, op func() error) error {
	delay := config.AppConfig.StorageRetryBase
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	attempts := config.AppConfig.StorageRetryMax
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = classifyStoreErr(op())
		if err == nil || !apperr.Retryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

func contentTypeFor(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".pdf":
		return "application/pdf"
	case ".zip":
		return "application/zip"
	case ".tar":
		return "application/x-tar"
	case ".gz":
		return "application/gzip"
	case ".mp4":
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}

// ContentTypeFor returns the response content type for a stored filename.
func ContentTypeFor(filename string) string {
	return contentTypeFor(filename)
}

// UploadParams describes one upload request after handler validation.
type UploadParams struct {
	Filename      string
	Reader        io.Reader
	SizeHint      int64 // -1 when unknown
	OwnerID       *uint64
	ExpireSeconds int64 // 0 = use default / unbounded depending on owner
	MaxDownloads  *int  // nil = unbounded (authenticated only)
	Public        bool
}

// normalizeBounds applies the anti-abuse policy: anonymous uploads always
// keep at least one bound; TTLs are clamped to the configured maximum.
func normalizeBounds(ownerID *uint64, expireSeconds int64, maxDownloads *int, now time.Time) (*time.Time, *int, error) {
	if expireSeconds < 0 {
		return nil, nil, fmt.Errorf("%w: negative expire_seconds", apperr.ErrInvalidInput)
	}
	if maxDownloads != nil && *maxDownloads <= 0 {
		return nil, nil, fmt.Errorf("%w: max_downloads must be positive", apperr.ErrInvalidInput)
	}

	ttl := time.Duration(expireSeconds) * time.Second
	limit := maxDownloads

	if ownerID == nil && ttl == 0 && limit == nil {
		ttl = config.AppConfig.AnonymousTTL
		defaultLimit := config.AppConfig.AnonymousMaxDownloads
		if defaultLimit > 0 {
			limit = &defaultLimit
		}
	}
	if max := config.AppConfig.MaxTTL; max > 0 && ttl > max {
		ttl = max
	}

	var expiresAt *time.Time
	if ttl > 0 {
		at := now.Add(ttl)
		expiresAt = &at
	}
	if ownerID == nil && expiresAt == nil && limit == nil {
		return nil, nil, fmt.Errorf("%w: anonymous uploads need an expiry or download limit", apperr.ErrInvalidInput)
	}
	return expiresAt, limit, nil
}

// Upload streams a file into the blob store and commits its metadata.
//
// The blob lands on a staging key first; the record row is inserted, then the
// blob is promoted to its final key. A failure at any step removes whatever
// was written, so no orphaned blob and no orphaned metadata survive an
// aborted upload.
func Upload(ctx context.Context, params UploadParams) (*model.FileRecord, error) {
	if strings.TrimSpace(params.Filename) == "" {
		return nil, fmt.Errorf("%w: filename required", apperr.ErrInvalidInput)
	}
	filename := utils.SanitizeHeaderFilename(params.Filename)
	maxBytes := config.AppConfig.MaxUploadBytes
	if params.SizeHint > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes over limit %d", apperr.ErrPayloadTooLarge, params.SizeHint, maxBytes)
	}
	if params.SizeHint == 0 {
		return nil, fmt.Errorf("%w: empty file", apperr.ErrInvalidInput)
	}
	if storagepkg.Default == nil {
		return nil, fmt.Errorf("%w: storage not initialized", apperr.ErrUnavailable)
	}

	now := time.Now()
	expiresAt, maxDownloads, err := normalizeBounds(params.OwnerID, params.ExpireSeconds, params.MaxDownloads, now)
	if err != nil {
		return nil, err
	}

	fileUUID := uuid.NewString()
	staging := StagingObjectName(fileUUID)
	bucket := config.AppConfig.BucketName

	// The limit reader guards streams whose length the client lied about or
	// did not declare; size-hinted puts stay streaming either way.
	reader := newLimitReader(params.Reader, maxBytes)
	size := params.SizeHint
	if size < 0 {
		size = -1
	}
	putErr := storagepkg.Default.PutObject(ctx, bucket, staging, reader, size, storagepkg.PutOptions{
		ContentType: contentTypeFor(filename),
	})
	if putErr != nil || reader.read > maxBytes {
		_ = storagepkg.Default.RemoveObject(context.Background(), bucket, staging)
		if reader.read > maxBytes {
			return nil, fmt.Errorf("%w: limit %d bytes", apperr.ErrPayloadTooLarge, maxBytes)
		}
		return nil, classifyStoreErr(putErr)
	}

	stat, err := storagepkg.Default.StatObject(ctx, bucket, staging)
	if err != nil {
		_ = storagepkg.Default.RemoveObject(context.Background(), bucket, staging)
		return nil, classifyStoreErr(err)
	}
	if stat.Size == 0 {
		_ = storagepkg.Default.RemoveObject(context.Background(), bucket, staging)
		return nil, fmt.Errorf("%w: empty file", apperr.ErrInvalidInput)
	}

	rec := &model.FileRecord{
		UUID:          fileUUID,
		Filename:      filename,
		SizeBytes:     stat.Size,
		OwnerID:       params.OwnerID,
		Public:        params.Public,
		UploadedAt:    now,
		ExpiresAt:     expiresAt,
		MaxDownloads:  maxDownloads,
		DownloadCount: 0,
		Status:        model.StatusActive,
	}
	if err := repo.Db.Create(rec).Error; err != nil {
		if isDuplicateKey(err) {
			// UUID collision. Practically unreachable; regenerate once.
			rec.ID = 0
			rec.UUID = uuid.NewString()
			if retryErr := repo.Db.Create(rec).Error; retryErr != nil {
				_ = storagepkg.Default.RemoveObject(context.Background(), bucket, staging)
				return nil, fmt.Errorf("%w: %v", apperr.ErrConflict, retryErr)
			}
			staging2 := StagingObjectName(rec.UUID)
			if promErr := storagepkg.Default.PromoteObject(ctx, bucket, staging, staging2); promErr != nil {
				_ = repo.Db.Delete(&model.FileRecord{}, rec.ID).Error
				_ = storagepkg.Default.RemoveObject(context.Background(), bucket, staging)
				return nil, classifyStoreErr(promErr)
			}
			staging = staging2
			fileUUID = rec.UUID
		} else {
			_ = storagepkg.Default.RemoveObject(context.Background(), bucket, staging)
			return nil, fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
		}
	}

	if err := withStoreRetry(ctx, func() error {
		return storagepkg.Default.PromoteObject(ctx, bucket, staging, FinalObjectName(fileUUID))
	}); err != nil {
		_ = repo.Db.Delete(&model.FileRecord{}, rec.ID).Error
		_ = storagepkg.Default.RemoveObject(context.Background(), bucket, staging)
		return nil, err
	}

	if expiresAt != nil && repo.Redis != nil {
		// Mirror the clock bound into a Redis TTL key so the keyspace
		// listener can expire the record the moment it lapses.
		ttl := time.Until(*expiresAt)
		if ttl > 0 {
			if err := repo.Redis.Set(ctx, repo.FileTTLKey(fileUUID), rec.Status, ttl).Err(); err != nil {
				log.Printf("set ttl key for %s failed: %v", fileUUID, err)
			}
		}
	}

	cacheFileRecord(ctx, rec)
	return rec, nil
}

// Download authorizes and consumes one download, returning the byte stream.
//
// Expiry is checked lazily against the clock even before the sweep runs, and
// a missing blob is NotFound no matter what the metadata says, which keeps
// reclamation crash-safe.
func Download(ctx context.Context, fileUUID string, requesterID *uint64) (io.ReadCloser, *model.FileRecord, error) {
	rec, err := GetFileRecordByUUID(ctx, fileUUID)
	if err != nil {
		return nil, nil, err
	}
	if rec.Status != model.StatusActive {
		return nil, nil, apperr.ErrNotFound
	}
	now := time.Now()
	if rec.Expired(now) {
		if _, err := MarkExpired(ctx, fileUUID); err != nil {
			log.Printf("lazy expire %s failed: %v", fileUUID, err)
		} else {
			notifyExpired(ctx, fileUUID)
		}
		return nil, nil, apperr.ErrExpired
	}
	if !CanDownload(rec, requesterID) {
		return nil, nil, apperr.ErrForbidden
	}

	ok, err := ConsumeDownload(ctx, fileUUID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
	}
	if !ok {
		// Lost the race against the limit, the clock, or the sweep.
		return nil, nil, apperr.ErrExpired
	}
	rec.DownloadCount++
	if rec.Exhausted() {
		rec.Status = model.StatusExpired
		notifyExpired(ctx, fileUUID)
	}

	if storagepkg.Default == nil {
		return nil, nil, fmt.Errorf("%w: storage not initialized", apperr.ErrUnavailable)
	}
	var object io.ReadCloser
	var info storagepkg.ObjectInfo
	err = withStoreRetry(ctx, func() error {
		var getErr error
		object, info, getErr = storagepkg.Default.GetObject(ctx, config.AppConfig.BucketName, FinalObjectName(fileUUID))
		return getErr
	})
	if err != nil {
		return nil, nil, err
	}
	if info.Size != rec.SizeBytes {
		// The blob no longer matches the committed metadata. Refusing here
		// keeps the advertised Content-Length honest.
		_ = object.Close()
		return nil, nil, fmt.Errorf("%w: stored %d bytes, recorded %d", apperr.ErrCorrupt, info.Size, rec.SizeBytes)
	}
	return object, rec, nil
}

// notifyExpired hands an expired record to the eager reclaim path.
func notifyExpired(ctx context.Context, fileUUID string) {
	if repo.FileExpiredHook != nil {
		repo.FileExpiredHook(ctx, fileUUID)
	}
}

// ListUserFiles returns the caller's not-yet-purged records, newest first.
// EXPIRED records stay visible until reclamation so the dashboard can show
// spent links.
func ListUserFiles(ownerID uint64) ([]model.FileRecord, error) {
	var records []model.FileRecord
	err := repo.Db.
		Where("owner_id = ? AND status <> ?", ownerID, model.StatusDeleted).
		Order("uploaded_at DESC").
		Find(&records).Error
	return records, err
}

// DeleteUserFile force-expires and reclaims one of the caller's files.
func DeleteUserFile(ctx context.Context, ownerID uint64, fileUUID string) error {
	rec, err := GetFileRecordByUUID(ctx, fileUUID)
	if err != nil {
		return err
	}
	if !IsOwner(rec, ownerID) {
		return apperr.ErrForbidden
	}
	if rec.Status == model.StatusDeleted {
		return nil
	}
	if _, err := MarkExpired(ctx, fileUUID); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
	}
	if repo.Redis != nil {
		_ = repo.Redis.Del(ctx, repo.FileTTLKey(fileUUID)).Err()
	}
	return ReclaimFileByUUID(ctx, fileUUID)
}
