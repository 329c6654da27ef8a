package handler

import (
	"SwiftShare/config"
	"SwiftShare/internal/apperr"
	"SwiftShare/internal/dto"
	"SwiftShare/internal/service"
	"SwiftShare/utils"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Upload receives a multipart upload and returns the download uuid.
// Anonymous callers get the default bounds; authenticated callers may set
// their own expiry and download limit via form fields.
func Upload(c *gin.Context) {
	var opts dto.UploadOptions
	if err := c.ShouldBind(&opts); err != nil {
		respondError(c, fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, fmt.Errorf("%w: missing file field", apperr.ErrInvalidInput))
		return
	}
	if header.Size > config.AppConfig.MaxUploadBytes {
		respondError(c, fmt.Errorf("%w: limit %d bytes", apperr.ErrPayloadTooLarge, config.AppConfig.MaxUploadBytes))
		return
	}

	src, err := header.Open()
	if err != nil {
		respondError(c, fmt.Errorf("%w: open upload: %v", apperr.ErrInvalidInput, err))
		return
	}
	defer src.Close()

	ownerID := utils.RequesterID(c)
	var maxDownloads *int
	if opts.MaxDownloads > 0 {
		maxDownloads = &opts.MaxDownloads
	}
	public := true
	if opts.Public != nil {
		public = *opts.Public
	}
	if ownerID == nil {
		// Anonymous uploads cannot be made private; nobody could fetch them.
		public = true
	}

	rec, err := service.Upload(c.Request.Context(), service.UploadParams{
		Filename:      header.Filename,
		Reader:        src,
		SizeHint:      header.Size,
		OwnerID:       ownerID,
		ExpireSeconds: opts.ExpireSeconds,
		MaxDownloads:  maxDownloads,
		Public:        public,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UploadResponse{
		UUID:         rec.UUID,
		Filename:     rec.Filename,
		Size:         rec.SizeBytes,
		ExpiryDate:   rec.ExpiresAt,
		MaxDownloads: rec.MaxDownloads,
	})
}

// Download streams a file by uuid, consuming one download.
func Download(c *gin.Context) {
	fileUUID := c.Param("uuid")
	if fileUUID == "" {
		respondError(c, fmt.Errorf("%w: uuid required", apperr.ErrInvalidInput))
		return
	}

	object, rec, err := service.Download(c.Request.Context(), fileUUID, utils.RequesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	defer object.Close()

	if config.AppConfig.DownloadEventEnabled {
		service.RecordDownloadEvent(c.Request.Context(), rec, c.ClientIP(), c.Request.UserAgent())
	}

	safeName := utils.SanitizeHeaderFilename(rec.Filename)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, safeName))
	c.Header("Content-Type", service.ContentTypeFor(rec.Filename))
	c.Header("Content-Length", fmt.Sprintf("%d", rec.SizeBytes))

	if _, err := io.Copy(c.Writer, object); err != nil {
		// Headers are already sent, the client sees a truncated body.
		c.Abort()
		return
	}
}

// ListFiles returns the caller's uploads, newest first, as a bare JSON
// array. The dashboard client rejects anything that is not a top-level array.
func ListFiles(c *gin.Context) {
	userID := c.GetUint64("user_id")

	records, err := service.ListUserFiles(userID)
	if err != nil {
		respondError(c, fmt.Errorf("%w: %v", apperr.ErrUnavailable, err))
		return
	}

	username, err := service.FindUserNameById(c.Request.Context(), userID)
	if err != nil {
		// Anonymous-era tokens or a purged account; the claim still names them.
		username = c.GetString("username")
	}

	summaries := make([]dto.FileSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, dto.FileSummary{
			UUID:          rec.UUID,
			Filename:      rec.Filename,
			Size:          rec.SizeBytes,
			UploadDate:    rec.UploadedAt,
			ExpiryDate:    rec.ExpiresAt,
			DownloadCount: rec.DownloadCount,
			OwnerUsername: username,
			Public:        rec.Public,
		})
	}
	c.JSON(http.StatusOK, summaries)
}

// DeleteFile revokes one of the caller's uploads and reclaims its blob.
func DeleteFile(c *gin.Context) {
	fileUUID := c.Param("uuid")
	if fileUUID == "" {
		respondError(c, fmt.Errorf("%w: uuid required", apperr.ErrInvalidInput))
		return
	}
	if err := service.DeleteUserFile(c.Request.Context(), c.GetUint64("user_id"), fileUUID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}

// FileDownloadEvents lists the recorded downloads of one of the caller's files.
func FileDownloadEvents(c *gin.Context) {
	fileUUID := c.Param("uuid")
	if fileUUID == "" {
		respondError(c, fmt.Errorf("%w: uuid required", apperr.ErrInvalidInput))
		return
	}
	rec, err := service.GetFileRecordByUUID(c.Request.Context(), fileUUID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !service.IsOwner(rec, c.GetUint64("user_id")) {
		respondError(c, apperr.ErrForbidden)
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	events, err := service.ListDownloadEvents(rec.ID, limit)
	if err != nil {
		respondError(c, fmt.Errorf("%w: %v", apperr.ErrUnavailable, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
