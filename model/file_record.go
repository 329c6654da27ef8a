package model

import "time"

// FileRecord lifecycle states. Transitions are one-way:
// ACTIVE -> EXPIRED -> DELETED.
const (
	StatusActive  = 0
	StatusExpired = 1
	StatusDeleted = 2
)

type FileRecord struct {
	ID uint64 `gorm:"primaryKey" json:"-"`

	UUID string `gorm:"column:uuid;size:36;uniqueIndex;not null" json:"uuid"`

	Filename  string `gorm:"column:filename;size:255;not null" json:"filename"`
	SizeBytes int64  `gorm:"column:size_bytes;not null" json:"size"`

	OwnerID *uint64 `gorm:"column:owner_id;index" json:"-"`
	Owner   *User   `gorm:"foreignKey:OwnerID;references:ID" json:"-"`

	// Public files are downloadable by anyone holding the UUID. Owner-scoped
	// files with Public=false are served to the owner only.
	Public bool `gorm:"column:public;not null;default:true" json:"public"`

	UploadedAt time.Time `gorm:"column:uploaded_at;not null" json:"uploadDate"`

	// At least one of ExpiresAt / MaxDownloads is set for anonymous uploads.
	ExpiresAt    *time.Time `gorm:"column:expires_at;index" json:"expiryDate"`
	MaxDownloads *int       `gorm:"column:max_downloads" json:"maxDownloads"`

	DownloadCount int `gorm:"column:download_count;not null;default:0" json:"downloadCount"`

	Status int `gorm:"column:status;not null;default:0;index" json:"-"`

	ReclaimedAt *time.Time `gorm:"column:reclaimed_at" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the database table name.
func (FileRecord) TableName() string {
	return "file_record"
}

// Expired reports whether the record's clock bound has passed at now.
// The download-count bound is enforced in the consume update, not here.
func (r *FileRecord) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}

// Exhausted reports whether the download-count bound has been reached.
func (r *FileRecord) Exhausted() bool {
	return r.MaxDownloads != nil && r.DownloadCount >= *r.MaxDownloads
}
