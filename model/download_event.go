package model

import "time"

// DownloadEvent is one successful download of a file, kept for the owner's
// download log until the record leaves its audit retention window.
type DownloadEvent struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	FileID uint64 `gorm:"column:file_id;index;not null" json:"-"`
	UUID   string `gorm:"column:uuid;size:36;index;not null" json:"uuid"`

	RemoteIP  string `gorm:"column:remote_ip;size:64" json:"remote_ip"`
	UserAgent string `gorm:"column:user_agent;size:255" json:"user_agent"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (DownloadEvent) TableName() string {
	return "download_event"
}
