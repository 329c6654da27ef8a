package dto

import "time"

// UploadResponse is returned after a successful upload. The uuid doubles as
// the download capability.
type UploadResponse struct {
	UUID         string     `json:"uuid"`
	Filename     string     `json:"filename"`
	Size         int64      `json:"size"`
	ExpiryDate   *time.Time `json:"expiryDate"`
	MaxDownloads *int       `json:"maxDownloads"`
}

// FileSummary is one row of the authenticated file list. Field names are
// fixed by the web client.
type FileSummary struct {
	UUID          string     `json:"uuid"`
	Filename      string     `json:"filename"`
	Size          int64      `json:"size"`
	UploadDate    time.Time  `json:"uploadDate"`
	ExpiryDate    *time.Time `json:"expiryDate"`
	DownloadCount int        `json:"downloadCount"`
	OwnerUsername string     `json:"ownerUsername"`
	Public        bool       `json:"public"`
}
