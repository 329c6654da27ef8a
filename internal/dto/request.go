package dto

// UploadOptions are the optional multipart form fields accompanying "file".
// Zero values mean "apply policy defaults".
type UploadOptions struct {
	ExpireSeconds int64 `form:"expire_seconds" binding:"gte=0"`
	MaxDownloads  int   `form:"max_downloads" binding:"gte=0"`
	Public        *bool `form:"public"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username      string `json:"username" binding:"required"`
	FirstPassword string `json:"first-password" binding:"required"`
	LastPassword  string `json:"second-password" binding:"required"`
	Email         string `json:"email" binding:"required"`
}
