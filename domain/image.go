package domain

import (
	"errors"
	"io"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessUploadImage = "image uploaded successfully"
	MessageSuccessGetImages   = "images retrieved successfully"
	MessageSuccessCleanup     = "cleanup completed"
	MessageSuccessImageStats  = "image statistics retrieved successfully"

	MessageFailedUploadImage = "failed to store image"
	MessageFailedGetImages   = "failed to get images"
	MessageFailedServeImage  = "failed to serve image"
	MessageFailedCleanup     = "cleanup failed"
	MessageFailedImageStats  = "failed to get image statistics"

	ErrInvalidDishKey  = errors.New("invalid dish key")
	ErrNoImageFile     = errors.New("no image file provided")
	ErrImageTooLarge   = errors.New("file too large, maximum size is 15MB")
	ErrInvalidFileType = errors.New("invalid file type, only JPEG, PNG and WebP are allowed")
	ErrImageNotFound   = errors.New("image not found")
)

// AllowedImageTypes maps accepted content types to the extension used for
// generated filenames.
var AllowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

type (
	UploadImageRequest struct {
		Key            string                `form:"key" validate:"required"`
		Image          *multipart.FileHeader `form:"image" validate:"required"`
		TurnstileToken string                `form:"turnstileToken"`
	}

	UploadImageResponse struct {
		Filename string `json:"filename"`
	}

	ImageResponse struct {
		Filename     string `json:"filename"`
		OriginalName string `json:"originalName"`
		FileSize     int64  `json:"fileSize"`
		ContentType  string `json:"contentType"`
		UploadTime   int64  `json:"uploadTime"`
		Timestamp    string `json:"timestamp"`
		URL          string `json:"url"`
	}

	// ImageBlob carries a fetched image body; the caller owns Body and must
	// close it.
	ImageBlob struct {
		Body         io.ReadCloser
		ContentType  string
		OriginalName string
	}

	TopDish struct {
		DishKey    string `json:"dishKey"`
		ImageCount uint   `json:"imageCount"`
	}

	ImageStatsResponse struct {
		TotalImages   uint      `json:"totalImages"`
		TotalSize     uint64    `json:"totalSize"`
		UniqueDishes  uint      `json:"uniqueDishes"`
		RecentUploads uint      `json:"recentUploads"`
		TopDishes     []TopDish `json:"topDishes"`
	}
)

// FormatUploadTimestamp renders an upload time the way listings expect it.
func FormatUploadTimestamp(uploadTime int64) string {
	return time.Unix(uploadTime, 0).Format("2006-01-02 15:04:05")
}
