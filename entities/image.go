package entities

import "time"

// Image is the metadata row for one uploaded dish photo. The blob itself
// lives in object storage under StorageKey; rows and blobs are removed
// together by the retention sweep.
type Image struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DishKey      string    `gorm:"size:200;index" json:"dish_key"`
	Filename     string    `gorm:"size:255;index" json:"filename"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	StorageKey   string    `gorm:"size:500;uniqueIndex" json:"storage_key"`
	FileSize     int64     `json:"file_size"`
	ContentType  string    `gorm:"size:64" json:"content_type"`
	UploadTime   int64     `gorm:"index" json:"upload_time"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Image) TableName() string { return "images" }
