package image

import (
	"context"

	"eatinator/entities"

	"gorm.io/gorm"
)

type (
	DishImageCount struct {
		DishKey    string
		ImageCount uint
	}

	ImageRepository interface {
		Create(ctx context.Context, image *entities.Image) error
		ListByDish(ctx context.Context, dishKey string) ([]*entities.Image, error)
		GetByDishAndFilename(ctx context.Context, dishKey, filename string) (*entities.Image, error)
		DeleteByStorageKey(ctx context.Context, storageKey string) error
		ListExpired(ctx context.Context, cutoff int64) ([]*entities.Image, error)

		// Statistics
		Totals(ctx context.Context) (count uint, totalSize uint64, dishes uint, err error)
		CountUploadsSince(ctx context.Context, since int64) (int64, error)
		TopDishes(ctx context.Context, limit int) ([]DishImageCount, error)
	}

	imageRepository struct {
		db *gorm.DB
	}
)

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *entities.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepository) ListByDish(ctx context.Context, dishKey string) ([]*entities.Image, error) {
	var images []*entities.Image
	err := r.db.WithContext(ctx).
		Where("dish_key = ?", dishKey).
		Order("upload_time DESC").
		Find(&images).Error
	return images, err
}

func (r *imageRepository) GetByDishAndFilename(ctx context.Context, dishKey, filename string) (*entities.Image, error) {
	var image entities.Image
	if err := r.db.WithContext(ctx).
		Where("dish_key = ? AND filename = ?", dishKey, filename).
		First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) DeleteByStorageKey(ctx context.Context, storageKey string) error {
	return r.db.WithContext(ctx).
		Where("storage_key = ?", storageKey).
		Delete(&entities.Image{}).Error
}

func (r *imageRepository) ListExpired(ctx context.Context, cutoff int64) ([]*entities.Image, error) {
	var images []*entities.Image
	err := r.db.WithContext(ctx).
		Where("upload_time < ?", cutoff).
		Find(&images).Error
	return images, err
}

func (r *imageRepository) Totals(ctx context.Context) (count uint, totalSize uint64, dishes uint, err error) {
	var totals struct {
		Count  uint
		Size   *uint64
		Dishes uint
	}
	err = r.db.WithContext(ctx).Model(&entities.Image{}).
		Select("COUNT(*) as count, SUM(file_size) as size, COUNT(DISTINCT dish_key) as dishes").
		Scan(&totals).Error
	if err != nil {
		return 0, 0, 0, err
	}
	if totals.Size != nil {
		totalSize = *totals.Size
	}
	return totals.Count, totalSize, totals.Dishes, nil
}

func (r *imageRepository) CountUploadsSince(ctx context.Context, since int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Image{}).
		Where("upload_time >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *imageRepository) TopDishes(ctx context.Context, limit int) ([]DishImageCount, error) {
	var top []DishImageCount
	err := r.db.WithContext(ctx).Model(&entities.Image{}).
		Select("dish_key, COUNT(*) as image_count").
		Group("dish_key").
		Order("image_count DESC").
		Limit(limit).
		Scan(&top).Error
	return top, err
}
