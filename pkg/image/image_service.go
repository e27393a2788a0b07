package image

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eatinator/domain"
	"eatinator/entities"
	"eatinator/internal/utils/storage"
	"eatinator/pkg/ratelimit"
	"eatinator/pkg/turnstile"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	maxUploadSize   = 15 * 1024 * 1024
	retentionPeriod = 24 * time.Hour
	storagePrefix   = "images/"

	// Per-IP upload budget: 10 uploads per hour.
	uploadRateMax    = 10
	uploadRateWindow = time.Hour
)

type (
	ImageService interface {
		Upload(ctx context.Context, req domain.UploadImageRequest, clientIP string) (domain.UploadImageResponse, error)
		List(ctx context.Context, dishKey string) ([]domain.ImageResponse, error)
		File(ctx context.Context, dishKey, filename string) (*domain.ImageBlob, error)
		CleanupExpired(ctx context.Context, now time.Time) (int, error)
		GetStats(ctx context.Context) (domain.ImageStatsResponse, error)
	}

	imageService struct {
		imageRepository ImageRepository
		s3              storage.AwsS3
		verifier        turnstile.Verifier
		limiter         ratelimit.Limiter
		now             func() time.Time
	}
)

func NewImageService(imageRepository ImageRepository, s3 storage.AwsS3, verifier turnstile.Verifier, limiter ratelimit.Limiter) ImageService {
	return &imageService{
		imageRepository: imageRepository,
		s3:              s3,
		verifier:        verifier,
		limiter:         limiter,
		now:             time.Now,
	}
}

// Upload validates and stores one dish photo: blob first, then the metadata
// row. A failed metadata write rolls the blob back so listings never see an
// orphaned upload.
func (s *imageService) Upload(ctx context.Context, req domain.UploadImageRequest, clientIP string) (domain.UploadImageResponse, error) {
	dishKey := domain.SanitizeKey(req.Key)
	if dishKey == "" {
		return domain.UploadImageResponse{}, domain.ErrInvalidDishKey
	}
	if req.Image == nil || req.Image.Size == 0 {
		return domain.UploadImageResponse{}, domain.ErrNoImageFile
	}
	if req.Image.Size > maxUploadSize {
		return domain.UploadImageResponse{}, domain.ErrImageTooLarge
	}

	contentType := req.Image.Header.Get("Content-Type")
	ext, ok := domain.AllowedImageTypes[contentType]
	if !ok {
		return domain.UploadImageResponse{}, domain.ErrInvalidFileType
	}

	if !s.verifier.Verify(ctx, req.TurnstileToken, clientIP) {
		return domain.UploadImageResponse{}, domain.ErrVerificationFailed
	}

	allowed, err := s.limiter.Allow(ctx, ratelimit.ActionUpload, clientIP, uploadRateMax, uploadRateWindow)
	if err != nil {
		return domain.UploadImageResponse{}, err
	}
	if !allowed {
		return domain.UploadImageResponse{}, domain.ErrRateLimited
	}

	now := s.now()
	filename := fmt.Sprintf("%s_%d_%s.%s", dishKey, now.UnixMilli(), randomSuffix(), ext)
	storageKey := storagePrefix + dishKey + "/" + filename

	file, err := req.Image.Open()
	if err != nil {
		return domain.UploadImageResponse{}, err
	}
	defer file.Close()

	if err := s.s3.PutObject(ctx, storageKey, file, req.Image.Size, contentType); err != nil {
		log.Error().Err(err).Str("storage_key", storageKey).Msg("failed to store blob")
		return domain.UploadImageResponse{}, domain.ErrStorageUnavailable
	}

	imageRow := &entities.Image{
		DishKey:      dishKey,
		Filename:     filename,
		OriginalName: req.Image.Filename,
		StorageKey:   storageKey,
		FileSize:     req.Image.Size,
		ContentType:  contentType,
		UploadTime:   now.Unix(),
	}
	if err := s.imageRepository.Create(ctx, imageRow); err != nil {
		if delErr := s.s3.DeleteObject(ctx, storageKey); delErr != nil {
			log.Error().Err(delErr).Str("storage_key", storageKey).Msg("failed to roll back orphaned blob")
		}
		return domain.UploadImageResponse{}, err
	}

	// Expire old uploads in the background; failures never block the upload.
	go func() {
		if _, err := s.CleanupExpired(context.Background(), s.now()); err != nil {
			log.Error().Err(err).Msg("background image cleanup failed")
		}
	}()

	log.Info().
		Str("dish_key", dishKey).
		Str("filename", filename).
		Int64("size", req.Image.Size).
		Str("content_type", contentType).
		Msg("image uploaded")

	return domain.UploadImageResponse{Filename: filename}, nil
}

// List returns the current image collection for a dish, sweeping expired
// uploads first and pruning metadata rows whose blob has disappeared.
func (s *imageService) List(ctx context.Context, dishKey string) ([]domain.ImageResponse, error) {
	key := domain.SanitizeKey(dishKey)
	if key == "" {
		return nil, domain.ErrInvalidDishKey
	}

	if _, err := s.CleanupExpired(ctx, s.now()); err != nil {
		log.Error().Err(err).Msg("cleanup sweep before listing failed")
	}

	rows, err := s.imageRepository.ListByDish(ctx, key)
	if err != nil {
		return nil, err
	}

	images := make([]domain.ImageResponse, 0, len(rows))
	for _, row := range rows {
		exists, err := s.s3.ObjectExists(ctx, row.StorageKey)
		if err != nil {
			return nil, err
		}
		if !exists {
			if err := s.imageRepository.DeleteByStorageKey(ctx, row.StorageKey); err != nil {
				log.Error().Err(err).Str("storage_key", row.StorageKey).Msg("failed to prune orphaned metadata")
			}
			continue
		}
		images = append(images, domain.ImageResponse{
			Filename:     row.Filename,
			OriginalName: row.OriginalName,
			FileSize:     row.FileSize,
			ContentType:  row.ContentType,
			UploadTime:   row.UploadTime,
			Timestamp:    domain.FormatUploadTimestamp(row.UploadTime),
			URL:          "/api/images/" + key + "/" + row.Filename,
		})
	}
	return images, nil
}

// File fetches a single image blob. Missing metadata and a missing blob both
// surface as the same not-found error; a dangling metadata row is pruned on
// the way out.
func (s *imageService) File(ctx context.Context, dishKey, filename string) (*domain.ImageBlob, error) {
	key := domain.SanitizeKey(dishKey)
	name := domain.SanitizeFilename(filename)
	if key == "" || name == "" {
		return nil, domain.ErrImageNotFound
	}

	row, err := s.imageRepository.GetByDishAndFilename(ctx, key, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrImageNotFound
		}
		return nil, err
	}

	body, contentType, err := s.s3.GetObject(ctx, row.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			if delErr := s.imageRepository.DeleteByStorageKey(ctx, row.StorageKey); delErr != nil {
				log.Error().Err(delErr).Str("storage_key", row.StorageKey).Msg("failed to prune orphaned metadata")
			}
			return nil, domain.ErrImageNotFound
		}
		return nil, err
	}

	if contentType == "" {
		contentType = row.ContentType
	}
	return &domain.ImageBlob{
		Body:         body,
		ContentType:  contentType,
		OriginalName: row.OriginalName,
	}, nil
}

// CleanupExpired removes every image past the retention period, blob before
// metadata so a listed row always has a fetchable blob. Individual failures
// are logged and skipped; the sweep keeps going.
func (s *imageService) CleanupExpired(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-retentionPeriod).Unix()
	expired, err := s.imageRepository.ListExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, row := range expired {
		if err := s.s3.DeleteObject(ctx, row.StorageKey); err != nil {
			log.Error().Err(err).Str("storage_key", row.StorageKey).Msg("failed to delete expired blob")
			continue
		}
		if err := s.imageRepository.DeleteByStorageKey(ctx, row.StorageKey); err != nil {
			log.Error().Err(err).Str("storage_key", row.StorageKey).Msg("failed to delete expired metadata")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		log.Info().Int("deleted", deleted).Int("expired", len(expired)).Msg("image cleanup completed")
	}
	return deleted, nil
}

func (s *imageService) GetStats(ctx context.Context) (domain.ImageStatsResponse, error) {
	count, totalSize, dishes, err := s.imageRepository.Totals(ctx)
	if err != nil {
		return domain.ImageStatsResponse{}, err
	}

	recent, err := s.imageRepository.CountUploadsSince(ctx, s.now().AddDate(0, 0, -7).Unix())
	if err != nil {
		return domain.ImageStatsResponse{}, err
	}

	top, err := s.imageRepository.TopDishes(ctx, 10)
	if err != nil {
		return domain.ImageStatsResponse{}, err
	}

	topDishes := make([]domain.TopDish, 0, len(top))
	for _, d := range top {
		topDishes = append(topDishes, domain.TopDish{
			DishKey:    d.DishKey,
			ImageCount: d.ImageCount,
		})
	}

	return domain.ImageStatsResponse{
		TotalImages:   count,
		TotalSize:     totalSize,
		UniqueDishes:  dishes,
		RecentUploads: uint(recent),
		TopDishes:     topDishes,
	}, nil
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
