package config

import (
	"context"
	"time"

	"eatinator/internal/api/handlers"
	"eatinator/internal/api/routes"
	"eatinator/internal/middleware"
	"eatinator/internal/utils"
	"eatinator/internal/utils/storage"
	"eatinator/pkg/assistant"
	"eatinator/pkg/image"
	"eatinator/pkg/ratelimit"
	"eatinator/pkg/turnstile"
	"eatinator/pkg/vote"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/fiberzerolog"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const defaultMaxVotesPerUser = 50

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		AppName:     "eatinator",
		BodyLimit:   16 * 1024 * 1024,
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	app.Use(recover.New())
	app.Use(fiberzerolog.New(fiberzerolog.Config{
		Logger: &log.Logger,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
	}))

	// utils
	s3 := storage.NewAwsS3()
	verifier := turnstile.NewVerifier(utils.GetConfig("TURNSTILE_SECRET_KEY"))
	rateLimiter := ratelimit.NewLimiter(db)

	// Repository
	voteRepository := vote.NewVoteRepository(db)
	imageRepository := image.NewImageRepository(db)

	// Service
	voteService := vote.NewVoteService(
		voteRepository,
		verifier,
		rateLimiter,
		utils.GetConfigInt("MAX_VOTES_PER_USER", defaultMaxVotesPerUser),
	)
	imageService := image.NewImageService(imageRepository, s3, verifier, rateLimiter)
	assistantService := assistant.NewAssistantService(
		utils.GetConfig("AI_API_KEY"),
		utils.GetConfig("AI_BASE_URL"),
		utils.GetConfig("AI_MODEL"),
		verifier,
		rateLimiter,
	)

	// Handler
	voteHandler := handlers.NewVoteHandler(voteService, validator)
	imageHandler := handlers.NewImageHandler(imageService, validator)
	assistantHandler := handlers.NewAssistantHandler(assistantService, validator)
	legacyHandler := handlers.NewLegacyHandler(voteService, imageService, validator)
	adminHandler := handlers.NewAdminHandler(voteService, imageService)

	// routes
	routesConfig := routes.Config{
		App:              app,
		VoteHandler:      voteHandler,
		ImageHandler:     imageHandler,
		AssistantHandler: assistantHandler,
		LegacyHandler:    legacyHandler,
		AdminHandler:     adminHandler,
		Middleware:       middlewares,
	}
	routesConfig.Setup()

	startCleanupLoop(imageService)
	return app, nil
}

// startCleanupLoop sweeps expired images hourly so retention holds even when
// no upload or listing triggers a sweep.
func startCleanupLoop(imageService image.ImageService) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := imageService.CleanupExpired(context.Background(), time.Now()); err != nil {
				log.Error().Err(err).Msg("scheduled image cleanup failed")
			}
		}
	}()
}
