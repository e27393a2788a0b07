package main

import (
	"os"
	"os/signal"
	"syscall"

	"eatinator/cmd/config"
	migration "eatinator/cmd/database/migrate"
	"eatinator/internal/utils"
	"eatinator/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, relying on environment")
	}
	utils.LoadConfig()
	logger.Configure(zerolog.InfoLevel)

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build application")
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
