package migration

import (
	"eatinator/entities"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.VoteTally{}); err != nil {
		log.Error().Err(err).Msg("error migrating vote tallies")
		return err
	}
	if err := db.AutoMigrate(&entities.UserVote{}); err != nil {
		log.Error().Err(err).Msg("error migrating user votes")
		return err
	}
	if err := db.AutoMigrate(&entities.Image{}); err != nil {
		log.Error().Err(err).Msg("error migrating images")
		return err
	}
	if err := db.AutoMigrate(&entities.RateLimitEvent{}); err != nil {
		log.Error().Err(err).Msg("error migrating rate limit events")
		return err
	}

	log.Info().Msg("database migration complete")
	return nil
}
