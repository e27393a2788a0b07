package handlers

import (
	"errors"

	"eatinator/domain"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps service errors onto HTTP status codes. Anything unrecognized
// is treated as an internal failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidVoteType),
		errors.Is(err, domain.ErrInvalidVoteKey),
		errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrAlreadyVoted),
		errors.Is(err, domain.ErrVoteLimitExceeded),
		errors.Is(err, domain.ErrVoteWindowClosed),
		errors.Is(err, domain.ErrInvalidDishKey),
		errors.Is(err, domain.ErrNoImageFile),
		errors.Is(err, domain.ErrImageTooLarge),
		errors.Is(err, domain.ErrInvalidFileType),
		errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrInvalidAction):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrVerificationFailed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrImageNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
