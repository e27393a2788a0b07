package handlers

import (
	"time"

	"eatinator/domain"
	"eatinator/internal/api/presenters"
	"eatinator/pkg/image"
	"eatinator/pkg/vote"

	"github.com/gofiber/fiber/v2"
)

type (
	AdminHandler interface {
		Cleanup(c *fiber.Ctx) error
		Info(c *fiber.Ctx) error
	}

	adminHandler struct {
		voteService  vote.VoteService
		imageService image.ImageService
		startedAt    time.Time
	}
)

func NewAdminHandler(voteService vote.VoteService, imageService image.ImageService) AdminHandler {
	return &adminHandler{
		voteService:  voteService,
		imageService: imageService,
		startedAt:    time.Now(),
	}
}

// Cleanup runs the retention sweep on demand.
func (h *adminHandler) Cleanup(c *fiber.Ctx) error {
	deleted, err := h.imageService.CleanupExpired(c.Context(), time.Now())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedCleanup, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"deleted": deleted}, fiber.StatusOK, domain.MessageSuccessCleanup)
}

func (h *adminHandler) Info(c *fiber.Ctx) error {
	voteStats, err := h.voteService.GetStats(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedVoteStats, err)
	}

	imageStats, err := h.imageService.GetStats(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedImageStats, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"uptime": time.Since(h.startedAt).String(),
		"votes":  voteStats,
		"images": imageStats,
	}, fiber.StatusOK, "service info retrieved successfully")
}
