package handlers

import (
	"eatinator/domain"
	"eatinator/internal/api/presenters"
	"eatinator/pkg/vote"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	VoteHandler interface {
		GetVotes(c *fiber.Ctx) error
		CastVote(c *fiber.Ctx) error
		GetStats(c *fiber.Ctx) error
	}

	voteHandler struct {
		voteService vote.VoteService
		validator   *validator.Validate
	}
)

func NewVoteHandler(voteService vote.VoteService, validator *validator.Validate) VoteHandler {
	return &voteHandler{
		voteService: voteService,
		validator:   validator,
	}
}

func (h *voteHandler) GetVotes(c *fiber.Ctx) error {
	key := c.Params("key")

	res, err := h.voteService.GetVotes(c.Context(), key)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetVotes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetVotes)
}

func (h *voteHandler) CastVote(c *fiber.Ctx) error {
	req := new(domain.CastVoteRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCastVote, err)
	}

	res, err := h.voteService.CastVote(c.Context(), *req, c.IP())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedCastVote, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCastVote)
}

func (h *voteHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.voteService.GetStats(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedVoteStats, err)
	}

	return presenters.SuccessResponse(c, stats, fiber.StatusOK, domain.MessageSuccessVoteStats)
}
