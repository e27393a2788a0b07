package handlers

import (
	"strings"

	"eatinator/domain"
	"eatinator/internal/api/presenters"
	"eatinator/pkg/assistant"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type (
	AssistantHandler interface {
		Chat(c *fiber.Ctx) error
		Health(c *fiber.Ctx) error
	}

	assistantHandler struct {
		assistantService assistant.AssistantService
		validator        *validator.Validate
	}
)

func NewAssistantHandler(assistantService assistant.AssistantService, validator *validator.Validate) AssistantHandler {
	return &assistantHandler{
		assistantService: assistantService,
		validator:        validator,
	}
}

// Chat answers a menu question. Clients that accept text/event-stream get the
// reply streamed as server-sent events; everyone else gets a single JSON body.
func (h *assistantHandler) Chat(c *fiber.Ctx) error {
	req := new(domain.AssistantRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAssistant, err)
	}

	if strings.Contains(c.Get(fiber.HeaderAccept), "text/event-stream") {
		stream, err := h.assistantService.ChatStream(c.Context(), *req, c.IP())
		if err != nil {
			return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedAssistant, err)
		}

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(stream))
		return nil
	}

	res, err := h.assistantService.Chat(c.Context(), *req, c.IP())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedAssistant, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, "")
}

func (h *assistantHandler) Health(c *fiber.Ctx) error {
	if err := h.assistantService.Health(c.Context()); err != nil {
		return c.JSON(fiber.Map{"status": "degraded", "ai_service": "unavailable", "fallback": "active"})
	}
	return c.JSON(fiber.Map{"status": "healthy", "ai_service": "operational"})
}
