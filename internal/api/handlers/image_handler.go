package handlers

import (
	"eatinator/domain"
	"eatinator/internal/api/presenters"
	"eatinator/pkg/image"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ImageHandler interface {
		List(c *fiber.Ctx) error
		Upload(c *fiber.Ctx) error
		File(c *fiber.Ctx) error
		GetStats(c *fiber.Ctx) error
	}

	imageHandler struct {
		imageService image.ImageService
		validator    *validator.Validate
	}
)

func NewImageHandler(imageService image.ImageService, validator *validator.Validate) ImageHandler {
	return &imageHandler{
		imageService: imageService,
		validator:    validator,
	}
}

func (h *imageHandler) List(c *fiber.Ctx) error {
	key := c.Params("key")

	res, err := h.imageService.List(c.Context(), key)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetImages, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"images": res}, fiber.StatusOK, domain.MessageSuccessGetImages)
}

func (h *imageHandler) Upload(c *fiber.Ctx) error {
	req := new(domain.UploadImageRequest)
	req.Key = c.Params("key", c.FormValue("key"))
	req.TurnstileToken = c.FormValue("turnstileToken")

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, domain.ErrNoImageFile)
	}
	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	res, err := h.imageService.Upload(c.Context(), *req, c.IP())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUploadImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadImage)
}

func (h *imageHandler) File(c *fiber.Ctx) error {
	key := c.Params("key")
	filename := c.Params("filename")

	blob, err := h.imageService.File(c.Context(), key, filename)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedServeImage, err)
	}

	c.Set(fiber.HeaderContentType, blob.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.SendStream(blob.Body)
}

func (h *imageHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.imageService.GetStats(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedImageStats, err)
	}

	return presenters.SuccessResponse(c, stats, fiber.StatusOK, domain.MessageSuccessImageStats)
}
