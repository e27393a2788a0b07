package handlers

import (
	"net/url"

	"eatinator/domain"
	"eatinator/pkg/image"
	"eatinator/pkg/vote"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	// LegacyHandler serves the older flat-file endpoint shapes so existing
	// clients keep working. Requests are translated onto the same services
	// backing the current routes.
	LegacyHandler interface {
		Votes(c *fiber.Ctx) error
		Images(c *fiber.Ctx) error
	}

	legacyHandler struct {
		voteService  vote.VoteService
		imageService image.ImageService
		validator    *validator.Validate
	}
)

func NewLegacyHandler(voteService vote.VoteService, imageService image.ImageService, validator *validator.Validate) LegacyHandler {
	return &legacyHandler{
		voteService:  voteService,
		imageService: imageService,
		validator:    validator,
	}
}

// Votes handles GET ?key= and POST {action:"vote",...}, replying with the
// historical {success, votes} shape and a flat error string on failure.
func (h *legacyHandler) Votes(c *fiber.Ctx) error {
	switch c.Method() {
	case fiber.MethodGet:
		key := c.Query("key")
		if key == "" {
			return legacyError(c, fiber.StatusBadRequest, domain.ErrInvalidVoteKey)
		}

		res, err := h.voteService.GetVotes(c.Context(), key)
		if err != nil {
			return legacyError(c, statusFor(err), err)
		}
		return c.JSON(fiber.Map{"success": true, "votes": res})

	case fiber.MethodPost:
		req := new(domain.LegacyVoteRequest)
		if err := c.BodyParser(req); err != nil {
			return legacyError(c, fiber.StatusBadRequest, err)
		}
		if err := h.validator.Struct(req); err != nil {
			return legacyError(c, fiber.StatusBadRequest, domain.ErrInvalidAction)
		}

		res, err := h.voteService.CastVote(c.Context(), req.CastVoteRequest, c.IP())
		if err != nil {
			return legacyError(c, statusFor(err), err)
		}
		return c.JSON(fiber.Map{"success": true, "votes": res})

	default:
		return c.Status(fiber.StatusMethodNotAllowed).
			JSON(fiber.Map{"success": false, "error": domain.MessageMethodNotAllowed})
	}
}

// Images handles GET ?key= (listing), GET ?action=view&key=&file= (serving)
// and POST multipart uploads in the historical shapes.
func (h *legacyHandler) Images(c *fiber.Ctx) error {
	switch c.Method() {
	case fiber.MethodGet:
		if c.Query("action") == "view" {
			blob, err := h.imageService.File(c.Context(), c.Query("key"), c.Query("file"))
			if err != nil {
				return legacyError(c, statusFor(err), err)
			}
			c.Set(fiber.HeaderContentType, blob.ContentType)
			c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
			return c.SendStream(blob.Body)
		}

		key := c.Query("key")
		if key == "" {
			return legacyError(c, fiber.StatusBadRequest, domain.ErrInvalidDishKey)
		}

		res, err := h.imageService.List(c.Context(), key)
		if err != nil {
			return legacyError(c, statusFor(err), err)
		}
		for i := range res {
			res[i].URL = legacyImageURL(key, res[i].Filename)
		}
		return c.JSON(fiber.Map{"success": true, "images": res})

	case fiber.MethodPost:
		req := domain.UploadImageRequest{
			Key:            c.FormValue("key"),
			TurnstileToken: c.FormValue("turnstileToken"),
		}

		file, err := c.FormFile("image")
		if err != nil {
			return legacyError(c, fiber.StatusBadRequest, domain.ErrNoImageFile)
		}
		req.Image = file

		res, err := h.imageService.Upload(c.Context(), req, c.IP())
		if err != nil {
			return legacyError(c, statusFor(err), err)
		}
		return c.JSON(fiber.Map{
			"success":  true,
			"message":  domain.MessageSuccessUploadImage,
			"filename": res.Filename,
		})

	default:
		return c.Status(fiber.StatusMethodNotAllowed).
			JSON(fiber.Map{"success": false, "error": domain.MessageMethodNotAllowed})
	}
}

func legacyError(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": err.Error()})
}

// legacyImageURL rebuilds the query-string view URL older clients resolve
// against this same endpoint.
func legacyImageURL(dishKey, filename string) string {
	return "/api/images.php?action=view&key=" + url.QueryEscape(domain.SanitizeKey(dishKey)) +
		"&file=" + url.QueryEscape(filename)
}
