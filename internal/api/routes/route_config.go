package routes

import (
	"eatinator/domain"
	"eatinator/internal/api/handlers"
	"eatinator/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	VoteHandler      handlers.VoteHandler
	ImageHandler     handlers.ImageHandler
	AssistantHandler handlers.AssistantHandler
	LegacyHandler    handlers.LegacyHandler
	AdminHandler     handlers.AdminHandler
	Middleware       middleware.Middleware
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.HealthRoute()
	c.Votes()
	c.Images()
	c.Assistant()
	c.Stats()
	c.Admin()
	c.LegacyRoute()
}

func (c *Config) HealthRoute() {
	health := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}
	c.App.Get("/health", health)
	c.App.Get("/api/health", health)
}

func (c *Config) Votes() {
	votes := c.App.Group("/api/votes")
	{
		votes.Get("/:key", c.VoteHandler.GetVotes)
		votes.Post("", c.VoteHandler.CastVote)
	}
}

func (c *Config) Images() {
	images := c.App.Group("/api/images")
	{
		// key in the multipart form
		images.Post("", c.ImageHandler.Upload)
		images.Get("/:key", c.ImageHandler.List)
		images.Post("/:key", c.ImageHandler.Upload)
		images.Get("/:key/:filename", c.ImageHandler.File)
	}
}

func (c *Config) Assistant() {
	ai := c.App.Group("/api/ai")
	{
		ai.Post("", c.AssistantHandler.Chat)
		ai.Post("/chat", c.AssistantHandler.Chat)
		ai.Get("/health", c.AssistantHandler.Health)
	}
}

func (c *Config) Stats() {
	stats := c.App.Group("/api/stats")
	{
		stats.Get("/votes", c.VoteHandler.GetStats)
		stats.Get("/images", c.ImageHandler.GetStats)
	}
}

func (c *Config) Admin() {
	admin := c.App.Group("/api/admin", c.Middleware.AdminMiddleware())
	{
		admin.Post("/cleanup", c.AdminHandler.Cleanup)
		admin.Get("/info", c.AdminHandler.Info)
	}
}

// LegacyRoute keeps the flat-file era endpoints alive for older clients.
func (c *Config) LegacyRoute() {
	c.App.All("/api/votes.php", c.LegacyHandler.Votes)
	c.App.All("/api/images.php", c.LegacyHandler.Images)

	c.App.Use(func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"success": false, "error": domain.MessageEndpointNotFound})
	})
}
