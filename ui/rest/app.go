package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AzielCF/az-study/config"
	coreconfig "github.com/AzielCF/az-study/core/config"
)

// InitRestApp registers the app-level informational endpoints.
func InitRestApp(app fiber.Router) {
	app.Get("/app/version", GetVersion)
	app.Get("/app/settings", GetSettings)
}

func GetVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": config.AppVersion,
	})
}

func GetSettings(c *fiber.Ctx) error {
	return c.JSON(coreconfig.GetAllSettings())
}
