package api

import (
	"cine-catalog/storage"

	"github.com/gofiber/fiber/v2"
)

func Health(store storage.StorageInterface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.Ping(c.UserContext()); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
