package handler

import "github.com/gofiber/fiber/v2"

// Ping returns HTTP Status 200 with response "pong".
func Ping(c *fiber.Ctx) error {
	return c.SendString("pong")
}
