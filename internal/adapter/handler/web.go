package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// webConfig is what the browser client reads at startup.
type webConfig struct {
	APIURL string `json:"apiUrl"`
}

// WebConfigScript serves the front-end runtime config as a script. An empty
// API URL tells the page to call the origin it was loaded from.
func WebConfigScript(apiURL string) fiber.Handler {
	payload, _ := json.Marshal(webConfig{APIURL: apiURL})
	script := "window.__LEDGER_CONFIG__ = " + string(payload) + ";\n"

	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "application/javascript; charset=utf-8")
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.SendString(script)
	}
}
