package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gopkg.in/yaml.v3"

	"faleproxy/pkg/rewriter"
)

// Ruleset returns the active replacement rules as YAML. Set
// EXPOSE_RULESET=false to disable the endpoint.
func Ruleset(rules []rewriter.Replacement, expose bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !expose {
			return c.Status(fiber.StatusForbidden).SendString("Ruleset Disabled")
		}

		body, err := yaml.Marshal(rules)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		}

		c.Set(fiber.HeaderContentType, "application/x-yaml")
		return c.Send(body)
	}
}
