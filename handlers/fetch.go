package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"faleproxy/pkg/fetcher"
	"faleproxy/pkg/rewriter"
)

// Fetcher retrieves the raw body of a remote page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchRequest is the JSON body of POST /fetch.
type FetchRequest struct {
	URL string `json:"url"`
}

// FetchResponse is the success payload of POST /fetch.
type FetchResponse struct {
	Success     bool   `json:"success"`
	Content     string `json:"content"`
	Title       string `json:"title"`
	OriginalURL string `json:"originalUrl"`
}

// ErrorResponse is the failure payload for every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FetchSite is a Fiber handler that fetches the requested page, runs the
// rewrite pass and returns the transformed document.
func FetchSite(client Fetcher, rw *rewriter.Rewriter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req FetchRequest
		if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.URL) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "URL is required"})
		}

		target := fetcher.Normalize(req.URL)

		body, err := client.Fetch(c.UserContext(), target)
		if err != nil {
			logrus.WithField("url", target).WithError(err).Error("fetch failed")
			return c.Status(fiber.StatusInternalServerError).
				JSON(ErrorResponse{Error: "Failed to fetch content: " + err.Error()})
		}

		result, err := rw.Rewrite(body, target)
		if err != nil {
			logrus.WithField("url", target).WithError(err).Error("rewrite failed")
			return c.Status(fiber.StatusInternalServerError).
				JSON(ErrorResponse{Error: "Failed to fetch content: " + err.Error()})
		}

		return c.JSON(FetchResponse{
			Success:     true,
			Content:     result.Content,
			Title:       result.Title,
			OriginalURL: target,
		})
	}
}
