package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
)

const (
	// APIPath is the prefix of the versioned JSON API.
	APIPath = "/api/v1"

	// ErrNilDepsFatalLogMsg is used if the router or a dependency is nil.
	ErrNilDepsFatalLogMsg = "router or handler dependencies are nil"
)

// ErrNilDeps is returned by Init when the router or a dependency is missing.
var ErrNilDeps = errors.New(ErrNilDepsFatalLogMsg)

// Error answers with status and a JSON body of the form {"error": msg}.
func Error(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
