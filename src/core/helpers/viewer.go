package helpers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ViewerID returns the authenticated viewer's id, placed in the
// request context by the JWT middleware. Every viewer-relative
// computation takes this value explicitly.
func ViewerID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, fmt.Errorf("missing viewer identity")
	}
	viewerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid viewer identity: %w", err)
	}
	return viewerID, nil
}
