package search

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/NathyVZM/hashtage-backend/src/core/database"
	"github.com/NathyVZM/hashtage-backend/src/core/helpers"
	"github.com/NathyVZM/hashtage-backend/src/core/models"
	"github.com/NathyVZM/hashtage-backend/src/modules/feed"

	"github.com/gofiber/fiber/v2"
)

const searchTimeout = 10 * time.Second

// Search handles GET /search/:text. Posts whose text contains the
// query and users whose name or handle contains it come back as two
// parallel lists; they are never merged.
func Search(c *fiber.Ctx) error {
	viewerID, err := helpers.ViewerID(c)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid or missing viewer identity", err)
	}

	query, err := url.PathUnescape(c.Params("text"))
	if err != nil {
		query = c.Params("text")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return helpers.HandleAppError(c, "Search text is required", helpers.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), searchTimeout)
	defer cancel()
	db := database.DB.WithContext(ctx)

	snap, err := feed.LoadSearch(ctx, db, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return helpers.HandleError(c, fiber.StatusGatewayTimeout, "Search timed out", err)
		}
		return helpers.HandleAppError(c, "Failed to search posts", err)
	}

	items, err := feed.NewAssembler(snap, feed.NewSupabaseMedia(), viewerID).Assemble(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return helpers.HandleError(c, fiber.StatusGatewayTimeout, "Search timed out", err)
		}
		return helpers.HandleAppError(c, "Failed to assemble search results", err)
	}

	var users []models.User
	pattern := "%" + feed.EscapeLike(query) + "%"
	if err := db.Where("full_name ILIKE ? OR username ILIKE ?", pattern, pattern).
		Order("username ASC").Find(&users).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to search users", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Search completed", fiber.Map{
		"posts": items,
		"users": users,
	})
}
