package feed

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/NathyVZM/hashtage-backend/src/core/database"
	"github.com/NathyVZM/hashtage-backend/src/core/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// assembleTimeout caps a single feed request end to end: the snapshot
// load and the assembly fan-out share the same deadline. Exceeding it
// fails the request; partial feeds are never returned as success.
const assembleTimeout = 10 * time.Second

// FetchAllPosts handles GET /post: the global feed of every top-level
// post interleaved with every retweet, newest first.
func FetchAllPosts(c *fiber.Ctx) error {
	viewerID, err := helpers.ViewerID(c)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid or missing viewer identity", err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), assembleTimeout)
	defer cancel()

	snap, err := LoadAllTopLevel(ctx, database.DB)
	if err != nil {
		log.Printf("loading global feed: %v", err)
		return respondFeedError(c, "Failed to fetch feed", err)
	}

	items, err := NewAssembler(snap, NewSupabaseMedia(), viewerID).Assemble(ctx)
	if err != nil {
		return respondFeedError(c, "Failed to assemble feed", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Feed fetched successfully", fiber.Map{"posts": items})
}

// FetchPost handles GET /post/:id: one post with its full comment tree.
func FetchPost(c *fiber.Ctx) error {
	viewerID, err := helpers.ViewerID(c)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid or missing viewer identity", err)
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid post id", err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), assembleTimeout)
	defer cancel()

	snap, err := LoadSinglePost(ctx, database.DB, postID)
	if err != nil {
		return respondFeedError(c, "Failed to fetch post", err)
	}

	item, err := NewAssembler(snap, NewSupabaseMedia(), viewerID).SinglePost(ctx, postID)
	if err != nil {
		return respondFeedError(c, "Failed to assemble post", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Post fetched successfully", fiber.Map{"post": item})
}

// FetchTimeline handles GET /timeline: posts and retweets from the
// viewer's followees plus the viewer's own, merged chronologically.
func FetchTimeline(c *fiber.Ctx) error {
	viewerID, err := helpers.ViewerID(c)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid or missing viewer identity", err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), assembleTimeout)
	defer cancel()

	snap, err := LoadTimeline(ctx, database.DB, viewerID)
	if err != nil {
		log.Printf("loading timeline for %s: %v", viewerID, err)
		return respondFeedError(c, "Failed to fetch timeline", err)
	}

	items, err := NewAssembler(snap, NewSupabaseMedia(), viewerID).Assemble(ctx)
	if err != nil {
		return respondFeedError(c, "Failed to assemble timeline", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Timeline fetched successfully", fiber.Map{"posts": items})
}

func respondFeedError(c *fiber.Ctx, msg string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return helpers.HandleError(c, fiber.StatusGatewayTimeout, "Request timed out", err)
	}
	return helpers.HandleAppError(c, msg, err)
}
