package router

import (
	"github.com/NathyVZM/hashtage-backend/src/core/middleware"
	"github.com/NathyVZM/hashtage-backend/src/modules/authentication"
	"github.com/NathyVZM/hashtage-backend/src/modules/feed"
	"github.com/NathyVZM/hashtage-backend/src/modules/posts"
	"github.com/NathyVZM/hashtage-backend/src/modules/search"
	"github.com/NathyVZM/hashtage-backend/src/modules/social"
	"github.com/NathyVZM/hashtage-backend/src/modules/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func InitialiseAndSetupRoutes(app *fiber.App) {
	root := app.Group("/", logger.New())

	root.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	// Identity lifecycle
	root.Post("/register", authentication.Register)
	root.Post("/login", authentication.Login)
	root.Post("/refresh-token", authentication.RefreshToken)
	root.Post("/logout", middleware.Protected(), authentication.Logout)

	// Posts and comments
	root.Post("/post", middleware.Protected(), posts.CreatePost)
	root.Get("/post", middleware.Protected(), feed.FetchAllPosts)
	root.Post("/post/comment/:id", middleware.Protected(), posts.CreateComment)
	root.Post("/post/retweet/:id", middleware.Protected(), social.Retweet)
	root.Delete("/post/retweet/:id", middleware.Protected(), social.Unretweet)
	root.Post("/post/like/:id", middleware.Protected(), social.Like)
	root.Delete("/post/like/:id", middleware.Protected(), social.Unlike)
	root.Get("/post/:id", middleware.Protected(), feed.FetchPost)
	root.Delete("/post/:id", middleware.Protected(), posts.DeletePost)

	// Feeds
	root.Get("/timeline", middleware.Protected(), feed.FetchTimeline)
	root.Get("/search/:text", middleware.Protected(), search.Search)

	// Social graph and profiles
	root.Get("/user/:id", middleware.Protected(), users.GetProfile)
	root.Post("/follow/:id", middleware.Protected(), social.Follow)
	root.Delete("/follow/:id", middleware.Protected(), social.Unfollow)
}
