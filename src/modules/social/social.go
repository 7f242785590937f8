package social

import (
	"errors"
	"fmt"

	"github.com/NathyVZM/hashtage-backend/src/core/database"
	"github.com/NathyVZM/hashtage-backend/src/core/helpers"
	"github.com/NathyVZM/hashtage-backend/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow handles POST /follow/:id. A single follows row covers both
// directions of the relationship, so the symmetry invariant cannot be
// broken halfway.
func Follow(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext())
	followerID, followeeID, err := followPair(c)
	if err != nil {
		return helpers.HandleAppError(c, "Invalid follow request", err)
	}

	var followee models.User
	if err := db.First(&followee, "id = ?", followeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleAppError(c, "User not found", fmt.Errorf("user %s: %w", followeeID, helpers.ErrNotFound))
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch user", err)
	}

	var existing models.Follow
	if err := db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).First(&existing).Error; err == nil {
		return helpers.HandleAppError(c, "Already following", fmt.Errorf("follow: %w", helpers.ErrDuplicate))
	}

	follow := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	if err := db.Create(&follow).Error; err != nil {
		// A concurrent follow can slip past the existence check; the
		// unique index turns it into a duplicate, not a server error.
		if helpers.IsUniqueViolation(err) {
			return helpers.HandleAppError(c, "Already following", fmt.Errorf("follow: %w", helpers.ErrDuplicate))
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to follow user", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Successfully followed the user", fiber.Map{
		"user_following": followerID,
		"user_followed":  followeeID,
	})
}

// Unfollow handles DELETE /follow/:id.
func Unfollow(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext())
	followerID, followeeID, err := followPair(c)
	if err != nil {
		return helpers.HandleAppError(c, "Invalid unfollow request", err)
	}

	result := db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&models.Follow{})
	if result.Error != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to unfollow user", result.Error)
	}
	if result.RowsAffected == 0 {
		return helpers.HandleAppError(c, "Not following this user", fmt.Errorf("follow: %w", helpers.ErrNotFound))
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Successfully unfollowed the user", fiber.Map{
		"user_following": followerID,
		"user_followed":  followeeID,
	})
}

// Like handles POST /post/like/:id.
func Like(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext())
	viewerID, post, err := viewerAndPost(c, db)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to like post", err)
	}

	var existing models.Like
	if err := db.Where("user_id = ? AND post_id = ?", viewerID, post.ID).First(&existing).Error; err == nil {
		return helpers.HandleAppError(c, "Post already liked", fmt.Errorf("like: %w", helpers.ErrDuplicate))
	}

	like := models.Like{UserID: viewerID, PostID: post.ID}
	if err := db.Create(&like).Error; err != nil {
		if helpers.IsUniqueViolation(err) {
			return helpers.HandleAppError(c, "Post already liked", fmt.Errorf("like: %w", helpers.ErrDuplicate))
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to like post", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Post liked successfully", fiber.Map{"like": like})
}

// Unlike handles DELETE /post/like/:id. Removing a like that doesn't
// exist is a typed failure, not a crash.
func Unlike(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext())
	viewerID, post, err := viewerAndPost(c, db)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to unlike post", err)
	}

	var like models.Like
	if err := db.Where("user_id = ? AND post_id = ?", viewerID, post.ID).First(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleAppError(c, "Like not found", fmt.Errorf("like: %w", helpers.ErrNotFound))
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch like", err)
	}
	if err := db.Delete(&like).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to unlike post", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Post unliked successfully", fiber.Map{"like": like})
}

// Retweet handles POST /post/retweet/:id. Only top-level posts can be
// retweeted; the schema doesn't enforce that, this handler does.
func Retweet(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext())
	viewerID, post, err := viewerAndPost(c, db)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to retweet post", err)
	}
	if post.IsComment() {
		return helpers.HandleAppError(c, "Comments cannot be retweeted", fmt.Errorf("retweet of comment %s: %w", post.ID, helpers.ErrValidation))
	}

	var existing models.Retweet
	if err := db.Where("user_id = ? AND post_id = ?", viewerID, post.ID).First(&existing).Error; err == nil {
		return helpers.HandleAppError(c, "Post already retweeted", fmt.Errorf("retweet: %w", helpers.ErrDuplicate))
	}

	retweet := models.Retweet{UserID: viewerID, PostID: post.ID}
	if err := db.Create(&retweet).Error; err != nil {
		if helpers.IsUniqueViolation(err) {
			return helpers.HandleAppError(c, "Post already retweeted", fmt.Errorf("retweet: %w", helpers.ErrDuplicate))
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to retweet post", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Post retweeted successfully", fiber.Map{"retweet": retweet})
}

// Unretweet handles DELETE /post/retweet/:id.
func Unretweet(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext())
	viewerID, post, err := viewerAndPost(c, db)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to unretweet post", err)
	}

	var retweet models.Retweet
	if err := db.Where("user_id = ? AND post_id = ?", viewerID, post.ID).First(&retweet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleAppError(c, "Retweet not found", fmt.Errorf("retweet: %w", helpers.ErrNotFound))
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch retweet", err)
	}
	if err := db.Delete(&retweet).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to unretweet post", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Post unretweeted successfully", fiber.Map{"retweet": retweet})
}

func followPair(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	followerID, err := helpers.ViewerID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%v: %w", err, helpers.ErrValidation)
	}
	followeeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid user id: %w", helpers.ErrValidation)
	}
	if followerID == followeeID {
		return uuid.Nil, uuid.Nil, fmt.Errorf("cannot follow yourself: %w", helpers.ErrValidation)
	}
	return followerID, followeeID, nil
}

func viewerAndPost(c *fiber.Ctx, db *gorm.DB) (uuid.UUID, models.Post, error) {
	viewerID, err := helpers.ViewerID(c)
	if err != nil {
		return uuid.Nil, models.Post{}, fmt.Errorf("%v: %w", err, helpers.ErrValidation)
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, models.Post{}, fmt.Errorf("invalid post id: %w", helpers.ErrValidation)
	}

	var post models.Post
	if err := db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, models.Post{}, fmt.Errorf("post %s: %w", postID, helpers.ErrNotFound)
		}
		return uuid.Nil, models.Post{}, fmt.Errorf("fetching post: %w: %w", helpers.ErrDependency, err)
	}
	return viewerID, post, nil
}
