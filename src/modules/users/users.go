package users

import (
	"context"
	"errors"
	"time"

	"github.com/NathyVZM/hashtage-backend/src/core/database"
	"github.com/NathyVZM/hashtage-backend/src/core/helpers"
	"github.com/NathyVZM/hashtage-backend/src/core/models"
	"github.com/NathyVZM/hashtage-backend/src/modules/feed"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const profileTimeout = 10 * time.Second

type profile struct {
	ID             uuid.UUID  `json:"_id"`
	FullName       string     `json:"full_name"`
	Username       string     `json:"username"`
	Address        string     `json:"address,omitempty"`
	Birthday       *time.Time `json:"birthday,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	FollowersCount int64      `json:"followers_count"`
	FollowingCount int64      `json:"following_count"`
	IsFollower     bool       `json:"is_follower"`
}

// GetProfile handles GET /user/:id: the user's identity with follow
// counts and the viewer's is_follower flag, plus everything they
// posted or retweeted merged into one chronological list.
func GetProfile(c *fiber.Ctx) error {
	viewerID, err := helpers.ViewerID(c)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid or missing viewer identity", err)
	}
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user id", err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), profileTimeout)
	defer cancel()
	db := database.DB.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "User not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch user", err)
	}

	summary, err := profileSummary(db, user, viewerID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch profile", err)
	}

	snap, err := feed.LoadUserProfile(ctx, db, userID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return helpers.HandleError(c, fiber.StatusGatewayTimeout, "Profile fetch timed out", err)
		}
		return helpers.HandleAppError(c, "Failed to fetch user posts", err)
	}

	items, err := feed.NewAssembler(snap, feed.NewSupabaseMedia(), viewerID).Assemble(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return helpers.HandleError(c, fiber.StatusGatewayTimeout, "Profile assembly timed out", err)
		}
		return helpers.HandleAppError(c, "Failed to assemble profile feed", err)
	}

	// The merged list already honors the ordering invariant; the
	// retweets key repeats just the retweet items for clients that
	// render them separately.
	retweets := make([]feed.RetweetItem, 0)
	for _, item := range items {
		if item.Retweet != nil {
			retweets = append(retweets, *item.Retweet)
		}
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "User profile retrieved successfully", fiber.Map{
		"user":     summary,
		"posts":    items,
		"retweets": retweets,
	})
}

func profileSummary(db *gorm.DB, user models.User, viewerID uuid.UUID) (profile, error) {
	var followers, following int64
	if err := db.Model(&models.Follow{}).Where("followee_id = ?", user.ID).Count(&followers).Error; err != nil {
		return profile{}, err
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&following).Error; err != nil {
		return profile{}, err
	}

	var isFollower bool
	if viewerID != user.ID {
		var n int64
		if err := db.Model(&models.Follow{}).
			Where("follower_id = ? AND followee_id = ?", viewerID, user.ID).Count(&n).Error; err != nil {
			return profile{}, err
		}
		isFollower = n > 0
	}

	return profile{
		ID:             user.ID,
		FullName:       user.FullName,
		Username:       user.Username,
		Address:        user.Address,
		Birthday:       user.Birthday,
		Bio:            user.Bio,
		FollowersCount: followers,
		FollowingCount: following,
		IsFollower:     isFollower,
	}, nil
}
