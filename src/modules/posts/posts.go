package posts

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"

	"github.com/NathyVZM/hashtage-backend/src/core/database"
	"github.com/NathyVZM/hashtage-backend/src/core/helpers"
	"github.com/NathyVZM/hashtage-backend/src/core/models"
	"github.com/NathyVZM/hashtage-backend/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatePost handles POST /post. Creation is two-phase: the post row
// is inserted first, then uploaded images land under a prefix derived
// from the new id and img_path is set in a second write.
func CreatePost(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext())
	authorID, err := helpers.ViewerID(c)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid or missing viewer identity", err)
	}

	text := c.FormValue("text")
	if err := ValidateText(text); err != nil {
		return helpers.HandleAppError(c, "Invalid post text", err)
	}

	post := models.Post{AuthorID: authorID, Text: text}
	if err := db.Create(&post).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create post", err)
	}

	if err := attachImages(c, db, &post); err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to upload images", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Post created successfully", fiber.Map{
		"created": true,
		"post":    post,
	})
}

// CreateComment handles POST /post/comment/:id. A comment is a post
// whose parent references the post being replied to.
func CreateComment(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext())
	authorID, err := helpers.ViewerID(c)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid or missing viewer identity", err)
	}
	parentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid post id", err)
	}

	text := c.FormValue("text")
	if err := ValidateText(text); err != nil {
		return helpers.HandleAppError(c, "Invalid comment text", err)
	}

	var parent models.Post
	if err := db.First(&parent, "id = ?", parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleAppError(c, "Parent post not found", fmt.Errorf("post %s: %w", parentID, helpers.ErrNotFound))
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch parent post", err)
	}

	comment := models.Post{AuthorID: authorID, Text: text, ParentID: &parent.ID}
	if err := db.Create(&comment).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create comment", err)
	}

	if err := attachImages(c, db, &comment); err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to upload images", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Comment created successfully", fiber.Map{
		"created": true,
		"comment": comment,
	})
}

// DeletePost handles DELETE /post/:id. Deletion cascades over the
// whole comment subtree, every like/retweet of any removed post, and
// every stored image under the removed posts' prefixes.
func DeletePost(c *fiber.Ctx) error {
	db := database.DB.WithContext(c.UserContext())
	viewerID, err := helpers.ViewerID(c)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid or missing viewer identity", err)
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid post id", err)
	}

	var post models.Post
	if err := db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusConflict, "Post not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch post", err)
	}
	if post.AuthorID != viewerID {
		return helpers.HandleError(c, fiber.StatusForbidden, "Only the author can delete a post", nil)
	}

	arena, children, err := loadSubtree(db, post)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to collect comment subtree", err)
	}
	ids, err := SubtreeIDs(post.ID, children)
	if err != nil {
		return helpers.HandleAppError(c, "Failed to collect comment subtree", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id IN ?", ids).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN ?", ids).Delete(&models.Retweet{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Post{}).Error
	})
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to delete post", err)
	}

	// Blob cleanup is best-effort after the transaction: a dangling
	// image is preferable to a half-deleted subtree.
	for _, id := range ids {
		if p, ok := arena[id]; ok && p.ImgPath != "" {
			if err := utils.DeleteByPrefix(p.ImgPath); err != nil {
				log.Printf("deleting media under %s: %v", p.ImgPath, err)
			}
		}
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Post deleted successfully", fiber.Map{
		"deleted": true,
		"post":    post,
	})
}

// attachImages uploads any multipart "images" files under the post's
// prefix and records that prefix on the row. No files is not an error.
func attachImages(c *fiber.Ctx, db *gorm.DB, post *models.Post) error {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	files := form.File["images"]
	if len(files) == 0 {
		return nil
	}

	prefix := fmt.Sprintf("hashtage/%s/%s", post.AuthorID, post.ID)
	for _, file := range files {
		if err := uploadImage(file, prefix); err != nil {
			return err
		}
	}

	if err := db.Model(post).Update("img_path", prefix).Error; err != nil {
		return err
	}
	post.ImgPath = prefix
	return nil
}

func uploadImage(file *multipart.FileHeader, prefix string) error {
	path := fmt.Sprintf("%s/%s-%s", prefix, uuid.New(), file.Filename)
	_, _, _, err := utils.UploadToSupabaseStorage(file, path)
	return err
}

// loadSubtree fetches the comment subtree under root level by level
// and returns the arena plus the parent-to-children adjacency.
func loadSubtree(db *gorm.DB, root models.Post) (map[uuid.UUID]models.Post, map[uuid.UUID][]uuid.UUID, error) {
	arena := map[uuid.UUID]models.Post{root.ID: root}
	children := make(map[uuid.UUID][]uuid.UUID)

	frontier := []uuid.UUID{root.ID}
	for len(frontier) > 0 {
		var kids []models.Post
		if err := db.Where("parent_id IN ?", frontier).Order("created_at ASC").Find(&kids).Error; err != nil {
			return nil, nil, fmt.Errorf("fetching comments: %w: %w", helpers.ErrDependency, err)
		}
		frontier = frontier[:0]
		for _, k := range kids {
			if _, ok := arena[k.ID]; ok {
				continue
			}
			arena[k.ID] = k
			children[*k.ParentID] = append(children[*k.ParentID], k.ID)
			frontier = append(frontier, k.ID)
		}
	}
	return arena, children, nil
}
