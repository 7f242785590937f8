package posts

import (
	"fmt"
	"unicode/utf8"

	"github.com/NathyVZM/hashtage-backend/src/core/helpers"
	"github.com/google/uuid"
)

// maxTextRunes is the post text limit, counted in code points.
const maxTextRunes = 280

// ValidateText checks the create-post/comment text rules.
func ValidateText(text string) error {
	if text == "" {
		return fmt.Errorf("text is required: %w", helpers.ErrValidation)
	}
	if n := utf8.RuneCountInString(text); n > maxTextRunes {
		return fmt.Errorf("text is %d code points, limit is %d: %w", n, maxTextRunes, helpers.ErrValidation)
	}
	return nil
}

// SubtreeIDs returns root plus every transitive descendant, parents
// before children. Parents always point at earlier-created posts so a
// cycle shouldn't exist, but a corrupted adjacency must not hang the
// walk, hence the seen set.
func SubtreeIDs(root uuid.UUID, children map[uuid.UUID][]uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{root}
	seen := map[uuid.UUID]bool{root: true}
	for i := 0; i < len(ids); i++ {
		for _, child := range children[ids[i]] {
			if seen[child] {
				return nil, fmt.Errorf("cycle through post %s: %w", child, helpers.ErrDependency)
			}
			seen[child] = true
			ids = append(ids, child)
		}
	}
	return ids, nil
}
