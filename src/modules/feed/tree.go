package feed

import (
	"context"
	"fmt"

	"github.com/NathyVZM/hashtage-backend/src/core/helpers"
	"github.com/google/uuid"
)

// maxTreeDepth guards the recursion. A parent always references an
// earlier-created post, so a real tree terminates on its own, but the
// builder doesn't trust that invariant blindly.
const maxTreeDepth = 64

// buildChildren materializes the reply tree under postID. Siblings are
// kept in insertion order, oldest first; the recursion mirrors the
// domain's shape while all data access already happened at snapshot
// load time.
func (a *Assembler) buildChildren(ctx context.Context, postID uuid.UUID, depth int) ([]PostItem, error) {
	if depth > maxTreeDepth {
		return nil, fmt.Errorf("comment tree under %s exceeds depth %d: %w", postID, maxTreeDepth, helpers.ErrDependency)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	childIDs := a.snap.Children[postID]
	children := make([]PostItem, 0, len(childIDs))
	for _, childID := range childIDs {
		item, err := a.buildPostItem(ctx, childID, false)
		if err != nil {
			return nil, err
		}
		item.Comments, err = a.buildChildren(ctx, childID, depth+1)
		if err != nil {
			return nil, err
		}
		children = append(children, item)
	}
	return children, nil
}
