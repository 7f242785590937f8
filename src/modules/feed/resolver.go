package feed

import (
	"fmt"

	"github.com/NathyVZM/hashtage-backend/src/core/helpers"
	"github.com/google/uuid"
)

// Relationship is the viewer-relative view of a single post: aggregate
// counts plus the flags that depend on who is looking.
type Relationship struct {
	RetweetsCount int  `json:"retweets_count"`
	CommentsCount int  `json:"comments_count"`
	LikesCount    int  `json:"likes_count"`
	DidRetweet    bool `json:"did_retweet"`
	DidLike       bool `json:"did_like"`
	IsAuthor      bool `json:"is_author"`
}

// Resolve computes counts and flags for postID as seen by viewerID.
// Pure read over the snapshot; counts default to zero when no rows
// exist. Fails only when the post itself is not in the arena.
func (s *Snapshot) Resolve(postID, viewerID uuid.UUID) (Relationship, error) {
	post, ok := s.Posts[postID]
	if !ok {
		return Relationship{}, fmt.Errorf("post %s: %w", postID, helpers.ErrNotFound)
	}

	rel := Relationship{
		RetweetsCount: len(s.RetweetsByPost[postID]),
		CommentsCount: len(s.Children[postID]),
		LikesCount:    len(s.LikesByPost[postID]),
		IsAuthor:      post.AuthorID == viewerID,
	}
	for _, r := range s.RetweetsByPost[postID] {
		if r.UserID == viewerID {
			rel.DidRetweet = true
			break
		}
	}
	for _, l := range s.LikesByPost[postID] {
		if l.UserID == viewerID {
			rel.DidLike = true
			break
		}
	}
	return rel, nil
}
