package feed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/NathyVZM/hashtage-backend/src/core/helpers"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// assembleParallelism bounds the concurrent per-item resolution
// (mostly media lookups) during feed assembly.
const assembleParallelism = 8

// Author is the denormalized identity attached to every item.
type Author struct {
	ID       uuid.UUID `json:"_id"`
	FullName string    `json:"full_name"`
	Username string    `json:"username"`
}

// PostItem is a fully resolved post: author identity, media URLs,
// viewer-relative counts and flags, and (for single-post responses
// only) the materialized comment tree.
type PostItem struct {
	ID      uuid.UUID  `json:"_id"`
	Author  Author     `json:"author"`
	Text    string     `json:"text"`
	Date    time.Time  `json:"date"`
	ImgPath string     `json:"img_path,omitempty"`
	Images  []string   `json:"images"`
	Parent  *uuid.UUID `json:"parent,omitempty"`
	Relationship
	Comments []PostItem `json:"comments,omitempty"`
}

// RetweetItem wraps the fully resolved retweeted post together with
// the identity of the user who retweeted it and when.
type RetweetItem struct {
	ID   uuid.UUID `json:"_id"`
	User Author    `json:"user"`
	Date time.Time `json:"date"`
	Post PostItem  `json:"post"`
}

// FeedItem is the union of PostItem and RetweetItem. Date is the
// item's own creation instant: the post's date for a post, the retweet
// action's date for a retweet. That instant, not the underlying post's
// age, decides feed position.
type FeedItem struct {
	Type    string       `json:"type"`
	Date    time.Time    `json:"date"`
	Post    *PostItem    `json:"post,omitempty"`
	Retweet *RetweetItem `json:"retweet,omitempty"`
}

// Assembler turns a loaded snapshot into resolved feed items for one
// viewer. The viewer id is always explicit; nothing is read from
// ambient state.
type Assembler struct {
	snap   *Snapshot
	media  MediaResolver
	viewer uuid.UUID
}

func NewAssembler(snap *Snapshot, media MediaResolver, viewer uuid.UUID) *Assembler {
	return &Assembler{snap: snap, media: media, viewer: viewer}
}

func (a *Assembler) author(userID uuid.UUID) Author {
	u, ok := a.snap.Users[userID]
	if !ok {
		// Author row missing from the store; surface the id so the
		// item is still renderable.
		return Author{ID: userID}
	}
	return Author{ID: u.ID, FullName: u.FullName, Username: u.Username}
}

// BuildPostItem resolves a single post without its comment tree.
func (a *Assembler) BuildPostItem(ctx context.Context, postID uuid.UUID) (PostItem, error) {
	return a.buildPostItem(ctx, postID, false)
}

func (a *Assembler) buildPostItem(ctx context.Context, postID uuid.UUID, withTree bool) (PostItem, error) {
	if err := ctx.Err(); err != nil {
		return PostItem{}, err
	}
	post, ok := a.snap.Posts[postID]
	if !ok {
		return PostItem{}, fmt.Errorf("post %s: %w", postID, helpers.ErrNotFound)
	}
	rel, err := a.snap.Resolve(postID, a.viewer)
	if err != nil {
		return PostItem{}, err
	}

	item := PostItem{
		ID:           post.ID,
		Author:       a.author(post.AuthorID),
		Text:         post.Text,
		Date:         post.CreatedAt,
		ImgPath:      post.ImgPath,
		Images:       a.media.Resolve(ctx, post.ImgPath),
		Parent:       post.ParentID,
		Relationship: rel,
	}
	if withTree {
		item.Comments, err = a.buildChildren(ctx, postID, 0)
		if err != nil {
			return PostItem{}, err
		}
	}
	return item, nil
}

// Assemble resolves every candidate post and retweet in the snapshot
// and returns them as one list sorted by each item's own creation
// instant, newest first. Posts and retweets come from different tables
// with independent timestamps, so the merge is a single sort over the
// union rather than a concatenation of two ordered lists.
func (a *Assembler) Assemble(ctx context.Context) ([]FeedItem, error) {
	postItems := make([]PostItem, len(a.snap.CandidatePosts))
	retweetItems := make([]RetweetItem, len(a.snap.CandidateRetweets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(assembleParallelism)

	for i, id := range a.snap.CandidatePosts {
		i, id := i, id
		g.Go(func() error {
			item, err := a.buildPostItem(gctx, id, false)
			if err != nil {
				return err
			}
			postItems[i] = item
			return nil
		})
	}
	for i, rt := range a.snap.CandidateRetweets {
		i, rt := i, rt
		g.Go(func() error {
			target, err := a.buildPostItem(gctx, rt.PostID, false)
			if err != nil {
				return err
			}
			retweetItems[i] = RetweetItem{
				ID:   rt.ID,
				User: a.author(rt.UserID),
				Date: rt.CreatedAt,
				Post: target,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(postItems)+len(retweetItems))
	for i := range postItems {
		items = append(items, FeedItem{Type: "post", Date: postItems[i].Date, Post: &postItems[i]})
	}
	for i := range retweetItems {
		items = append(items, FeedItem{Type: "retweet", Date: retweetItems[i].Date, Retweet: &retweetItems[i]})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return items, nil
}

// SinglePost resolves one post together with its full comment tree.
func (a *Assembler) SinglePost(ctx context.Context, postID uuid.UUID) (PostItem, error) {
	return a.buildPostItem(ctx, postID, true)
}
