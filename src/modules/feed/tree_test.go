package feed_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NathyVZM/hashtage-backend/src/core/helpers"
	"github.com/NathyVZM/hashtage-backend/src/core/models"
	"github.com/NathyVZM/hashtage-backend/src/modules/feed"

	"github.com/google/uuid"
)

func TestSinglePost_NoChildren_EmptyTree(t *testing.T) {
	u1 := newUser("u1")
	post := newPost(u1, "leaf", baseTime)

	snap := feed.NewSnapshot()
	snap.AddUser(u1)
	snap.AddPost(post)

	item, err := feed.NewAssembler(snap, stubMedia{}, u1.ID).SinglePost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(item.Comments) != 0 {
		t.Errorf("got %d comments, want 0", len(item.Comments))
	}
}

func TestSinglePost_UnknownID_ReturnsNotFound(t *testing.T) {
	snap := feed.NewSnapshot()
	_, err := feed.NewAssembler(snap, stubMedia{}, uuid.New()).SinglePost(context.Background(), uuid.New())
	if !errors.Is(err, helpers.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestSinglePost_NestedTree_RecursesToAnyDepth(t *testing.T) {
	u1 := newUser("u1")
	u2 := newUser("u2")

	root := newPost(u1, "root", baseTime)
	reply := newComment(u2, root, "reply", baseTime.Add(time.Minute))
	nested := newComment(u1, reply, "nested", baseTime.Add(2*time.Minute))

	snap := feed.NewSnapshot()
	snap.AddUser(u1)
	snap.AddUser(u2)
	snap.AddPost(root)
	snap.AddPost(reply)
	snap.AddPost(nested)

	item, err := feed.NewAssembler(snap, stubMedia{}, u1.ID).SinglePost(context.Background(), root.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(item.Comments) != 1 {
		t.Fatalf("root: got %d children, want 1", len(item.Comments))
	}
	mid := item.Comments[0]
	if mid.Text != "reply" {
		t.Errorf("first level: got %q", mid.Text)
	}
	if mid.CommentsCount != 1 {
		t.Errorf("comment node comments_count: got %d, want 1", mid.CommentsCount)
	}
	if len(mid.Comments) != 1 || mid.Comments[0].Text != "nested" {
		t.Fatalf("second level: got %+v", mid.Comments)
	}
	if mid.Parent == nil || *mid.Parent != root.ID {
		t.Error("comment node should carry its parent reference")
	}
}

func TestSinglePost_SiblingsStayInInsertionOrder(t *testing.T) {
	u1 := newUser("u1")
	root := newPost(u1, "root", baseTime)

	snap := feed.NewSnapshot()
	snap.AddUser(u1)
	snap.AddPost(root)

	// AddPost is called oldest first, mirroring the loader's
	// created_at ASC ordering.
	texts := []string{"first", "second", "third"}
	for i, text := range texts {
		snap.AddPost(newComment(u1, root, text, baseTime.Add(time.Duration(i+1)*time.Minute)))
	}

	item, err := feed.NewAssembler(snap, stubMedia{}, u1.ID).SinglePost(context.Background(), root.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(item.Comments) != 3 {
		t.Fatalf("got %d children, want 3", len(item.Comments))
	}
	for i, want := range texts {
		if item.Comments[i].Text != want {
			t.Errorf("child %d: got %q, want %q", i, item.Comments[i].Text, want)
		}
	}
}

func TestSinglePost_DepthGuardStopsRunawayRecursion(t *testing.T) {
	u1 := newUser("u1")
	root := newPost(u1, "root", baseTime)

	snap := feed.NewSnapshot()
	snap.AddUser(u1)
	snap.AddPost(root)

	parent := root
	for i := 0; i < 80; i++ {
		child := newComment(u1, parent, "deep", baseTime.Add(time.Duration(i+1)*time.Second))
		snap.AddPost(child)
		parent = child
	}

	_, err := feed.NewAssembler(snap, stubMedia{}, u1.ID).SinglePost(context.Background(), root.ID)
	if !errors.Is(err, helpers.ErrDependency) {
		t.Errorf("got %v, want depth guard failure", err)
	}
}

func TestResolve_MissingPost_ReturnsNotFound(t *testing.T) {
	snap := feed.NewSnapshot()
	_, err := snap.Resolve(uuid.New(), uuid.New())
	if !errors.Is(err, helpers.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestResolve_FlagMatchesExactJoinRow(t *testing.T) {
	u1 := newUser("u1")
	u2 := newUser("u2")
	a := newPost(u1, "a", baseTime)
	b := newPost(u1, "b", baseTime.Add(time.Minute))

	snap := feed.NewSnapshot()
	snap.AddUser(u1)
	snap.AddUser(u2)
	snap.AddPost(a)
	snap.AddPost(b)
	snap.AddLike(models.Like{ID: uuid.New(), UserID: u2.ID, PostID: a.ID})
	snap.AddRetweet(models.Retweet{ID: uuid.New(), UserID: u2.ID, PostID: b.ID, CreatedAt: baseTime})

	relA, err := snap.Resolve(a.ID, u2.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !relA.DidLike || relA.DidRetweet {
		t.Errorf("post a for u2: got %+v, want did_like only", relA)
	}

	relB, err := snap.Resolve(b.ID, u2.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if relB.DidLike || !relB.DidRetweet {
		t.Errorf("post b for u2: got %+v, want did_retweet only", relB)
	}

	// a different viewer sees counts but no flags
	relOther, err := snap.Resolve(a.ID, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if relOther.DidLike || relOther.DidRetweet || relOther.IsAuthor {
		t.Errorf("unrelated viewer: got %+v, want no flags", relOther)
	}
	if relOther.LikesCount != 1 {
		t.Errorf("likes_count: got %d, want 1", relOther.LikesCount)
	}
}
