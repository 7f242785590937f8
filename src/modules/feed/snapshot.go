package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NathyVZM/hashtage-backend/src/core/helpers"
	"github.com/NathyVZM/hashtage-backend/src/core/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Snapshot is the per-request arena the assembler works over: every
// post relevant to the response, an adjacency index from parent to
// children, and the like/retweet rows needed for counts and flags.
// It is loaded with a handful of batched queries up front so that
// resolving an item never goes back to the database.
type Snapshot struct {
	Posts          map[uuid.UUID]models.Post
	Users          map[uuid.UUID]models.User
	Children       map[uuid.UUID][]uuid.UUID
	RetweetsByPost map[uuid.UUID][]models.Retweet
	LikesByPost    map[uuid.UUID][]models.Like

	// CandidatePosts are rendered as PostItems, CandidateRetweets as
	// RetweetItems. Their order here is irrelevant; the assembler sorts
	// the merged result by creation instant.
	CandidatePosts    []uuid.UUID
	CandidateRetweets []models.Retweet
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Posts:          make(map[uuid.UUID]models.Post),
		Users:          make(map[uuid.UUID]models.User),
		Children:       make(map[uuid.UUID][]uuid.UUID),
		RetweetsByPost: make(map[uuid.UUID][]models.Retweet),
		LikesByPost:    make(map[uuid.UUID][]models.Like),
	}
}

// AddPost registers a post in the arena and links it into the
// adjacency index. Adding the same post twice is a no-op, so loaders
// don't have to care whether a row arrived via two different queries.
func (s *Snapshot) AddPost(p models.Post) {
	if _, ok := s.Posts[p.ID]; ok {
		return
	}
	s.Posts[p.ID] = p
	if p.ParentID != nil {
		s.Children[*p.ParentID] = append(s.Children[*p.ParentID], p.ID)
	}
}

// AddUser registers a user in the arena.
func (s *Snapshot) AddUser(u models.User) {
	s.Users[u.ID] = u
}

// AddRetweet indexes a retweet row for count/flag resolution.
func (s *Snapshot) AddRetweet(r models.Retweet) {
	s.RetweetsByPost[r.PostID] = append(s.RetweetsByPost[r.PostID], r)
}

// AddLike indexes a like row for count/flag resolution.
func (s *Snapshot) AddLike(l models.Like) {
	s.LikesByPost[l.PostID] = append(s.LikesByPost[l.PostID], l)
}

func (s *Snapshot) postIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Posts))
	for id := range s.Posts {
		ids = append(ids, id)
	}
	return ids
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the ILIKE wildcard characters so user input
// matches literally instead of acting as a pattern.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// LoadAllTopLevel builds the snapshot for the global feed: every
// top-level post plus every retweet of those posts. The context bounds
// every store query; a cancelled request stops loading.
func LoadAllTopLevel(ctx context.Context, db *gorm.DB) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db = db.WithContext(ctx)
	snap := NewSnapshot()

	var posts []models.Post
	if err := db.Where("parent_id IS NULL").Order("created_at ASC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("fetching top-level posts: %w: %w", helpers.ErrDependency, err)
	}
	for _, p := range posts {
		snap.AddPost(p)
		snap.CandidatePosts = append(snap.CandidatePosts, p.ID)
	}

	if err := hydrateStats(db, snap, true); err != nil {
		return nil, err
	}

	// Every retweet of a candidate post is itself a feed item.
	for _, id := range snap.CandidatePosts {
		snap.CandidateRetweets = append(snap.CandidateRetweets, snap.RetweetsByPost[id]...)
	}

	if err := loadUsers(db, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// LoadSinglePost builds the snapshot for one post and its complete
// comment subtree, fetched level by level so the number of queries is
// proportional to tree depth, not node count.
func LoadSinglePost(ctx context.Context, db *gorm.DB, postID uuid.UUID) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db = db.WithContext(ctx)
	snap := NewSnapshot()

	var root models.Post
	if err := db.First(&root, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %s: %w", postID, helpers.ErrNotFound)
		}
		return nil, fmt.Errorf("fetching post: %w: %w", helpers.ErrDependency, err)
	}
	snap.AddPost(root)
	snap.CandidatePosts = []uuid.UUID{root.ID}

	frontier := []uuid.UUID{root.ID}
	for depth := 0; len(frontier) > 0; depth++ {
		if depth > maxTreeDepth {
			return nil, fmt.Errorf("comment tree under %s exceeds depth %d: %w", postID, maxTreeDepth, helpers.ErrDependency)
		}
		var kids []models.Post
		if err := db.Where("parent_id IN ?", frontier).Order("created_at ASC").Find(&kids).Error; err != nil {
			return nil, fmt.Errorf("fetching comments: %w: %w", helpers.ErrDependency, err)
		}
		frontier = frontier[:0]
		for _, k := range kids {
			snap.AddPost(k)
			frontier = append(frontier, k.ID)
		}
	}

	// The subtree is already complete, so stats hydration must not
	// re-query children.
	if err := hydrateStats(db, snap, false); err != nil {
		return nil, err
	}
	if err := loadUsers(db, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// LoadUserProfile builds the snapshot for a user's page: everything
// they authored (top-level posts and comments both) plus every retweet
// they issued.
func LoadUserProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db = db.WithContext(ctx)
	snap := NewSnapshot()

	var posts []models.Post
	if err := db.Where("author_id = ?", userID).Order("created_at ASC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("fetching user posts: %w: %w", helpers.ErrDependency, err)
	}
	for _, p := range posts {
		snap.AddPost(p)
		snap.CandidatePosts = append(snap.CandidatePosts, p.ID)
	}

	var retweets []models.Retweet
	if err := db.Where("user_id = ?", userID).Order("created_at ASC").Find(&retweets).Error; err != nil {
		return nil, fmt.Errorf("fetching user retweets: %w: %w", helpers.ErrDependency, err)
	}
	snap.CandidateRetweets = retweets

	if err := loadRetweetTargets(db, snap); err != nil {
		return nil, err
	}
	if err := hydrateStats(db, snap, true); err != nil {
		return nil, err
	}
	if err := loadUsers(db, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// LoadTimeline builds the snapshot for the viewer's home timeline:
// top-level posts and retweets from everyone the viewer follows, plus
// the viewer's own.
func LoadTimeline(ctx context.Context, db *gorm.DB, viewerID uuid.UUID) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db = db.WithContext(ctx)
	snap := NewSnapshot()

	var followeeIDs []uuid.UUID
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", viewerID).
		Pluck("followee_id", &followeeIDs).Error; err != nil {
		return nil, fmt.Errorf("fetching followees: %w: %w", helpers.ErrDependency, err)
	}
	authorIDs := append(followeeIDs, viewerID)

	var posts []models.Post
	if err := db.Where("author_id IN ? AND parent_id IS NULL", authorIDs).
		Order("created_at ASC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("fetching timeline posts: %w: %w", helpers.ErrDependency, err)
	}
	for _, p := range posts {
		snap.AddPost(p)
		snap.CandidatePosts = append(snap.CandidatePosts, p.ID)
	}

	var retweets []models.Retweet
	if err := db.Where("user_id IN ?", authorIDs).Order("created_at ASC").Find(&retweets).Error; err != nil {
		return nil, fmt.Errorf("fetching timeline retweets: %w: %w", helpers.ErrDependency, err)
	}
	snap.CandidateRetweets = retweets

	if err := loadRetweetTargets(db, snap); err != nil {
		return nil, err
	}
	if err := hydrateStats(db, snap, true); err != nil {
		return nil, err
	}
	if err := loadUsers(db, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// LoadSearch builds the snapshot for posts whose text contains the
// query, case-insensitively. Matching users are handled separately by
// the search module; only posts flow through the assembler.
func LoadSearch(ctx context.Context, db *gorm.DB, query string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db = db.WithContext(ctx)
	snap := NewSnapshot()

	var posts []models.Post
	if err := db.Where("text ILIKE ?", "%"+EscapeLike(query)+"%").Order("created_at ASC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("searching posts: %w: %w", helpers.ErrDependency, err)
	}
	for _, p := range posts {
		snap.AddPost(p)
		snap.CandidatePosts = append(snap.CandidatePosts, p.ID)
	}

	if err := hydrateStats(db, snap, true); err != nil {
		return nil, err
	}
	if err := loadUsers(db, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// loadRetweetTargets fetches the posts referenced by candidate
// retweets that aren't already in the arena.
func loadRetweetTargets(db *gorm.DB, snap *Snapshot) error {
	var missing []uuid.UUID
	for _, r := range snap.CandidateRetweets {
		if _, ok := snap.Posts[r.PostID]; !ok {
			missing = append(missing, r.PostID)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	var targets []models.Post
	if err := db.Where("id IN ?", missing).Find(&targets).Error; err != nil {
		return fmt.Errorf("fetching retweeted posts: %w: %w", helpers.ErrDependency, err)
	}
	for _, p := range targets {
		snap.AddPost(p)
	}
	return nil
}

// hydrateStats loads the like/retweet rows for every post in the arena
// and, when loadChildren is set, the direct children rows that back
// comment counts.
func hydrateStats(db *gorm.DB, snap *Snapshot, loadChildren bool) error {
	ids := snap.postIDs()
	if len(ids) == 0 {
		return nil
	}

	if loadChildren {
		var kids []models.Post
		if err := db.Where("parent_id IN ?", ids).Order("created_at ASC").Find(&kids).Error; err != nil {
			return fmt.Errorf("fetching comment counts: %w: %w", helpers.ErrDependency, err)
		}
		for _, k := range kids {
			snap.AddPost(k)
		}
	}

	var retweets []models.Retweet
	if err := db.Where("post_id IN ?", ids).Order("created_at ASC").Find(&retweets).Error; err != nil {
		return fmt.Errorf("fetching retweets: %w: %w", helpers.ErrDependency, err)
	}
	for _, r := range retweets {
		snap.AddRetweet(r)
	}

	var likes []models.Like
	if err := db.Where("post_id IN ?", ids).Find(&likes).Error; err != nil {
		return fmt.Errorf("fetching likes: %w: %w", helpers.ErrDependency, err)
	}
	for _, l := range likes {
		snap.AddLike(l)
	}
	return nil
}

// loadUsers fetches every user referenced by a post or retweet in the
// arena so author identity can be denormalized without point lookups.
func loadUsers(db *gorm.DB, snap *Snapshot) error {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, p := range snap.Posts {
		add(p.AuthorID)
	}
	for _, rts := range snap.RetweetsByPost {
		for _, r := range rts {
			add(r.UserID)
		}
	}
	for _, r := range snap.CandidateRetweets {
		add(r.UserID)
	}
	if len(ids) == 0 {
		return nil
	}

	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return fmt.Errorf("fetching users: %w: %w", helpers.ErrDependency, err)
	}
	for _, u := range users {
		snap.AddUser(u)
	}
	return nil
}
