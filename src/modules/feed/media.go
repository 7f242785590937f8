package feed

import (
	"context"
	"log"

	"github.com/NathyVZM/hashtage-backend/src/utils"
)

// MediaResolver maps a post's image path prefix to resolved URLs.
type MediaResolver interface {
	Resolve(ctx context.Context, imgPath string) []string
}

// SupabaseMedia resolves image prefixes against Supabase storage. A
// storage failure degrades to an empty list instead of failing the
// feed response: a feed with missing images beats no feed at all.
type SupabaseMedia struct{}

func NewSupabaseMedia() SupabaseMedia {
	return SupabaseMedia{}
}

func (SupabaseMedia) Resolve(ctx context.Context, imgPath string) []string {
	if imgPath == "" {
		return []string{}
	}
	if ctx.Err() != nil {
		return []string{}
	}
	urls, err := utils.ListPublicURLs(imgPath)
	if err != nil {
		log.Printf("media resolution failed for %s: %v", imgPath, err)
		return []string{}
	}
	return urls
}
