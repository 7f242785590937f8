package feed_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NathyVZM/hashtage-backend/src/modules/feed"

	"github.com/google/uuid"
)

func TestEscapeLike_WildcardsMatchLiterally(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"50% off", `50\% off`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
		{"%_", `\%\_`},
	}
	for _, tc := range cases {
		if got := feed.EscapeLike(tc.in); got != tc.want {
			t.Errorf("EscapeLike(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// Every loader runs its queries under the request context, so a
// request that is already cancelled must abort before touching the
// store at all.
func TestLoaders_CancelledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := feed.LoadAllTopLevel(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadAllTopLevel error = %v, want context.Canceled", err)
	}
	if _, err := feed.LoadSinglePost(ctx, nil, uuid.New()); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadSinglePost error = %v, want context.Canceled", err)
	}
	if _, err := feed.LoadUserProfile(ctx, nil, uuid.New()); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadUserProfile error = %v, want context.Canceled", err)
	}
	if _, err := feed.LoadTimeline(ctx, nil, uuid.New()); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadTimeline error = %v, want context.Canceled", err)
	}
	if _, err := feed.LoadSearch(ctx, nil, "hello"); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadSearch error = %v, want context.Canceled", err)
	}
}
