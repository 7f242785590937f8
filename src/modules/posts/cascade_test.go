package posts_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/NathyVZM/hashtage-backend/src/core/helpers"
	"github.com/NathyVZM/hashtage-backend/src/modules/posts"

	"github.com/google/uuid"
)

func TestValidateText_RejectsEmpty(t *testing.T) {
	if err := posts.ValidateText(""); !errors.Is(err, helpers.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestValidateText_CountsCodePointsNotBytes(t *testing.T) {
	// 280 multibyte runes are inside the limit even though the byte
	// length is far past it.
	text := strings.Repeat("é", 280)
	if err := posts.ValidateText(text); err != nil {
		t.Errorf("280 code points should pass, got %v", err)
	}
	if err := posts.ValidateText(text + "!"); !errors.Is(err, helpers.ErrValidation) {
		t.Error("281 code points should fail")
	}
}

func TestSubtreeIDs_SingleNode(t *testing.T) {
	root := uuid.New()
	ids, err := posts.SubtreeIDs(root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != root {
		t.Errorf("got %v, want just the root", ids)
	}
}

func TestSubtreeIDs_CollectsAllDescendants(t *testing.T) {
	root := uuid.New()
	c1 := uuid.New()
	c2 := uuid.New()
	g1 := uuid.New()
	g2 := uuid.New()

	children := map[uuid.UUID][]uuid.UUID{
		root: {c1, c2},
		c1:   {g1},
		g1:   {g2},
	}

	ids, err := posts.SubtreeIDs(root, children)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 5 {
		t.Fatalf("got %d ids, want 5: %v", len(ids), ids)
	}

	seen := make(map[uuid.UUID]int)
	for i, id := range ids {
		seen[id] = i
	}
	for _, id := range []uuid.UUID{root, c1, c2, g1, g2} {
		if _, ok := seen[id]; !ok {
			t.Errorf("missing %s", id)
		}
	}
	// parents come before their children
	if seen[c1] > seen[g1] || seen[g1] > seen[g2] {
		t.Errorf("parents should precede children: %v", ids)
	}
}

func TestSubtreeIDs_CycleFailsInsteadOfHanging(t *testing.T) {
	root := uuid.New()
	a := uuid.New()
	children := map[uuid.UUID][]uuid.UUID{
		root: {a},
		a:    {root},
	}

	_, err := posts.SubtreeIDs(root, children)
	if !errors.Is(err, helpers.ErrDependency) {
		t.Errorf("got %v, want ErrDependency", err)
	}
}
