package commenttree

import (
	"math/rand"
	"testing"

	"campusfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v uint) *uint { return &v }

func comment(id uint, parent *uint) models.Comment {
	return models.Comment{ID: id, PostID: 1, ParentID: parent}
}

// shape renders a forest as nested ids so assertions stay readable.
type shape struct {
	ID      uint
	Replies []shape
}

func shapeOf(forest []*models.CommentNode) []shape {
	out := make([]shape, 0, len(forest))
	for _, n := range forest {
		out = append(out, shape{ID: n.ID, Replies: shapeOf(n.Replies)})
	}
	return out
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()
	forest := Build(nil)
	require.NotNil(t, forest)
	assert.Empty(t, forest)
}

func TestBuild_OrphanScenario(t *testing.T) {
	t.Parallel()
	forest := Build([]models.Comment{
		comment(1, nil),
		comment(2, ptr(1)),
		comment(3, ptr(99)),
	})

	assert.Equal(t, []shape{
		{ID: 3, Replies: []shape{}},
		{ID: 1, Replies: []shape{{ID: 2, Replies: []shape{}}}},
	}, shapeOf(forest))
}

func TestBuild_RootsNewestFirst(t *testing.T) {
	t.Parallel()
	forest := Build([]models.Comment{comment(3, nil), comment(1, nil), comment(2, nil)})
	assert.Equal(t, []shape{
		{ID: 3, Replies: []shape{}},
		{ID: 2, Replies: []shape{}},
		{ID: 1, Replies: []shape{}},
	}, shapeOf(forest))
}

func TestBuild_RepliesKeepDiscoveryOrder(t *testing.T) {
	t.Parallel()
	// children arrive out of id order and must not be re-sorted
	forest := Build([]models.Comment{
		comment(7, ptr(1)),
		comment(1, nil),
		comment(4, ptr(1)),
		comment(9, ptr(4)),
		comment(5, ptr(1)),
	})

	require.Len(t, forest, 1)
	got := make([]uint, 0, 3)
	for _, r := range forest[0].Replies {
		got = append(got, r.ID)
	}
	assert.Equal(t, []uint{7, 4, 5}, got)
	require.Len(t, forest[0].Replies[1].Replies, 1)
	assert.Equal(t, uint(9), forest[0].Replies[1].Replies[0].ID)
}

func TestBuild_ParentAfterChildInInput(t *testing.T) {
	t.Parallel()
	forest := Build([]models.Comment{comment(2, ptr(1)), comment(1, nil)})
	assert.Equal(t, []shape{{ID: 1, Replies: []shape{{ID: 2, Replies: []shape{}}}}}, shapeOf(forest))
}

func TestBuild_SelfParentIsPromoted(t *testing.T) {
	t.Parallel()
	forest := Build([]models.Comment{comment(5, ptr(5)), comment(6, nil)})
	assert.Equal(t, []shape{{ID: 6, Replies: []shape{}}, {ID: 5, Replies: []shape{}}}, shapeOf(forest))
}

func TestBuild_CycleDoesNotDropComments(t *testing.T) {
	t.Parallel()
	comments := []models.Comment{
		comment(1, nil),
		comment(10, ptr(11)),
		comment(11, ptr(10)),
		comment(12, ptr(11)),
	}
	forest := Build(comments)

	assert.Equal(t, len(comments), Count(forest))
	assertEachOnce(t, comments, forest)
}

func TestBuild_DuplicateIDsAreKept(t *testing.T) {
	t.Parallel()
	comments := []models.Comment{comment(1, nil), comment(2, ptr(1)), comment(2, ptr(1))}
	forest := Build(comments)
	assert.Equal(t, 3, Count(forest))
	require.Len(t, forest, 2)
	assert.Len(t, forest[1].Replies, 1)
}

func TestBuild_Idempotent(t *testing.T) {
	t.Parallel()
	comments := randomSnapshot(rand.New(rand.NewSource(7)), 200)
	assert.Equal(t, Build(comments), Build(comments))
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	comments := []models.Comment{comment(2, ptr(1)), comment(1, nil)}
	before := append([]models.Comment(nil), comments...)
	_ = Build(comments)
	assert.Equal(t, before, comments)
}

func TestBuild_Properties(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		comments := randomSnapshot(rng, rng.Intn(60))
		forest := Build(comments)

		require.Equal(t, len(comments), Count(forest), "round %d", round)
		assertEachOnce(t, comments, forest)

		known := make(map[uint]bool, len(comments))
		for _, c := range comments {
			known[c.ID] = true
		}
		parentOf := parents(forest)
		for _, c := range comments {
			switch {
			case c.ParentID == nil || !known[*c.ParentID]:
				_, nested := parentOf[c.ID]
				assert.False(t, nested, "comment %d should be a root", c.ID)
			default:
				assert.Equal(t, *c.ParentID, parentOf[c.ID], "comment %d under wrong parent", c.ID)
			}
		}
		for i := 1; i < len(forest); i++ {
			assert.Greater(t, forest[i-1].ID, forest[i].ID)
		}
	}
}

func TestCount(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, Count(nil))
	forest := Build([]models.Comment{comment(1, nil), comment(2, ptr(1)), comment(3, ptr(2))})
	assert.Equal(t, 3, Count(forest))
}

// randomSnapshot builds a shuffled, well-formed snapshot (parents older than
// children) with a sprinkling of orphans pointing at ids that do not exist.
func randomSnapshot(rng *rand.Rand, n int) []models.Comment {
	comments := make([]models.Comment, 0, n)
	for i := 1; i <= n; i++ {
		id := uint(i)
		switch r := rng.Intn(10); {
		case r < 3 || i == 1:
			comments = append(comments, comment(id, nil))
		case r == 9:
			comments = append(comments, comment(id, ptr(uint(n+1000+i))))
		default:
			comments = append(comments, comment(id, ptr(uint(rng.Intn(i-1)+1))))
		}
	}
	rng.Shuffle(len(comments), func(i, j int) { comments[i], comments[j] = comments[j], comments[i] })
	return comments
}

func assertEachOnce(t *testing.T, comments []models.Comment, forest []*models.CommentNode) {
	t.Helper()
	seen := make(map[uint]int, len(comments))
	stack := append([]*models.CommentNode(nil), forest...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		seen[n.ID]++
		stack = append(stack, n.Replies...)
	}
	for _, c := range comments {
		assert.Equal(t, 1, seen[c.ID], "comment %d", c.ID)
	}
}

func parents(forest []*models.CommentNode) map[uint]uint {
	out := map[uint]uint{}
	stack := append([]*models.CommentNode(nil), forest...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, r := range n.Replies {
			out[r.ID] = n.ID
		}
		stack = append(stack, n.Replies...)
	}
	return out
}
