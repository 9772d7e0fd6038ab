// Package commenttree assembles threaded comment forests from flat,
// parent-referencing comment rows.
package commenttree

import (
	"cmp"
	"slices"

	"campusfeed/internal/models"
)

const noParent = -1

// Build turns a flat snapshot of one post's comments into an ordered forest.
//
// Roots are ordered by ID descending (newest first). Replies keep the order in
// which they appear in the input. A comment whose parent is missing from the
// snapshot is promoted to a root, so every input row appears exactly once in
// the output. Build never fails; an empty input yields an empty forest.
func Build(comments []models.Comment) []*models.CommentNode {
	n := len(comments)

	// id -> arena slot; the first row with a given id owns it
	index := make(map[uint]int, n)
	for i := range comments {
		if _, dup := index[comments[i].ID]; !dup {
			index[comments[i].ID] = i
		}
	}

	parent := make([]int, n)
	children := make([][]int, n)
	roots := make([]int, 0, n)
	for i := range comments {
		parent[i] = noParent
		pid := comments[i].ParentID
		if pid == nil || index[comments[i].ID] != i {
			roots = append(roots, i)
			continue
		}
		p, ok := index[*pid]
		if !ok || p == i {
			roots = append(roots, i)
			continue
		}
		parent[i] = p
		children[p] = append(children[p], i)
	}

	roots = breakCycles(roots, parent, children)

	slices.SortStableFunc(roots, func(a, b int) int {
		return cmp.Compare(comments[b].ID, comments[a].ID)
	})

	arena := make([]models.CommentNode, n)
	for i := range comments {
		arena[i].Comment = comments[i]
		arena[i].Replies = make([]*models.CommentNode, 0, len(children[i]))
	}
	for i := range arena {
		for _, c := range children[i] {
			arena[i].Replies = append(arena[i].Replies, &arena[c])
		}
	}

	forest := make([]*models.CommentNode, 0, len(roots))
	for _, r := range roots {
		forest = append(forest, &arena[r])
	}
	return forest
}

// breakCycles promotes one member of every parent cycle to a root. Rows whose
// ancestry loops back on itself are unreachable from the real roots and would
// otherwise vanish from the output.
func breakCycles(roots, parent []int, children [][]int) []int {
	n := len(parent)
	visited := make([]bool, n)
	stack := make([]int, 0, n)
	mark := func(start int) {
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[top] {
				continue
			}
			visited[top] = true
			stack = append(stack, children[top]...)
		}
	}
	for _, r := range roots {
		mark(r)
	}

	onPath := make([]int, n)
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		// every ancestor of an unvisited row is unvisited, so this climb ends on a cycle
		j := i
		for onPath[j] != i+1 {
			onPath[j] = i + 1
			j = parent[j]
		}
		p := parent[j]
		children[p] = slices.DeleteFunc(children[p], func(c int) bool { return c == j })
		parent[j] = noParent
		roots = append(roots, j)
		mark(j)
	}
	return roots
}

// Count returns the number of nodes in a forest, replies included.
func Count(forest []*models.CommentNode) int {
	total := 0
	stack := append([]*models.CommentNode(nil), forest...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		total++
		stack = append(stack, node.Replies...)
	}
	return total
}
