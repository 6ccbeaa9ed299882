// Package ranking orders senders by message count with an unbalanced binary
// insertion tree.
//
// Each visited node takes one decision: a node whose count is strictly lower
// than the inserted one sends it right, anything else sends it left. Equal
// counts therefore land left of earlier insertions, so after reversing the
// in-order walk, senders with equal counts keep their insertion order.
package ranking

import (
	"github.com/samber/lo"

	"github.com/okian/chatrank/internal/domain/model"
	"github.com/okian/chatrank/internal/domain/types"
)

type node struct {
	sender *model.Sender
	left   *node
	right  *node
}

// less reports whether the node's sender sorts before the inserted one in
// ascending order.
func less(n *node, s *model.Sender) bool {
	return n.sender.MessageCount < s.MessageCount
}

func insert(n *node, s *model.Sender) *node {
	if n == nil {
		return &node{sender: s}
	}
	if less(n, s) {
		n.right = insert(n.right, s)
	} else {
		n.left = insert(n.left, s)
	}
	return n
}

// collectAll appends senders in ascending order.
func collectAll(n *node, out *[]*model.Sender) {
	if n == nil {
		return
	}
	collectAll(n.left, out)
	*out = append(*out, n.sender)
	collectAll(n.right, out)
}

// Tree is the ranking tree. The zero value is an empty tree.
type Tree struct {
	root *node
	size int
}

// NewTree constructs an empty tree.
func NewTree() *Tree { return &Tree{} }

// Insert adds one sender. Counts must not change after insertion.
func (t *Tree) Insert(s *model.Sender) {
	t.root = insert(t.root, s)
	t.size++
}

// Len returns the number of inserted senders.
func (t *Tree) Len() int { return t.size }

// Ascending returns the senders by ascending count, later insertions first
// among equals.
func (t *Tree) Ascending() []*model.Sender {
	out := make([]*model.Sender, 0, t.size)
	collectAll(t.root, &out)
	return out
}

// Rank inserts senders in the given order and returns them by descending
// count, earlier insertions first among equals.
func Rank(senders []*model.Sender) []*model.Sender {
	t := NewTree()
	for _, s := range senders {
		t.Insert(s)
	}
	return lo.Reverse(t.Ascending())
}

// AssignRanks turns a descending ranking into rows. Equal counts share a
// rank and the next distinct count takes the following rank.
func AssignRanks(ranked []*model.Sender, total int) []types.RankedSender {
	out := make([]types.RankedSender, 0, len(ranked))
	currentRank := 0
	for i, s := range ranked {
		if i == 0 || s.MessageCount != ranked[i-1].MessageCount {
			currentRank++
		}
		out = append(out, types.RankedSender{
			Rank:         currentRank,
			Name:         s.Name,
			MessageCount: s.MessageCount,
			Share:        types.Share(s.MessageCount, total),
		})
	}
	return out
}
