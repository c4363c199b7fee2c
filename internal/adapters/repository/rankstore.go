package repository

import (
	"context"
	"math/rand"
	"sync"
)

// Treap-based, in-memory RankStore implementation.
//
// Ordering: trust score DESC, then evaluator id ASC (deterministic).
// "Less" means ranks earlier, so an in-order traversal walks the
// leaderboard from best to worst. Unlike a best-only leaderboard, Set
// replaces the evaluator's score with whatever the reputation engine
// produced, up or down.

type treapNode struct {
	id    string
	score float64
	prio  uint64
	left  *treapNode
	right *treapNode
	size  int
}

func nodeSize(n *treapNode) int {
	if n == nil {
		return 0
	}
	return n.size
}

func (n *treapNode) recalc() {
	n.size = 1 + nodeSize(n.left) + nodeSize(n.right)
}

// ranksBefore reports whether (scoreA, idA) ranks earlier than (scoreB, idB).
func ranksBefore(scoreA float64, idA string, scoreB float64, idB string) bool {
	if scoreA != scoreB {
		return scoreA > scoreB
	}
	return idA < idB
}

// TreapStore implements RankStore with an in-memory treap.
type TreapStore struct {
	mu     sync.RWMutex
	root   *treapNode
	scores map[string]float64
	rng    *rand.Rand
}

// NewTreapStore creates an empty evaluator ranking store.
func NewTreapStore(_ context.Context) *TreapStore {
	return &TreapStore{
		scores: make(map[string]float64),
		rng:    rand.New(rand.NewSource(rand.Int63())), //nolint:gosec // treap priorities, not security material
	}
}

// Set records the evaluator's current trust score, replacing any previous
// value.
func (t *TreapStore) Set(_ context.Context, evaluatorID string, trustScore float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.scores[evaluatorID]; ok {
		if old == trustScore {
			return nil
		}
		t.root = remove(t.root, old, evaluatorID)
	}
	t.scores[evaluatorID] = trustScore
	t.root = insert(t.root, &treapNode{
		id:    evaluatorID,
		score: trustScore,
		prio:  t.rng.Uint64(),
		size:  1,
	})
	return nil
}

// Rank returns the current rank and score for an evaluator. Rank is
// 1-based.
func (t *TreapStore) Rank(_ context.Context, evaluatorID string) (Entry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	score, ok := t.scores[evaluatorID]
	if !ok {
		return Entry{}, ErrNotFound
	}

	rank := 1
	n := t.root
	for n != nil {
		if ranksBefore(score, evaluatorID, n.score, n.id) {
			n = n.left
		} else if n.id == evaluatorID {
			rank += nodeSize(n.left)
			return Entry{Rank: rank, EvaluatorID: evaluatorID, TrustScore: score}, nil
		} else {
			rank += nodeSize(n.left) + 1
			n = n.right
		}
	}
	return Entry{}, ErrNotFound
}

// TopN returns the best n entries ordered by trust score desc.
func (t *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, 0, n)
	collect(t.root, n, &out)
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// Count returns the number of ranked evaluators.
func (t *TreapStore) Count(_ context.Context) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.scores)
}

func collect(n *treapNode, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collect(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, Entry{EvaluatorID: n.id, TrustScore: n.score})
	}
	collect(n.right, limit, out)
}

func insert(root, n *treapNode) *treapNode {
	if root == nil {
		return n
	}
	if ranksBefore(n.score, n.id, root.score, root.id) {
		root.left = insert(root.left, n)
		if root.left.prio > root.prio {
			root = rotateRight(root)
		}
	} else {
		root.right = insert(root.right, n)
		if root.right.prio > root.prio {
			root = rotateLeft(root)
		}
	}
	root.recalc()
	return root
}

func remove(root *treapNode, score float64, id string) *treapNode {
	if root == nil {
		return nil
	}
	switch {
	case root.id == id && root.score == score:
		root = merge(root.left, root.right)
	case ranksBefore(score, id, root.score, root.id):
		root.left = remove(root.left, score, id)
	default:
		root.right = remove(root.right, score, id)
	}
	if root != nil {
		root.recalc()
	}
	return root
}

func merge(a, b *treapNode) *treapNode {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.prio > b.prio:
		a.right = merge(a.right, b)
		a.recalc()
		return a
	default:
		b.left = merge(a, b.left)
		b.recalc()
		return b
	}
}

func rotateRight(n *treapNode) *treapNode {
	l := n.left
	n.left = l.right
	l.right = n
	n.recalc()
	l.recalc()
	return l
}

func rotateLeft(n *treapNode) *treapNode {
	r := n.right
	n.right = r.left
	r.left = n
	n.recalc()
	r.recalc()
	return r
}
