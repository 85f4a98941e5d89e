package revup

import (
	"iter"
	"slices"

	"go.abhg.dev/container/ring"
	"go.abhg.dev/gs/internal/graph"
)

// Graph is the full view of a topic's TopicBranches built by Build: a
// DAG where a TopicBranch's parent may be another TopicBranch (when
// its topic is Relative to another) or a plain base branch tip, and a
// TopicBranch may have more than one TopicBranch above it (more than
// one topic relative to it).
type Graph struct {
	branches []*TopicBranch
	byKey    map[Key]int
	aboves   map[Key][]int // parent key -> indices of branches directly above it
}

// NewGraph indexes branches (already carrying resolved ParentBranch
// pointers, see Build) into a traversable Graph.
func NewGraph(branches []*TopicBranch) *Graph {
	byKey := make(map[Key]int, len(branches))
	for i, b := range branches {
		byKey[b.Key()] = i
	}

	aboves := make(map[Key][]int)
	for i, b := range branches {
		if b.ParentBranch != nil {
			pk := b.ParentBranch.Key()
			aboves[pk] = append(aboves[pk], i)
		}
	}

	return &Graph{branches: branches, byKey: byKey, aboves: aboves}
}

// All iterates every TopicBranch in the graph, in input order.
func (g *Graph) All() iter.Seq[*TopicBranch] {
	return slices.Values(g.branches)
}

// Lookup returns the TopicBranch for key, if present.
func (g *Graph) Lookup(key Key) (*TopicBranch, bool) {
	idx, ok := g.byKey[key]
	if !ok {
		return nil, false
	}
	return g.branches[idx], true
}

// Aboves returns the TopicBranches whose ParentBranch is branch.
func (g *Graph) Aboves(branch *TopicBranch) iter.Seq[*TopicBranch] {
	return func(yield func(*TopicBranch) bool) {
		for _, idx := range g.aboves[branch.Key()] {
			if !yield(g.branches[idx]) {
				return
			}
		}
	}
}

// Upstack returns branch and every TopicBranch transitively above it,
// breadth-first. The first element is always branch itself.
func (g *Graph) Upstack(branch *TopicBranch) iter.Seq[*TopicBranch] {
	return func(yield func(*TopicBranch) bool) {
		var q ring.Q[*TopicBranch]
		q.Push(branch)
		for !q.Empty() {
			cur := q.Pop()
			if !yield(cur) {
				return
			}
			for above := range g.Aboves(cur) {
				q.Push(above)
			}
		}
	}
}

// Downstack returns branch and every TopicBranch it is transitively
// relative to, nearest first, stopping once a branch with no
// ParentBranch (relative to a plain base tip) is reached.
func (g *Graph) Downstack(branch *TopicBranch) iter.Seq[*TopicBranch] {
	return func(yield func(*TopicBranch) bool) {
		cur := branch
		for cur != nil {
			if !yield(cur) {
				return
			}
			cur = cur.ParentBranch
		}
	}
}

// TopoOrder returns all branches such that a branch never precedes its
// own ParentBranch (when set), using the generic parent-pointer sort
// from the graph package.
func (g *Graph) TopoOrder() []*TopicBranch {
	return graph.Toposort(g.branches, func(b *TopicBranch) (*TopicBranch, bool) {
		if b.ParentBranch == nil {
			return nil, false
		}
		return b.ParentBranch, true
	})
}
