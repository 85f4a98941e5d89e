package revup

// PruneEmpty drops every TopicBranch marked Empty by Synthesize (every
// member commit turned out empty relative to its running parent tree)
// and rewires any branch that was relative to a dropped one onto that
// branch's own effective parent, so the DAG never references a branch
// that no longer exists.
//
// Must run after Synthesize. A topic whose every commit turned out
// empty is dropped entirely, while a topic with at least one
// non-empty commit keeps all its commits.
func PruneEmpty(g *Graph) *Graph {
	memo := make(map[Key]parentRef, len(g.byKey))

	var resolve func(b *TopicBranch) parentRef
	resolve = func(b *TopicBranch) parentRef {
		if !b.Empty {
			return parentRef{branch: b, ref: b.Name}
		}
		if p, ok := memo[b.Key()]; ok {
			return p
		}
		var p parentRef
		if b.ParentBranch == nil {
			p = parentRef{ref: b.ParentRef}
		} else {
			p = resolve(b.ParentBranch)
		}
		memo[b.Key()] = p
		return p
	}

	kept := make([]*TopicBranch, 0, len(g.branches))
	for b := range g.All() {
		if b.Empty {
			continue
		}
		if b.ParentBranch != nil {
			p := resolve(b.ParentBranch)
			b.ParentBranch = p.branch
			b.ParentRef = p.ref
		}
		kept = append(kept, b)
	}

	return NewGraph(kept)
}

type parentRef struct {
	branch *TopicBranch
	ref    string
}
