// Package render produces the Markdown bodies of the two comments the
// reconciler keeps on every pull request: the review graph (the
// topic's position among its relatives) and the patchsets history (one
// row appended per push).
package render

import (
	"fmt"
	"slices"
	"strings"

	"go.abhg.dev/gs/internal/forge"
	"go.abhg.dev/gs/internal/forge/stacknav"
	"go.abhg.dev/gs/internal/revup"
)

// ReviewGraphMarker identifies the review-graph comment across runs,
// so the reconciler can find it again with
// [forge.Repository.ListChangeComments] instead of persisting a
// comment id locally.
const ReviewGraphMarker = "<!-- revup:review-graph -->"

// ChangeLookup resolves the known forge change for a TopicBranch, or
// reports ok=false if the branch hasn't been submitted yet.
type ChangeLookup func(revup.Key) (*forge.FindChangeItem, bool)

// ReviewGraph renders the review-graph comment body for current: a
// Markdown itemized list of every TopicBranch reachable from current by
// relativity (both downstack ancestors and upstack descendants),
// topologically ordered with ancestors first, the current branch marked.
//
// The relativity graph is a tree (every TopicBranch has at most one
// ParentBranch), so the full connected component reachable from current
// is exactly the subtree rooted at current's bottom-most ancestor.
func ReviewGraph(g *revup.Graph, current *revup.TopicBranch, changes ChangeLookup) string {
	root := current
	for b := range g.Downstack(current) {
		root = b
	}

	nodes := slices.Collect(g.Upstack(root))
	idx := make(map[revup.Key]int, len(nodes))
	for i, b := range nodes {
		idx[b.Key()] = i
	}

	items := make([]graphNode, len(nodes))
	currentIdx := 0
	for i, b := range nodes {
		base := -1
		if b.ParentBranch != nil {
			if j, ok := idx[b.ParentBranch.Key()]; ok {
				base = j
			}
		}
		items[i] = graphNode{value: describeBranch(b, changes), base: base}
		if b == current {
			currentIdx = i
		}
	}

	var buf strings.Builder
	buf.WriteString(ReviewGraphMarker)
	buf.WriteString("\nThis change is part of the following stack:\n\n")
	stacknav.Print(&buf, items, currentIdx, nil)
	return buf.String()
}

func describeBranch(b *revup.TopicBranch, changes ChangeLookup) string {
	if changes != nil {
		if chg, ok := changes(b.Key()); ok {
			title := chg.Subject
			if title == "" {
				title = b.Name
			}
			return fmt.Sprintf("[%s: %s](%s)", chg.ID.String(), title, chg.URL)
		}
	}
	return fmt.Sprintf("`%s` (not yet submitted)", b.Name)
}

type graphNode struct {
	value string
	base  int
}

func (n graphNode) Value() string { return n.value }
func (n graphNode) BaseIdx() int  { return n.base }

var _ stacknav.Node = graphNode{}
