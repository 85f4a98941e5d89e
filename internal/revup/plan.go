package revup

import (
	"context"
	"fmt"
	"runtime"

	"go.abhg.dev/gs/internal/git"
	"go.abhg.dev/gs/internal/taskpool"
)

// RemoteLookup resolves the current remote state for a TopicBranch,
// keyed by its computed branch name.
type RemoteLookup func(key Key) RemoteState

// Plan classifies every TopicBranch in g against remote state and
// returns an UploadPlan in topological order. Synthesize must have
// already been run so every branch's Head is populated.
//
// Classifying a branch only reads its own Head and remote state, so
// every branch is classified concurrently, bounded by the number of
// available cores, even though the resulting Items stay in
// topological order.
func Plan(ctx context.Context, repo *git.Repository, g *Graph, remotes RemoteLookup) (*UploadPlan, error) {
	order := g.TopoOrder()
	items := make([]*PlanItem, len(order))

	pool := taskpool.New(runtime.NumCPU())
	err := taskpool.Run(ctx, pool, len(order), func(ctx context.Context, i int) error {
		tb := order[i]
		state, err := Classify(ctx, repo, tb, remotes(tb.Key()))
		if err != nil {
			return fmt.Errorf("classify %q: %w", tb.Name, err)
		}
		items[i] = &PlanItem{Branch: tb, State: state}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UploadPlan{Items: items}, nil
}
