package github

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"
	"go.abhg.dev/gs/internal/forge"
	"go.abhg.dev/gs/internal/git"
)

// FindChangesByBranch searches for changes with the given head branch.
func (r *Repository) FindChangesByBranch(
	ctx context.Context,
	branch string,
	opts forge.FindChangesOptions,
) ([]*forge.FindChangeItem, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	var q struct {
		Repository struct {
			PullRequests struct {
				Nodes []pullRequestFields `graphql:"nodes"`
			} `graphql:"pullRequests(headRefName: $head, first: $first, orderBy: {field: UPDATED_AT, direction: DESC})"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	if err := r.client.Query(ctx, &q, map[string]any{
		"owner": githubv4.String(r.owner),
		"repo":  githubv4.String(r.repo),
		"head":  githubv4.String(branch),
		"first": githubv4.Int(limit),
	}); err != nil {
		return nil, fmt.Errorf("list pull requests: %w", err)
	}

	var items []*forge.FindChangeItem
	for _, pr := range q.Repository.PullRequests.Nodes {
		state := forgeChangeState(pr.State)
		if opts.State != 0 && opts.State != state {
			continue
		}
		items = append(items, pr.toFindChangeItem(state))
	}

	return items, nil
}

// FindChangeByID looks up a single change by its ID.
func (r *Repository) FindChangeByID(ctx context.Context, id forge.ChangeID) (*forge.FindChangeItem, error) {
	pr := mustPR(id)

	var q struct {
		Repository struct {
			PullRequest pullRequestFields `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}
	if err := r.client.Query(ctx, &q, map[string]any{
		"owner":  githubv4.String(r.owner),
		"repo":   githubv4.String(r.repo),
		"number": githubv4.Int(pr.Number),
	}); err != nil {
		return nil, fmt.Errorf("get pull request: %w", err)
	}

	found := q.Repository.PullRequest
	return found.toFindChangeItem(forgeChangeState(found.State)), nil
}

// pullRequestFields is the common set of fields queried for a pull
// request by both FindChangesByBranch and FindChangeByID.
type pullRequestFields struct {
	ID        githubv4.ID               `graphql:"id"`
	Number    githubv4.Int              `graphql:"number"`
	URL       githubv4.URI              `graphql:"url"`
	State     githubv4.PullRequestState `graphql:"state"`
	Title     githubv4.String          `graphql:"title"`
	IsDraft   githubv4.Boolean         `graphql:"isDraft"`
	BaseRef   struct {
		Name githubv4.String `graphql:"name"`
	} `graphql:"baseRef"`
	HeadRefOid githubv4.String `graphql:"headRefOid"`
}

func (pr pullRequestFields) toFindChangeItem(state forge.ChangeState) *forge.FindChangeItem {
	return &forge.FindChangeItem{
		ID: &PR{
			Number: int(pr.Number),
			GQLID:  pr.ID,
		},
		URL:      pr.URL.String(),
		State:    state,
		Subject:  string(pr.Title),
		HeadHash: git.Hash(pr.HeadRefOid),
		BaseName: string(pr.BaseRef.Name),
		Draft:    bool(pr.IsDraft),
	}
}

// forgeChangeState maps GitHub's GraphQL pull request state to
// revup's forge-agnostic ChangeState.
func forgeChangeState(s githubv4.PullRequestState) forge.ChangeState {
	switch s {
	case githubv4.PullRequestStateOpen:
		return forge.ChangeOpen
	case githubv4.PullRequestStateMerged:
		return forge.ChangeMerged
	case githubv4.PullRequestStateClosed:
		return forge.ChangeClosed
	default:
		return forge.ChangeOpen
	}
}
