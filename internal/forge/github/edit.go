package github

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"
	"go.abhg.dev/gs/internal/forge"
)

// EditChange updates an existing pull request's base branch, title,
// body, draft status, labels, reviewers, and assignees.
//
// Labels, reviewers, and assignees are additive: EditChange does not
// remove anything that isn't in the given list, since GitHub's API
// offers no atomic "replace" for requested reviewers or assignees.
func (r *Repository) EditChange(ctx context.Context, id forge.ChangeID, opts forge.EditChangeOptions) error {
	pr := mustPR(id)

	gqlID, err := r.graphQLID(ctx, pr)
	if err != nil {
		return fmt.Errorf("resolve pull request ID: %w", err)
	}

	if opts.Base != "" || opts.Subject != "" {
		var m struct {
			UpdatePullRequest struct {
				ClientMutationID githubv4.String `graphql:"clientMutationId"`
			} `graphql:"updatePullRequest(input: $input)"`
		}

		input := githubv4.UpdatePullRequestInput{
			PullRequestID: gqlID,
		}
		if opts.Base != "" {
			input.BaseRefName = githubv4.NewString(githubv4.String(opts.Base))
		}
		if opts.Subject != "" {
			input.Title = githubv4.NewString(githubv4.String(opts.Subject))
			input.Body = githubv4.NewString(githubv4.String(opts.Body))
		}

		if err := r.client.Mutate(ctx, &m, input, nil); err != nil {
			return fmt.Errorf("update pull request: %w", err)
		}
	}

	if opts.Draft != nil {
		if err := r.setDraft(ctx, gqlID, *opts.Draft); err != nil {
			return fmt.Errorf("set draft status: %w", err)
		}
	}

	if err := r.addLabelsToPullRequest(ctx, opts.Labels, gqlID); err != nil {
		return fmt.Errorf("add labels to PR: %w", err)
	}

	if err := r.addReviewersToPullRequest(ctx, opts.Reviewers, gqlID); err != nil {
		return fmt.Errorf("add reviewers to PR: %w", err)
	}

	if err := r.addAssigneesToPullRequest(ctx, opts.Assignees, gqlID); err != nil {
		return fmt.Errorf("add assignees to PR: %w", err)
	}

	return nil
}

func (r *Repository) setDraft(ctx context.Context, gqlID githubv4.ID, draft bool) error {
	if draft {
		var m struct {
			ConvertPullRequestToDraft struct {
				ClientMutationID githubv4.String `graphql:"clientMutationId"`
			} `graphql:"convertPullRequestToDraft(input: $input)"`
		}
		return r.client.Mutate(ctx, &m,
			githubv4.ConvertPullRequestToDraftInput{PullRequestID: gqlID}, nil)
	}

	var m struct {
		MarkPullRequestReadyForReview struct {
			ClientMutationID githubv4.String `graphql:"clientMutationId"`
		} `graphql:"markPullRequestReadyForReview(input: $input)"`
	}
	return r.client.Mutate(ctx, &m,
		githubv4.MarkPullRequestReadyForReviewInput{PullRequestID: gqlID}, nil)
}
