package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/shurcooL/githubv4"
)

func (r *Repository) addAssigneesToPullRequest(ctx context.Context, assignees []string, prGraphQLID githubv4.ID) error {
	if len(assignees) == 0 {
		return nil
	}

	assigneeIDs := r.assigneeIDs(ctx, assignees)
	if len(assigneeIDs) == 0 {
		return nil
	}

	var m struct {
		AddAssigneesToAssignable struct {
			ClientMutationID githubv4.String `graphql:"clientMutationId"`
		} `graphql:"addAssigneesToAssignable(input: $input)"`
	}

	input := githubv4.AddAssigneesToAssignableInput{
		AssignableID: prGraphQLID,
		AssigneeIDs:  assigneeIDs,
	}

	if err := r.client.Mutate(ctx, &m, input, nil); err != nil {
		return fmt.Errorf("add assignees to assignable: %w", err)
	}

	return nil
}

// assigneeIDs resolves assignee directives to GraphQL IDs using the
// same shortest-exact-prefix matching as reviewer users (resolveUserPrefix):
// a directive with no candidate, or more than one tied for shortest, is
// logged as a warning and skipped rather than failing the whole PR.
func (r *Repository) assigneeIDs(ctx context.Context, assignees []string) []githubv4.ID {
	ids := make([]githubv4.ID, 0, len(assignees))
	seen := make(map[string]struct{}, len(assignees))
	for _, assignee := range assignees {
		assignee = strings.TrimSpace(assignee)
		if assignee == "" {
			continue
		}
		if _, ok := seen[assignee]; ok {
			continue
		}
		seen[assignee] = struct{}{}

		id, login, err := r.resolveUserPrefix(ctx, assignee)
		if err != nil {
			r.log.Warnf("Assignee %q could not be resolved, skipping: %v", assignee, err)
			continue
		}
		ids = append(ids, id)
		r.log.Debug("Resolved assignee", "prefix", assignee, "login", login, "id", id)
	}
	return ids
}
