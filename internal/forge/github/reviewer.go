package github

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shurcooL/githubv4"
	"go.abhg.dev/gs/internal/must"
)

// addReviewersToPullRequest adds reviewers to a pull request.
func (r *Repository) addReviewersToPullRequest(
	ctx context.Context,
	reviewers []string,
	prGraphQLID githubv4.ID,
) error {
	if len(reviewers) == 0 {
		return nil
	}

	userIDs, teamIDs, err := r.reviewersIDs(ctx, reviewers)
	if err != nil {
		return fmt.Errorf("resolve reviewer IDs: %w", err)
	}

	var m struct {
		RequestReviews struct {
			ClientMutationID githubv4.String `graphql:"clientMutationId"`
		} `graphql:"requestReviews(input: $input)"`
	}

	input := githubv4.RequestReviewsInput{
		PullRequestID: prGraphQLID,
		Union:         githubv4.NewBoolean(true),
	}
	if len(userIDs) > 0 {
		input.UserIDs = &userIDs
	}
	if len(teamIDs) > 0 {
		input.TeamIDs = &teamIDs
	}

	if err := r.client.Mutate(ctx, &m, input, nil); err != nil {
		return fmt.Errorf("request reviews: %w", err)
	}

	return nil
}

// reviewersIDs resolves reviewer directives to GraphQL IDs.
//
// Each directive is matched against mentionable logins (for users) or
// team slugs (for teams) in the repository's organization by shortest
// exact prefix: the candidate whose login/slug starts with the
// directive and is shortest wins, so "alice" matches "alice" over
// "alice-bot", and "team/rev" matches "team/review" when it is the
// only team whose slug starts with "rev". A directive with no
// candidate, or with more than one candidate tied for shortest, is
// logged as a warning and skipped rather than failing the whole PR:
// reviewer typos shouldn't block an upload.
func (r *Repository) reviewersIDs(
	ctx context.Context,
	reviewers []string,
) (userIDs []githubv4.ID, teamIDs []githubv4.ID, err error) {
	for _, reviewer := range reviewers {
		reviewer = strings.TrimSpace(reviewer)
		if reviewer == "" {
			continue
		}

		rType, name := parseReviewer(reviewer)
		switch rType {
		case reviewerTypeUser:
			id, login, err := r.resolveUserPrefix(ctx, name)
			if err != nil {
				r.log.Warnf("Reviewer %q could not be resolved, skipping: %v", name, err)
				continue
			}
			userIDs = append(userIDs, id)
			r.log.Debug("Resolved user reviewer", "prefix", name, "login", login, "id", id)

		case reviewerTypeTeam:
			org, teamPrefix, _ := strings.Cut(name, "/")
			id, slug, err := r.resolveTeamPrefix(ctx, org, teamPrefix)
			if err != nil {
				r.log.Warnf("Reviewer team %q could not be resolved, skipping: %v", name, err)
				continue
			}
			teamIDs = append(teamIDs, id)
			r.log.Debug("Resolved team reviewer", "org", org, "prefix", teamPrefix, "slug", slug, "id", id)

		default:
			must.Failf("unknown reviewer type %#v for %q", rType, reviewer)
		}
	}

	return userIDs, teamIDs, nil
}

type reviewerType int

const (
	reviewerTypeUser reviewerType = iota
	reviewerTypeTeam
)

// parseReviewer determines if a reviewer is a user or team.
// Format: "username" for users, "org/teamname" for teams.
func parseReviewer(reviewer string) (reviewerType, string) {
	if strings.Contains(reviewer, "/") {
		return reviewerTypeTeam, reviewer
	}
	return reviewerTypeUser, reviewer
}

// resolveUserPrefix finds the mentionable user in the repository whose
// login starts with prefix and is shortest among such matches.
func (r *Repository) resolveUserPrefix(ctx context.Context, prefix string) (githubv4.ID, string, error) {
	var query struct {
		Repository struct {
			MentionableUsers struct {
				Nodes []struct {
					ID    githubv4.ID     `graphql:"id"`
					Login githubv4.String `graphql:"login"`
				}
			} `graphql:"mentionableUsers(query: $query, first: 25)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]any{
		"owner": githubv4.String(r.owner),
		"name":  githubv4.String(r.repo),
		"query": githubv4.String(prefix),
	}
	if err := r.client.Query(ctx, &query, variables); err != nil {
		return "", "", fmt.Errorf("query mentionable users: %w", err)
	}

	type candidate struct {
		id    githubv4.ID
		login string
	}
	var matches []candidate
	for _, n := range query.Repository.MentionableUsers.Nodes {
		login := string(n.Login)
		if strings.HasPrefix(login, prefix) {
			matches = append(matches, candidate{id: n.ID, login: login})
		}
	}

	return shortestUnique(matches, prefix,
		func(c candidate) string { return c.login },
		func(c candidate) githubv4.ID { return c.id },
	)
}

// resolveTeamPrefix finds the team in org whose slug starts with
// prefix and is shortest among such matches.
func (r *Repository) resolveTeamPrefix(ctx context.Context, org, prefix string) (githubv4.ID, string, error) {
	var query struct {
		Organization struct {
			Teams struct {
				Nodes []struct {
					ID   githubv4.ID     `graphql:"id"`
					Slug githubv4.String `graphql:"slug"`
				}
			} `graphql:"teams(query: $query, first: 25)"`
		} `graphql:"organization(login: $org)"`
	}

	variables := map[string]any{
		"org":   githubv4.String(org),
		"query": githubv4.String(prefix),
	}
	if err := r.client.Query(ctx, &query, variables); err != nil {
		return "", "", fmt.Errorf("query teams: %w", err)
	}

	type candidate struct {
		id   githubv4.ID
		slug string
	}
	var matches []candidate
	for _, n := range query.Organization.Teams.Nodes {
		slug := string(n.Slug)
		if strings.HasPrefix(slug, prefix) {
			matches = append(matches, candidate{id: n.ID, slug: slug})
		}
	}

	return shortestUnique(matches, prefix,
		func(c candidate) string { return c.slug },
		func(c candidate) githubv4.ID { return c.id },
	)
}

// shortestUnique picks the single shortest-name candidate in matches.
// It errors if matches is empty, or if two or more candidates tie for
// the shortest name.
func shortestUnique[C any](
	matches []C,
	prefix string,
	name func(C) string,
	id func(C) githubv4.ID,
) (githubv4.ID, string, error) {
	if len(matches) == 0 {
		return "", "", fmt.Errorf("no match for prefix %q", prefix)
	}

	sort.Slice(matches, func(i, j int) bool {
		return len(name(matches[i])) < len(name(matches[j]))
	})

	if len(matches) > 1 && len(name(matches[0])) == len(name(matches[1])) {
		var tied []string
		shortest := len(name(matches[0]))
		for _, m := range matches {
			if len(name(m)) == shortest {
				tied = append(tied, name(m))
			}
		}
		return "", "", fmt.Errorf("ambiguous prefix %q matches: %s", prefix, strings.Join(tied, ", "))
	}

	best := matches[0]
	return id(best), name(best), nil
}
