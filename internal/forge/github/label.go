package github

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/shurcooL/githubv4"
)

// addLabelsToPullRequest attaches the given labels to a pull request.
// Labels that don't exist in the repository are skipped with a
// warning; this never creates labels on the forge.
func (r *Repository) addLabelsToPullRequest(ctx context.Context, labels []string, prGraphQLID githubv4.ID) error {
	if len(labels) == 0 {
		return nil
	}
	labelIDs, err := r.resolveLabels(ctx, labels)
	if err != nil {
		return fmt.Errorf("resolve label IDs: %w", err)
	}
	if len(labelIDs) == 0 {
		return nil
	}

	var addLabelsM struct {
		AddLabelsToLabelable struct {
			Clientmutationid githubv4.String `graphql:"clientMutationId"`
		} `graphql:"addLabelsToLabelable(input: $input)"`
	}

	labelsInput := githubv4.AddLabelsToLabelableInput{
		LabelableID: prGraphQLID,
		LabelIDs:    labelIDs,
	}

	if err := r.client.Mutate(ctx, &addLabelsM, labelsInput, nil); err != nil {
		return fmt.Errorf("add labels to labelable: %w", err)
	}
	return nil
}

// resolveLabels looks up the GraphQL IDs of labelNames, in parallel,
// bounded by GOMAXPROCS. A label that does not exist in the repository
// is logged as a warning and dropped rather than being created: topic
// labels are expected to be pre-declared by repository maintainers.
func (r *Repository) resolveLabels(ctx context.Context, labelNames []string) ([]githubv4.ID, error) {
	idxc := make(chan int)
	var (
		wg sync.WaitGroup

		mu      sync.Mutex // guards errs and ids
		errs    []error
		ids     = make([]githubv4.ID, len(labelNames))
		missing = make([]string, 0)
	)

	for range runtime.GOMAXPROCS(0) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxc {
				name := labelNames[idx]

				id, err := r.labelID(ctx, name)
				if err != nil {
					if errors.Is(err, errLabelDoesNotExist) {
						mu.Lock()
						missing = append(missing, name)
						mu.Unlock()
						continue
					}
					mu.Lock()
					errs = append(errs, fmt.Errorf("resolve label %q: %w", name, err))
					mu.Unlock()
					continue
				}

				ids[idx] = id
			}
		}()
	}

	for idx := range labelNames {
		idxc <- idx
	}
	close(idxc)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	for _, name := range missing {
		r.log.Warnf("Label %q does not exist on this repository, skipping", name)
	}

	out := make([]githubv4.ID, 0, len(ids))
	for _, id := range ids {
		if id != nil && id != "" {
			out = append(out, id)
		}
	}
	return out, nil
}

var errLabelDoesNotExist = errors.New("label not found")

func (r *Repository) labelID(ctx context.Context, name string) (githubv4.ID, error) {
	var query struct {
		Repository struct {
			Label struct {
				ID githubv4.ID `graphql:"id"`
			} `graphql:"label(name: $label)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]any{
		"owner": githubv4.String(r.owner),
		"name":  githubv4.String(r.repo),
		"label": githubv4.String(name),
	}
	if err := r.client.Query(ctx, &query, variables); err != nil {
		return "", fmt.Errorf("query labels: %w", err)
	}

	if query.Repository.Label.ID == "" {
		return "", errLabelDoesNotExist
	}

	return query.Repository.Label.ID, nil
}
