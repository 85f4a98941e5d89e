package revup

import (
	"context"
	"fmt"
	"time"

	"go.abhg.dev/gs/internal/git"
)

// emptyTreeHash is the well-known hash of an empty Git tree, used as
// the implicit parent tree of a root commit (one with no parents).
const emptyTreeHash git.Hash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// ConflictError reports a three-way merge conflict hit while
// synthesizing a TopicBranch. The caller must abort the entire upload:
// no ref is pushed or updated once this is returned.
type ConflictError struct {
	Branch string
	Commit git.Hash
	Err    error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("branch %q: commit %s: %v", e.Branch, e.Commit.Short(), e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// SynthesizeOptions configures the Branch Synthesizer.
type SynthesizeOptions struct {
	// Committer is the local identity recorded as committer on every
	// synthesized commit, with Time set once for the whole run so
	// every commit synthesized in that run shares it.
	Committer git.Signature

	// TrimTags strips recognized directive lines from each
	// synthesized commit's message.
	TrimTags bool
}

// Synthesize computes the synthesized head for every TopicBranch in g,
// in topological order, cherry-picking each topic's member commits
// onto its resolved parent via transient three-way merges.
//
// On the first conflict, synthesis stops and returns a *ConflictError;
// no ref is touched by this function regardless (it only computes
// object ids), but the caller must treat a ConflictError as grounds to
// abort the whole upload rather than push any of the heads already
// computed.
func Synthesize(ctx context.Context, repo *git.Repository, g *Graph, opts SynthesizeOptions) error {
	for _, tb := range g.TopoOrder() {
		head, empty, err := synthesizeBranch(ctx, repo, tb, opts)
		if err != nil {
			return err
		}
		tb.Head = head
		tb.Empty = empty
	}
	return nil
}

func synthesizeBranch(ctx context.Context, repo *git.Repository, tb *TopicBranch, opts SynthesizeOptions) (_ git.Hash, empty bool, _ error) {
	parentRef := tb.ParentRef
	if tb.ParentBranch != nil {
		if tb.ParentBranch.Head.IsZero() {
			return "", false, fmt.Errorf("branch %q: parent branch %q has no synthesized head yet",
				tb.Name, tb.ParentBranch.Name)
		}
		parentRef = string(tb.ParentBranch.Head)
	}

	parentHead, err := repo.PeelToCommit(ctx, parentRef)
	if err != nil {
		return "", false, fmt.Errorf("branch %q: resolve parent %q: %w", tb.Name, parentRef, err)
	}
	parentTree, err := repo.PeelToTree(ctx, parentRef)
	if err != nil {
		return "", false, fmt.Errorf("branch %q: resolve parent tree %q: %w", tb.Name, parentRef, err)
	}

	currentTree := parentTree
	currentHead := parentHead
	empty = true
	members := tb.Topic.Commits
	for _, c := range members {
		base := emptyTreeHash
		if len(c.Parents) > 0 {
			t, err := repo.PeelToTree(ctx, string(c.Parents[0]))
			if err != nil {
				return "", false, fmt.Errorf("branch %q: resolve %s's parent tree: %w", tb.Name, c.Hash.Short(), err)
			}
			base = t
		}

		newTree, err := repo.MergeTree(ctx, git.MergeTreeRequest{
			Branch1:   string(currentTree),
			Branch2:   string(c.Tree),
			MergeBase: string(base),
		})
		if err != nil {
			return "", false, &ConflictError{Branch: tb.Name, Commit: c.Hash, Err: err}
		}
		if newTree != currentTree {
			empty = false
		}

		message := c.Message.Subject
		if c.Message.Body != "" {
			message += "\n\n" + bodyFor(c, opts.TrimTags)
		}

		newHead, err := repo.CommitTree(ctx, git.CommitTreeRequest{
			Tree:      newTree,
			Message:   message,
			Parents:   []git.Hash{currentHead},
			Author:    &c.Author,
			Committer: &opts.Committer,
		})
		if err != nil {
			return "", false, fmt.Errorf("branch %q: commit tree for %s: %w", tb.Name, c.Hash.Short(), err)
		}

		currentTree, currentHead = newTree, newHead
	}

	return currentHead, empty, nil
}

func bodyFor(c *Commit, trim bool) string {
	if trim && c.Directives != nil {
		return c.Directives.TrimmedBody
	}
	return c.Message.Body
}

// StampCommitter returns sig with Time set to now, for the caller to
// build a SynthesizeOptions.Committer once per invocation so every
// commit synthesized during that run shares the same timestamp.
func StampCommitter(sig git.Signature, now time.Time) git.Signature {
	sig.Time = now
	return sig
}
