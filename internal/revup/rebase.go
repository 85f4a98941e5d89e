package revup

import (
	"context"
	"fmt"

	"go.abhg.dev/gs/internal/git"
)

// PatchEntry is one commit's contribution to a patch set: its subject
// and the canonical blob-level diff against its own parent.
type PatchEntry struct {
	Subject string
	Changes []git.RawTreeChange
}

// patchSetEqual reports whether a and b describe the same patch set: same
// length, same subjects in order, and the same blob-level changes per
// entry (path, status, and resulting blob hash; source blob hash is
// ignored so that a changed base underneath an unmodified commit still
// counts as the same patch).
func patchSetEqual(a, b []PatchEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Subject != b[i].Subject {
			return false
		}
		if !changesEqual(a[i].Changes, b[i].Changes) {
			return false
		}
	}
	return true
}

func changesEqual(a, b []git.RawTreeChange) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Path != b[i].Path || a[i].Status != b[i].Status || a[i].DstHash != b[i].DstHash {
			return false
		}
	}
	return true
}

// computePatchSet walks the commits reachable from head but not from
// parent (oldest first) and records each one's subject and tree-diff
// against its own immediate parent.
func computePatchSet(ctx context.Context, repo *git.Repository, head, parent string) ([]PatchEntry, error) {
	entries, err := repo.ListCommitRange(ctx, head, parent)
	if err != nil {
		return nil, fmt.Errorf("walk %s..%s: %w", parent, head, err)
	}

	out := make([]PatchEntry, 0, len(entries))
	for _, e := range entries {
		parentTree := emptyTreeHash
		if len(e.Parents) > 0 {
			t, err := repo.PeelToTree(ctx, string(e.Parents[0]))
			if err != nil {
				return nil, fmt.Errorf("resolve %s's parent tree: %w", e.Hash.Short(), err)
			}
			parentTree = t
		}

		changes, err := repo.RawDiffTree(ctx, string(parentTree), string(e.Tree))
		if err != nil {
			return nil, fmt.Errorf("diff %s: %w", e.Hash.Short(), err)
		}

		out = append(out, PatchEntry{Subject: e.Message.Subject, Changes: changes})
	}
	return out, nil
}

// RemoteState is what's currently known about a TopicBranch's remote
// ref: its head and the parent it was last synthesized against,
// recovered from the last patchsets comment (or, absent that, the
// pull request's current base).
type RemoteState struct {
	// Exists is false when the branch has no remote ref yet.
	Exists bool

	Head   git.Hash
	Parent string
}

// Classify compares a TopicBranch's synthesized head against its
// remote state and returns the plan state: new, unchanged,
// rebased-only, or changed. rebased-only requires the two patch sets
// (ordered (subject, tree-diff) pairs relative to each side's own
// parent) to be identical.
func Classify(ctx context.Context, repo *git.Repository, tb *TopicBranch, remote RemoteState) (PlanState, error) {
	if !remote.Exists {
		return StateNew, nil
	}
	if remote.Head == tb.Head {
		return StateUnchanged, nil
	}

	localPatch, err := computePatchSet(ctx, repo, string(tb.Head), tb.ParentRef)
	if err != nil {
		return 0, fmt.Errorf("branch %q: local patch set: %w", tb.Name, err)
	}

	remoteParent := remote.Parent
	if remoteParent == "" {
		remoteParent = tb.ParentRef
	}
	remotePatch, err := computePatchSet(ctx, repo, string(remote.Head), remoteParent)
	if err != nil {
		return 0, fmt.Errorf("branch %q: remote patch set: %w", tb.Name, err)
	}

	if patchSetEqual(localPatch, remotePatch) {
		return StateRebasedOnly, nil
	}
	return StateChanged, nil
}
