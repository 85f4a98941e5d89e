package revup

import (
	"context"
	"fmt"

	"go.abhg.dev/gs/internal/git"
)

// BaseBranchDetectorOptions configures DetectBaseBranch.
type BaseBranchDetectorOptions struct {
	// Remote is the remote whose tracking refs are searched for
	// release-branch candidates.
	Remote string

	// Main is the configured main branch name. It is always a
	// candidate, and wins ties against release branches.
	Main string

	// ReleaseGlobs are ref-glob patterns (e.g. "release/*") expanded
	// against remote-tracking refs on Remote to find further
	// candidate base branches.
	ReleaseGlobs []string
}

// candidate is a base branch and its resolved tip.
type candidate struct {
	name string
	tip  string
}

// DetectBaseBranch selects the base branch whose tip is the nearest
// ancestor of head, by commit count. Ties are broken first by
// preferring opts.Main, then lexicographically by branch name.
func DetectBaseBranch(ctx context.Context, repo *git.Repository, head string, opts BaseBranchDetectorOptions) (string, error) {
	candidates, err := candidates(ctx, repo, opts)
	if err != nil {
		return "", err
	}

	headHash, err := repo.PeelToCommit(ctx, head)
	if err != nil {
		return "", fmt.Errorf("resolve head %q: %w", head, err)
	}

	type scored struct {
		candidate
		distance int
	}
	var best *scored

	for _, c := range candidates {
		tipHash, err := repo.PeelToCommit(ctx, c.tip)
		if err != nil {
			continue // unresolvable ref, skip
		}
		if !repo.IsAncestor(ctx, tipHash, headHash) {
			continue
		}

		entries, err := repo.ListCommitRange(ctx, head, c.tip)
		if err != nil {
			return "", fmt.Errorf("distance from %q to %q: %w", c.name, head, err)
		}
		dist := len(entries)

		switch {
		case best == nil:
			best = &scored{candidate: c, distance: dist}
		case dist < best.distance:
			best = &scored{candidate: c, distance: dist}
		case dist == best.distance:
			best = &scored{candidate: tieBreak(best.candidate, c, opts.Main), distance: dist}
		}
	}

	if best == nil {
		return "", fmt.Errorf("no base branch found for %q", head)
	}
	return best.name, nil
}

func tieBreak(a, b candidate, main string) candidate {
	if a.name == main {
		return a
	}
	if b.name == main {
		return b
	}
	if a.name <= b.name {
		return a
	}
	return b
}

func candidates(ctx context.Context, repo *git.Repository, opts BaseBranchDetectorOptions) ([]candidate, error) {
	var out []candidate
	if opts.Main != "" {
		out = append(out, candidate{name: opts.Main, tip: remoteRef(opts.Remote, opts.Main)})
	}

	if len(opts.ReleaseGlobs) == 0 {
		return out, nil
	}

	patterns := make([]string, len(opts.ReleaseGlobs))
	for i, g := range opts.ReleaseGlobs {
		patterns[i] = "refs/remotes/" + opts.Remote + "/" + g
	}
	refs, err := repo.RefGlob(ctx, patterns...)
	if err != nil {
		return nil, fmt.Errorf("expand release globs: %w", err)
	}

	prefix := "refs/remotes/" + opts.Remote + "/"
	seen := make(map[string]bool, len(out))
	for _, c := range out {
		seen[c.name] = true
	}
	for _, ref := range refs {
		name := trimPrefix(ref.Name, prefix)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, candidate{name: name, tip: ref.Name})
	}

	return out, nil
}

func remoteRef(remote, branch string) string {
	return "refs/remotes/" + remote + "/" + branch
}

func trimPrefix(s, prefix string) string {
	if len(s) <= len(prefix) || s[:len(prefix)] != prefix {
		return ""
	}
	return s[len(prefix):]
}
