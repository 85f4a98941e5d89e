// Package revup builds the topic dependency graph from a range of
// commits and synthesizes each topic's pushed branch from it.
package revup

import (
	"go.abhg.dev/gs/internal/directive"
	"go.abhg.dev/gs/internal/git"
)

// Commit is a single immutable commit read from the repository, as
// walked by the commit range between a head and its detected base.
type Commit struct {
	Hash      git.Hash
	Tree      git.Hash
	Parents   []git.Hash
	Author    git.Signature
	Committer git.Signature
	Message   git.CommitMessage

	// Directives is the parsed directive set from Message.Body.
	Directives *directive.Set
}

// BranchFormat selects how a TopicBranch's remote branch name is
// derived from its uploader, base, and topic name.
type BranchFormat string

// Recognized branch formats.
const (
	FormatUserBranch BranchFormat = "user+branch"
	FormatUser       BranchFormat = "user"
	FormatBranch     BranchFormat = "branch"
	FormatNone       BranchFormat = "none"
)

// Topic is a named grouping of commits that becomes one or more
// TopicBranches (one per declared base).
type Topic struct {
	Name string

	// Commits preserves source (oldest-first) order within the
	// walked commit range.
	Commits []*Commit

	// Relative is the name of the topic this one is relative to,
	// or empty if this topic is relative to its bases directly.
	Relative string

	// Bases is the set of base branch names this topic targets.
	// Defaults to {detected base} if no Branches directive is set.
	Bases []string

	Reviewers []string
	Assignees []string
	Labels    []string

	// Uploader overrides the default uploader (local part of the
	// user's configured email) for branch naming.
	Uploader string

	BranchFormat BranchFormat

	// RelativeBranch is an ephemeral forge-side branch this topic's
	// single base targets instead of a sibling TopicBranch.
	RelativeBranch string

	UpdatePRBody bool

	// updatePRBodySet tracks whether UpdatePRBody was set by an
	// explicit Update-Pr-Body directive, distinguishing "unset" from
	// "set to false" so groupTopics can detect disagreement.
	updatePRBodySet bool
}

// TopicBranch is one (topic, base) pair: the unit the synthesizer,
// rebase detector, and PR reconciler all operate on.
type TopicBranch struct {
	Topic *Topic
	Base  string

	// Name is the computed remote branch name.
	Name string

	// ParentRef is the ref this branch is synthesized on top of:
	// either Base's tip, or another TopicBranch's synthesized head.
	ParentRef string

	// ParentBranch is set when ParentRef names another TopicBranch
	// in this upload rather than a plain base branch tip.
	ParentBranch *TopicBranch

	// Head is filled in by the synthesizer.
	Head git.Hash

	// Empty is set by the synthesizer when every member commit turned
	// out empty relative to the running parent tree: the whole branch
	// carries no changes and is dropped by PruneEmpty.
	Empty bool

	// LastPushed is the previously pushed head for this branch's
	// remote ref, if any (git.ZeroHash if none).
	LastPushed git.Hash
}

// Key identifies a TopicBranch uniquely within an upload.
type Key struct {
	Topic string
	Base  string
}

func (tb *TopicBranch) Key() Key {
	return Key{Topic: tb.Topic.Name, Base: tb.Base}
}

// BranchName computes the remote branch name for a (uploader, base,
// topic, format) tuple:
//
//	user+branch: revup/<uploader>/<base>/<topic>
//	user:        revup/<uploader>/<topic>
//	branch:      revup/<base>/<topic>
//	none:        revup/<topic>
func BranchName(format BranchFormat, uploader, base, topic string) string {
	switch format {
	case FormatUser:
		return "revup/" + uploader + "/" + topic
	case FormatBranch:
		return "revup/" + base + "/" + topic
	case FormatNone:
		return "revup/" + topic
	case FormatUserBranch:
		fallthrough
	default:
		return "revup/" + uploader + "/" + base + "/" + topic
	}
}

// PlanState classifies a TopicBranch relative to remote state.
type PlanState int

// Recognized plan states.
const (
	StateNew PlanState = iota + 1
	StateUnchanged
	StateRebasedOnly
	StateChanged
)

func (s PlanState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateUnchanged:
		return "unchanged"
	case StateRebasedOnly:
		return "rebased-only"
	case StateChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// PlanItem is one TopicBranch's classification and computed head, as
// produced by planning and consumed by the reconciler.
type PlanItem struct {
	Branch *TopicBranch
	State  PlanState
}

// UploadPlan is the output of planning: one PlanItem per TopicBranch,
// in topological order (a branch always appears after its parent
// branch, if any).
type UploadPlan struct {
	Items []*PlanItem
}
