// Package reconcile computes and applies the minimal set of git pushes
// and forge mutations needed to bring a topic's pull requests in line
// with a freshly planned [revup.UploadPlan].
//
// The reconciler is stateless: it never persists anything locally
// beyond the current process. Every run rediscovers existing pull
// requests from the forge by branch name, rather than from a local
// cache. Labels, reviewers, and assignees are only ever added: each
// patchsets row records the set the topic asked for, but that record
// is not read back, and nothing is removed from a pull request.
package reconcile

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.abhg.dev/gs/internal/forge"
	"go.abhg.dev/gs/internal/git"
	"go.abhg.dev/gs/internal/render"
	"go.abhg.dev/gs/internal/revup"
)

// Action summarizes what, if anything, the reconciler did for a branch.
type Action int

// Recognized actions.
const (
	// ActionNone means the branch needed no changes.
	ActionNone Action = iota + 1

	// ActionCreated means a new pull request was pushed and opened.
	ActionCreated

	// ActionUpdated means an existing pull request was pushed and/or
	// had its metadata or comments reconciled.
	ActionUpdated

	// ActionDeferred means the branch's relative ancestor has not
	// been submitted yet, so this branch's PR was not created.
	ActionDeferred
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionCreated:
		return "created"
	case ActionUpdated:
		return "updated"
	case ActionDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// BranchResult is the outcome of reconciling a single TopicBranch.
type BranchResult struct {
	Branch *revup.TopicBranch
	Action Action

	// Change is the forge change backing Branch, if one exists or was
	// just created. Nil when Action is ActionDeferred.
	Change *forge.FindChangeItem

	// Err is set when reconciling this branch failed. A per-branch
	// failure never aborts reconciliation of the rest of the plan.
	Err error
}

// Options configures a Reconcile run.
type Options struct {
	// Remote is the git remote to push to. Defaults to "origin".
	Remote string

	// Rebase forces a push even for branches classified as
	// unchanged or rebased-only.
	Rebase bool

	// UpdatePRBody allows title/body updates on an existing PR, per
	// the --update-pr-body flag. A Topic's own UpdatePRBody (its
	// Update-Pr-Body directive) allows them too: either one is enough.
	UpdatePRBody bool

	// Clock returns the current time, overridable in tests. Defaults
	// to time.Now.
	Clock func() time.Time
}

func (o Options) remote() string {
	if o.Remote == "" {
		return "origin"
	}
	return o.Remote
}

func (o Options) clock() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

var (
	_reviewGraphMarker = regexp.MustCompile(regexp.QuoteMeta(render.ReviewGraphMarker))
	_patchsetsMarker   = regexp.MustCompile(regexp.QuoteMeta(render.PatchsetsMarker))
)

// Reconcile walks plan.Items, already in topological order (a branch
// never precedes its own parent branch), pushing and submitting or
// updating a pull request for each one.
//
// A branch whose ParentBranch was deferred (ActionDeferred, or failed)
// is itself deferred: a branch can't be proposed against a base that
// doesn't exist remotely yet. This also covers the cross-fork case,
// since this package has no multi-fork tracking of its own — every
// TopicBranch pushes to the same configured remote (see
// [forge.ErrUnsubmittedBase]).
func Reconcile(ctx context.Context, repo *git.Repository, fr forge.Repository, g *revup.Graph, plan *revup.UploadPlan, opts Options) ([]*BranchResult, error) {
	results := make([]*BranchResult, 0, len(plan.Items))
	waiting := make(map[revup.Key]bool)
	changes := make(map[revup.Key]*forge.FindChangeItem, len(plan.Items))
	lookup := func(k revup.Key) (*forge.FindChangeItem, bool) {
		c, ok := changes[k]
		return c, ok
	}

	for _, item := range plan.Items {
		tb := item.Branch

		if tb.ParentBranch != nil && waiting[tb.ParentBranch.Key()] {
			waiting[tb.Key()] = true
			results = append(results, &BranchResult{Branch: tb, Action: ActionDeferred})
			continue
		}

		res, err := reconcileBranch(ctx, repo, fr, g, item, opts, lookup)
		if err != nil {
			waiting[tb.Key()] = true
			results = append(results, &BranchResult{Branch: tb, Action: ActionDeferred, Err: err})
			continue
		}
		if res.Change != nil {
			changes[tb.Key()] = res.Change
		}
		results = append(results, res)
	}

	return results, nil
}

func reconcileBranch(
	ctx context.Context,
	repo *git.Repository,
	fr forge.Repository,
	g *revup.Graph,
	item *revup.PlanItem,
	opts Options,
	lookup render.ChangeLookup,
) (*BranchResult, error) {
	tb := item.Branch
	topic := tb.Topic

	if err := pushBranch(ctx, repo, tb, item.State, opts); err != nil {
		return nil, fmt.Errorf("push %q: %w", tb.Name, err)
	}

	existing, err := findChange(ctx, fr, tb)
	if err != nil {
		return nil, fmt.Errorf("find change for %q: %w", tb.Name, err)
	}

	base := baseRefName(tb)

	var result *BranchResult
	switch {
	case existing == nil:
		result, err = createChange(ctx, fr, tb, topic, base)
	default:
		result, err = updateChange(ctx, fr, tb, topic, base, existing, item.State, opts)
	}
	if err != nil {
		return nil, err
	}

	if err := updateComments(ctx, repo, fr, g, result.Change, tb, item.State, opts, lookup); err != nil {
		return nil, fmt.Errorf("update comments for %q: %w", tb.Name, err)
	}

	return result, nil
}

// baseRefName is the remote ref this branch's PR is proposed against:
// another TopicBranch's own remote name when relative, or the topic's
// declared base otherwise.
func baseRefName(tb *revup.TopicBranch) string {
	if tb.ParentBranch != nil {
		return tb.ParentBranch.Name
	}
	return tb.Base
}

func pushBranch(ctx context.Context, repo *git.Repository, tb *revup.TopicBranch, state revup.PlanState, opts Options) error {
	refspec := fmt.Sprintf("%s:refs/heads/%s", tb.Head, tb.Name)

	switch state {
	case revup.StateNew:
		return repo.Push(ctx, git.PushOptions{
			Remote:  opts.remote(),
			Refspec: refspec,
		})
	case revup.StateChanged:
		return repo.Push(ctx, git.PushOptions{
			Remote:         opts.remote(),
			Refspec:        refspec,
			ForceWithLease: fmt.Sprintf("refs/heads/%s:%s", tb.Name, tb.LastPushed),
		})
	case revup.StateUnchanged, revup.StateRebasedOnly:
		if !opts.Rebase {
			return nil
		}
		return repo.Push(ctx, git.PushOptions{
			Remote:         opts.remote(),
			Refspec:        refspec,
			ForceWithLease: fmt.Sprintf("refs/heads/%s:%s", tb.Name, tb.LastPushed),
		})
	default:
		return fmt.Errorf("unrecognized plan state %v", state)
	}
}

func findChange(ctx context.Context, fr forge.Repository, tb *revup.TopicBranch) (*forge.FindChangeItem, error) {
	items, err := fr.FindChangesByBranch(ctx, tb.Name, forge.FindChangesOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

func createChange(ctx context.Context, fr forge.Repository, tb *revup.TopicBranch, topic *revup.Topic, base string) (*BranchResult, error) {
	subject, body := changeTitleAndBody(tb)

	res, err := fr.SubmitChange(ctx, forge.SubmitChangeRequest{
		Subject:   subject,
		Body:      body,
		Base:      base,
		Head:      tb.Name,
		Draft:     hasLabel(topic.Labels, "draft"),
		Labels:    withoutLabel(topic.Labels, "draft"),
		Reviewers: topic.Reviewers,
		Assignees: topic.Assignees,
	})
	if err != nil {
		return nil, fmt.Errorf("create change for %q: %w", tb.Name, err)
	}

	return &BranchResult{
		Branch: tb,
		Action: ActionCreated,
		Change: &forge.FindChangeItem{
			ID:       res.ID,
			URL:      res.URL,
			State:    forge.ChangeOpen,
			Subject:  subject,
			HeadHash: tb.Head,
			BaseName: base,
			Draft:    hasLabel(topic.Labels, "draft"),
		},
	}, nil
}

func updateChange(
	ctx context.Context,
	fr forge.Repository,
	tb *revup.TopicBranch,
	topic *revup.Topic,
	base string,
	existing *forge.FindChangeItem,
	state revup.PlanState,
	opts Options,
) (*BranchResult, error) {
	editOpts := forge.EditChangeOptions{}

	if existing.BaseName != base {
		editOpts.Base = base
	}

	wantDraft := hasLabel(topic.Labels, "draft")
	if wantDraft != existing.Draft {
		editOpts.Draft = &wantDraft
	}

	editOpts.Labels = withoutLabel(topic.Labels, "draft")
	editOpts.Reviewers = topic.Reviewers
	editOpts.Assignees = topic.Assignees

	updateBody := opts.UpdatePRBody || topic.UpdatePRBody
	titleChanged := false
	if updateBody {
		subject, body := changeTitleAndBody(tb)
		if subject != existing.Subject {
			editOpts.Subject = subject
			editOpts.Body = body
			titleChanged = true
		}
	}

	if err := fr.EditChange(ctx, existing.ID, editOpts); err != nil {
		return nil, fmt.Errorf("edit change for %q: %w", tb.Name, err)
	}

	action := ActionNone
	if state == revup.StateNew || state == revup.StateChanged || editOpts.Base != "" || editOpts.Draft != nil || titleChanged {
		action = ActionUpdated
	}

	existing.BaseName = base
	existing.HeadHash = tb.Head
	if editOpts.Draft != nil {
		existing.Draft = *editOpts.Draft
	}
	if titleChanged {
		existing.Subject = editOpts.Subject
	}

	return &BranchResult{Branch: tb, Action: action, Change: existing}, nil
}

// changeTitleAndBody derives a PR's title and body from a topic's
// first commit with a non-empty subject.
func changeTitleAndBody(tb *revup.TopicBranch) (subject, body string) {
	for _, c := range tb.Topic.Commits {
		if c.Message.Subject != "" {
			return c.Message.Subject, c.Message.Body
		}
	}
	return tb.Name, ""
}

func hasLabel(labels []string, name string) bool {
	for _, l := range labels {
		if l == name {
			return true
		}
	}
	return false
}

func withoutLabel(labels []string, name string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != name {
			out = append(out, l)
		}
	}
	return out
}

func updateComments(
	ctx context.Context,
	repo *git.Repository,
	fr forge.Repository,
	g *revup.Graph,
	change *forge.FindChangeItem,
	tb *revup.TopicBranch,
	state revup.PlanState,
	opts Options,
	lookup render.ChangeLookup,
) error {
	if err := updateMarkedComment(ctx, fr, change.ID, _reviewGraphMarker, render.ReviewGraph(g, tb, lookup)); err != nil {
		return fmt.Errorf("review graph: %w", err)
	}

	// A patchsets row records a push, so a branch that was not pushed
	// this run (see pushBranch) gets no new row.
	if (state == revup.StateUnchanged || state == revup.StateRebasedOnly) && !opts.Rebase {
		return nil
	}

	baseOID, err := repo.PeelToCommit(ctx, tb.ParentRef)
	if err != nil {
		return fmt.Errorf("resolve base %q: %w", tb.ParentRef, err)
	}

	row := render.PatchsetRow{
		Pushed:           opts.clock(),
		BaseOID:          baseOID,
		HeadOID:          tb.Head,
		TrackedLabels:    withoutLabel(tb.Topic.Labels, "draft"),
		TrackedReviewers: tb.Topic.Reviewers,
		TrackedAssignees: tb.Topic.Assignees,
	}
	if _, err := appendPatchsetRow(ctx, fr, change, row); err != nil {
		return fmt.Errorf("patchsets: %w", err)
	}

	return nil
}

func updateMarkedComment(ctx context.Context, fr forge.Repository, id forge.ChangeID, marker *regexp.Regexp, body string) error {
	for item, err := range fr.ListChangeComments(ctx, id, &forge.ListChangeCommentsOptions{
		BodyMatchesAll: []*regexp.Regexp{marker},
		CanUpdate:      true,
	}) {
		if err != nil {
			return err
		}
		if item.Body == body {
			return nil
		}
		return fr.UpdateChangeComment(ctx, item.ID, body)
	}

	_, err := fr.PostChangeComment(ctx, id, body)
	return err
}

func appendPatchsetRow(ctx context.Context, fr forge.Repository, change *forge.FindChangeItem, row render.PatchsetRow) ([]render.PatchsetRow, error) {
	var (
		existingID   forge.ChangeCommentID
		existingRows []render.PatchsetRow
	)

	for item, err := range fr.ListChangeComments(ctx, change.ID, &forge.ListChangeCommentsOptions{
		BodyMatchesAll: []*regexp.Regexp{_patchsetsMarker},
		CanUpdate:      true,
	}) {
		if err != nil {
			return nil, err
		}
		existingID = item.ID
		rows, err := render.ParsePatchsets(item.Body)
		if err != nil {
			return nil, err
		}
		existingRows = rows
		break
	}

	if n := len(existingRows); n > 0 {
		prev := existingRows[n-1]
		row.DiffLink = compareURL(change.URL, prev.HeadOID, row.HeadOID, false)
		row.UpstreamDiffLink = compareURL(change.URL, prev.HeadOID, row.HeadOID, true)
	}

	row.Index = len(existingRows) + 1
	rows := append(existingRows, row)
	body := render.RenderPatchsets(rows)

	if existingID != nil {
		return rows, fr.UpdateChangeComment(ctx, existingID, body)
	}
	_, err := fr.PostChangeComment(ctx, change.ID, body)
	return rows, err
}

// compareURL builds a GitHub compare link between two commits, rooted
// at the same repository as prURL (a PR URL of the form
// ".../pull/123"). GitHub's three-dot ("...") compare diffs against the
// merge base and so naturally excludes changes introduced solely by
// the base moving underneath the topic; the two-dot ("..") form is a
// literal diff of the two trees. See render.PatchsetRow.
func compareURL(prURL string, from, to git.Hash, threeDot bool) string {
	repoURL, ok := strings.CutSuffix(prURL, prPathSuffix(prURL))
	if !ok {
		return ""
	}
	sep := ".."
	if threeDot {
		sep = "..."
	}
	return fmt.Sprintf("%s/compare/%s%s%s", repoURL, from, sep, to)
}

func prPathSuffix(prURL string) string {
	if i := strings.LastIndex(prURL, "/pull/"); i >= 0 {
		return prURL[i:]
	}
	return ""
}
