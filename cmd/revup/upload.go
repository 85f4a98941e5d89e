package main

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"go.abhg.dev/gs/internal/browser"
	"go.abhg.dev/gs/internal/directive"
	"go.abhg.dev/gs/internal/forge"
	"go.abhg.dev/gs/internal/forge/github"
	"go.abhg.dev/gs/internal/git"
	"go.abhg.dev/gs/internal/reconcile"
	"go.abhg.dev/gs/internal/render"
	"go.abhg.dev/gs/internal/revup"
	"go.abhg.dev/gs/internal/secret"
	"go.abhg.dev/gs/internal/taskpool"
)

// forgeHTTPPoolSize bounds concurrent requests to the forge while
// resolving remote state; git subprocesses are
// bounded separately, by the number of available cores.
const forgeHTTPPoolSize = 8

type uploadCmd struct {
	Head string `arg:"" optional:"" default:"HEAD" help:"Commit-ish at the top of the range to upload"`

	Main         string   `name:"base-branch" config:"main" help:"Main branch name. Defaults to the remote's default branch."`
	ReleaseGlobs []string `name:"release-branch" config:"releaseBranches" help:"Ref-glob patterns, relative to the remote, for release branches considered as base candidates"`

	DefaultUploader string              `name:"uploader" config:"uploader" help:"Default uploader for topics with no Uploader directive. Defaults to the local part of the committer email."`
	BranchFormat    revup.BranchFormat  `name:"branch-format" config:"branchFormat" default:"user+branch" enum:"user+branch,user,branch,none" help:"Default branch naming format for topics with no Branch-Format directive"`
	AutoTopic       bool                `name:"auto-topic" config:"autoTopic" help:"Synthesize a topic for commits with no Topic directive, instead of leaving them out"`
	RelativeChain   bool                `name:"chain" config:"chain" help:"Ignore Relative directives and chain topics in the order they first appear"`
	TrimTags        bool                `name:"trim-tags" config:"trimTags" default:"true" negatable:"" help:"Strip recognized directive lines from synthesized commit messages"`

	Rebase       bool `help:"Push a branch even if it's classified as unchanged or rebased-only"`
	UpdatePRBody bool `name:"update-pr-body" config:"updatePrBody" help:"Update an existing pull request's title and body from its topic's first commit"`
	DryRun       bool `name:"dry-run" help:"Compute and print the plan without pushing or touching the forge"`
	Web          bool `short:"w" negatable:"" config:"web" help:"Open created or updated pull requests in a web browser"`
}

func (cmd *uploadCmd) Run(
	ctx context.Context,
	repo *git.Repository,
	gitLog *log.Logger,
	builder *github.Builder,
	stash secret.Stash,
	globals *globalOptions,
) error {
	main := cmd.Main
	if main == "" {
		def, err := repo.RemoteDefaultBranch(ctx, globals.Remote)
		if err != nil {
			return fmt.Errorf("detect default branch (pass --base-branch to skip this): %w", err)
		}
		main = def
	}

	base, err := revup.DetectBaseBranch(ctx, repo, cmd.Head, revup.BaseBranchDetectorOptions{
		Remote:       globals.Remote,
		Main:         main,
		ReleaseGlobs: cmd.ReleaseGlobs,
	})
	if err != nil {
		return fmt.Errorf("detect base branch: %w", err)
	}

	commits, err := loadCommits(ctx, repo, gitLog, cmd.Head, base)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		gitLog.Infof("No commits between %s and %s; nothing to do.", base, cmd.Head)
		return nil
	}

	uploader := cmd.DefaultUploader
	if uploader == "" {
		uploader, err = defaultUploader(ctx, repo)
		if err != nil {
			return fmt.Errorf("determine default uploader (pass --uploader to skip this): %w", err)
		}
	}

	g, err := revup.Build(commits, revup.BuildOptions{
		DefaultBase:         base,
		AutoTopic:           cmd.AutoTopic,
		RelativeChain:       cmd.RelativeChain,
		DefaultBranchFormat: cmd.BranchFormat,
		DefaultUploader:     uploader,
	})
	if err != nil {
		var cycleErr *revup.CycleError
		var validationErr *revup.ValidationError
		if errors.As(err, &cycleErr) || errors.As(err, &validationErr) {
			return err
		}
		return fmt.Errorf("build topic graph: %w", err)
	}

	committer, err := commitSignature(ctx, repo)
	if err != nil {
		return fmt.Errorf("determine committer identity: %w", err)
	}

	if err := revup.Synthesize(ctx, repo, g, revup.SynthesizeOptions{
		Committer: committer,
		TrimTags:  cmd.TrimTags,
	}); err != nil {
		var conflictErr *revup.ConflictError
		if errors.As(err, &conflictErr) {
			return fmt.Errorf("%w: resolve the conflict and adjust the offending commit, then re-run", conflictErr)
		}
		return fmt.Errorf("synthesize branches: %w", err)
	}

	g = revup.PruneEmpty(g)

	branches := g.TopoOrder()
	if len(branches) == 0 {
		gitLog.Info("Every topic turned out empty after synthesis; nothing to upload.")
		return nil
	}

	forgePool := taskpool.New(forgeHTTPPoolSize)

	remoteHeads, err := remoteBranchHeads(ctx, repo, globals.Remote, branches)
	if err != nil {
		return fmt.Errorf("list remote branches: %w", err)
	}

	var fr forge.Repository
	if !cmd.DryRun {
		if builder.Token == "" {
			// Fall back to a session saved by "revup auth login".
			if tok, err := builder.Forge().LoadAuthenticationToken(stash); err == nil {
				if ght, ok := tok.(*github.AuthenticationToken); ok {
					builder.Token = ght.AccessToken
					if ght.GitHubCLI {
						if t, err := (&github.CLITokenSource{}).Token(); err == nil {
							builder.Token = t.AccessToken
						}
					}
				}
			}
		}
		remoteURL, err := repo.RemoteURL(ctx, globals.Remote)
		if err != nil {
			return fmt.Errorf("resolve remote %q: %w", globals.Remote, err)
		}
		ghRepo, err := builder.New(ctx, remoteURL)
		if err != nil {
			return fmt.Errorf("connect to GitHub: %w", err)
		}
		fr = ghRepo
	}

	states, err := remoteStates(ctx, forgePool, fr, branches, remoteHeads)
	if err != nil {
		return fmt.Errorf("resolve remote review state: %w", err)
	}

	plan, err := revup.Plan(ctx, repo, g, func(key revup.Key) revup.RemoteState {
		return states[key]
	})
	if err != nil {
		return fmt.Errorf("plan upload: %w", err)
	}

	printPlan(gitLog, plan)

	if cmd.DryRun {
		return nil
	}

	results, err := reconcile.Reconcile(ctx, repo, fr, g, plan, reconcile.Options{
		Remote:       globals.Remote,
		Rebase:       cmd.Rebase,
		UpdatePRBody: cmd.UpdatePRBody,
		Clock:        time.Now,
	})
	if err != nil {
		return fmt.Errorf("reconcile pull requests: %w", err)
	}

	var launcher browser.Launcher = &browser.Noop{}
	if cmd.Web {
		launcher = &browser.Browser{}
	}
	return printResults(gitLog, launcher, results)
}

// loadCommits walks the commit range and attaches each commit's
// parsed directive set.
func loadCommits(ctx context.Context, repo *git.Repository, gitLog *log.Logger, head, base string) ([]*revup.Commit, error) {
	entries, err := repo.ListCommitRange(ctx, head, base)
	if err != nil {
		return nil, fmt.Errorf("walk %s..%s: %w", base, head, err)
	}

	commits := make([]*revup.Commit, len(entries))
	for i, e := range entries {
		set, err := directive.Parse(e.Message.Body)
		if err != nil {
			return nil, fmt.Errorf("commit %s: parse directives: %w", e.Hash.Short(), err)
		}
		for _, w := range set.Warnings {
			gitLog.Warn(w, "commit", e.Hash.Short())
		}

		commits[i] = &revup.Commit{
			Hash:       e.Hash,
			Tree:       e.Tree,
			Parents:    e.Parents,
			Author:     e.Author,
			Committer:  e.Committer,
			Message:    e.Message,
			Directives: set,
		}
	}
	return commits, nil
}

var _identRe = regexp.MustCompile(`^(.*) <([^>]*)> \d+ [+-]\d{4}$`)

// defaultUploader derives a branch-naming uploader handle from the
// local part of the configured committer email, as reported by "git
// var GIT_COMMITTER_IDENT".
func defaultUploader(ctx context.Context, repo *git.Repository) (string, error) {
	ident, err := repo.Var(ctx, "GIT_COMMITTER_IDENT")
	if err != nil {
		return "", err
	}

	m := _identRe.FindStringSubmatch(ident)
	if m == nil {
		return "", fmt.Errorf("unrecognized committer identity: %q", ident)
	}

	email := m[2]
	name, _, ok := strings.Cut(email, "@")
	if !ok || name == "" {
		return "", fmt.Errorf("committer email has no local part: %q", email)
	}
	return name, nil
}

// commitSignature builds the committer identity stamped on every
// synthesized commit, with its timestamp captured once per run so that
// every commit synthesized in one invocation carries the same time.
func commitSignature(ctx context.Context, repo *git.Repository) (git.Signature, error) {
	ident, err := repo.Var(ctx, "GIT_COMMITTER_IDENT")
	if err != nil {
		return git.Signature{}, err
	}

	m := _identRe.FindStringSubmatch(ident)
	if m == nil {
		return git.Signature{}, fmt.Errorf("unrecognized committer identity: %q", ident)
	}

	return git.Signature{
		Name:  m[1],
		Email: m[2],
		Time:  time.Now(),
	}, nil
}

// remoteBranchHeads looks up the current remote head, if any, for
// every TopicBranch in a single ls-remote call.
func remoteBranchHeads(ctx context.Context, repo *git.Repository, remote string, branches []*revup.TopicBranch) (map[string]git.Hash, error) {
	patterns := make([]string, len(branches))
	for i, tb := range branches {
		patterns[i] = "refs/heads/" + tb.Name
	}

	heads := make(map[string]git.Hash, len(branches))
	for ref, err := range repo.ListRemoteRefs(ctx, remote, &git.ListRemoteRefsOptions{
		Heads:    true,
		Patterns: patterns,
	}) {
		if err != nil {
			return nil, err
		}
		heads[strings.TrimPrefix(ref.Name, "refs/heads/")] = ref.Hash
	}
	return heads, nil
}

// remoteStates resolves [revup.RemoteState] for every branch
// concurrently: existence and head come from remoteHeads, and the
// last recorded base (needed to tell a rebase-only push apart from a
// real content change) is recovered from that branch's pull request's
// patchsets comment, not from any local cache.
func remoteStates(
	ctx context.Context,
	pool *taskpool.Pool,
	fr forge.Repository,
	branches []*revup.TopicBranch,
	remoteHeads map[string]git.Hash,
) (map[revup.Key]revup.RemoteState, error) {
	states := make([]revup.RemoteState, len(branches))

	err := taskpool.Run(ctx, pool, len(branches), func(ctx context.Context, i int) error {
		tb := branches[i]
		head, exists := remoteHeads[tb.Name]
		if !exists || fr == nil {
			states[i] = revup.RemoteState{Exists: exists, Head: head}
			return nil
		}

		parent, err := lastRecordedBase(ctx, fr, tb.Name)
		if err != nil {
			return fmt.Errorf("branch %q: %w", tb.Name, err)
		}
		states[i] = revup.RemoteState{Exists: true, Head: head, Parent: parent}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(map[revup.Key]revup.RemoteState, len(branches))
	for i, tb := range branches {
		out[tb.Key()] = states[i]
	}
	return out, nil
}

var _patchsetsMarkerRe = regexp.MustCompile(regexp.QuoteMeta(render.PatchsetsMarker))

func lastRecordedBase(ctx context.Context, fr forge.Repository, branch string) (string, error) {
	items, err := fr.FindChangesByBranch(ctx, branch, forge.FindChangesOptions{Limit: 1})
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", nil
	}

	for item, err := range fr.ListChangeComments(ctx, items[0].ID, &forge.ListChangeCommentsOptions{
		BodyMatchesAll: []*regexp.Regexp{_patchsetsMarkerRe},
	}) {
		if err != nil {
			return "", err
		}
		rows, err := render.ParsePatchsets(item.Body)
		if err != nil {
			return "", err
		}
		if len(rows) == 0 {
			return "", nil
		}
		return string(rows[len(rows)-1].BaseOID), nil
	}
	return "", nil
}

func printPlan(w planLogger, plan *revup.UploadPlan) {
	for _, item := range plan.Items {
		w.Infof("%s: %s (%s -> %s)", item.Branch.Name, item.State, item.Branch.Base, item.Branch.Head.Short())
	}
}

func printResults(w planLogger, launcher browser.Launcher, results []*reconcile.BranchResult) error {
	var failed []error
	for _, res := range results {
		if res.Err != nil {
			w.Errorf("%s: %v", res.Branch.Name, res.Err)
			failed = append(failed, res.Err)
			continue
		}

		switch res.Action {
		case reconcile.ActionCreated:
			w.Infof("%s: created %s", res.Branch.Name, res.Change.URL)
			if err := launcher.OpenURL(res.Change.URL); err != nil {
				w.Warnf("%s: open browser: %v", res.Branch.Name, err)
			}
		case reconcile.ActionUpdated:
			w.Infof("%s: updated %s", res.Branch.Name, res.Change.URL)
			if err := launcher.OpenURL(res.Change.URL); err != nil {
				w.Warnf("%s: open browser: %v", res.Branch.Name, err)
			}
		case reconcile.ActionDeferred:
			w.Warnf("%s: deferred (base branch not yet submitted)", res.Branch.Name)
		case reconcile.ActionNone:
			w.Infof("%s: up to date", res.Branch.Name)
		}
	}
	return errors.Join(failed...)
}

// planLogger is the narrow slice of *log.Logger used for reporting,
// so tests can swap in a buffer-backed stand-in.
type planLogger interface {
	Infof(string, ...any)
	Warnf(string, ...any)
	Errorf(string, ...any)
}

var _ planLogger = (*log.Logger)(nil)
