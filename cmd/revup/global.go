package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"go.abhg.dev/gs/internal/forge/github"
	"go.abhg.dev/gs/internal/git"
	"go.abhg.dev/gs/internal/secret"
	"go.abhg.dev/gs/internal/silog"
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	Token  string `name:"token" env:"GITHUB_TOKEN" config:"github.token" help:"GitHub API token. Defaults to $GITHUB_TOKEN, then a saved 'revup auth login' session."`
	Remote string `name:"remote" config:"remote" default:"origin" help:"Git remote to push topic branches to and read their review state from."`

	GitHubURL    string `name:"github-url" config:"github.url" hidden:"" help:"Base URL of the GitHub instance. Set for GitHub Enterprise."`
	GitHubAPIURL string `name:"github-api-url" config:"github.apiUrl" hidden:"" help:"Base URL of the GitHub API. Set for GitHub Enterprise."`

	Verbose bool `short:"v" help:"Enable debug logging."`
}

type rootCmd struct {
	globalOptions

	Upload uploadCmd `cmd:"" help:"Upload a range of local commits as a set of pull requests."`
	Auth   authCmd   `cmd:"" help:"Manage GitHub authentication."`

	Version versionFlag `help:"Print version information and quit."`
}

// AfterApply builds the dependencies shared by every subcommand and
// binds them into the kong context, in the style of the teacher's own
// per-command AfterApply hooks: a git.Repository and loggers for
// internal/git and internal/forge/github (which log through
// charmbracelet/log), a silog.Logger for command-level messages, a
// layered secret.Stash, and a github.Builder for constructing forge
// clients.
func (cmd *rootCmd) AfterApply(kctx *kong.Context, ctx context.Context) error {
	gitLevel := log.InfoLevel
	siLevel := silog.LevelInfo
	if cmd.Verbose {
		gitLevel = log.DebugLevel
		siLevel = silog.LevelDebug
	}

	gitLog := log.New(os.Stderr)
	gitLog.SetLevel(gitLevel)

	siLog := silog.New(os.Stderr, &silog.Options{Level: siLevel})

	repo, err := git.Open(ctx, "", git.OpenOptions{Log: gitLog})
	if err != nil {
		return fmt.Errorf("open git repository (run revup from inside a repository): %w", err)
	}

	stashPath, err := insecureStashPath()
	if err != nil {
		return fmt.Errorf("resolve secrets path: %w", err)
	}
	stash := &secret.FallbackStash{
		Primary:   &secret.Keyring{},
		Secondary: &secret.InsecureStash{Path: stashPath, Log: siLog},
	}

	builder := &github.Builder{
		URL:    cmd.GitHubURL,
		APIURL: cmd.GitHubAPIURL,
		Token:  cmd.Token,
		Log:    gitLog,
	}

	kctx.Bind(repo, siLog, gitLog, builder, &cmd.globalOptions)
	kctx.BindTo(stash, (*secret.Stash)(nil))
	return nil
}

// insecureStashPath is where secrets land when the system keyring is
// unavailable (e.g. a headless CI runner).
func insecureStashPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "revup", "secrets.json"), nil
}

type versionFlag bool

func (versionFlag) BeforeReset(app *kong.Kong, vars kong.Vars) error {
	fmt.Fprintln(app.Stdout, "revup", vars["version"])
	app.Exit(0)
	return nil
}
