// Package github is revup's GitHub client: it talks to the GitHub
// GraphQL API (and, for the few endpoints GraphQL doesn't cover, a
// minimal hand-rolled REST v3 client in client.go) to submit, edit,
// and look up pull requests for the branches internal/revup builds.
package github

import (
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/shurcooL/githubv4"
)

// Options configures how the GitHub client authenticates and which
// GitHub instance (github.com or an Enterprise deployment) it talks to.
type Options struct {
	// Token is a GitHub access token, usually sourced from the
	// GITHUB_TOKEN environment variable or a prior login.
	Token string

	// URL is the base URL of the GitHub instance, e.g.
	// "https://github.com". Defaults to DefaultURL.
	URL string

	// APIURL is the base URL of the GitHub API, e.g.
	// "https://api.github.com". Defaults to DefaultAPIURL.
	APIURL string
}

// Forge provides access to a single GitHub instance's API.
type Forge struct {
	Options

	// Log is the logger used for diagnostic and authentication
	// messages. Defaults to log.Default() if unset.
	Log *log.Logger

	client *githubv4.Client
}

// URL returns the base URL of the GitHub instance this Forge talks to.
func (f *Forge) URL() string {
	if f.Options.URL != "" {
		return f.Options.URL
	}
	return DefaultURL
}

// APIURL returns the base URL of the GitHub API this Forge talks to.
//
// For the default GitHub URL, this is DefaultAPIURL. For a custom URL
// (e.g. a GitHub Enterprise instance) without an explicit APIURL, it
// is guessed as URL+"/api", GitHub Enterprise's own convention.
func (f *Forge) APIURL() string {
	if f.Options.APIURL != "" {
		return f.Options.APIURL
	}

	u := f.URL()
	if u == DefaultURL {
		return DefaultAPIURL
	}

	parsed, err := url.Parse(u)
	if err != nil {
		return DefaultAPIURL
	}

	return parsed.JoinPath("api").String()
}

func (f *Forge) logger() *log.Logger {
	if f.Log != nil {
		return f.Log
	}
	return log.Default()
}

func newForge(opts Options, logger *log.Logger, client *githubv4.Client) *Forge {
	return &Forge{
		Options: opts,
		Log:     logger,
		client:  client,
	}
}
