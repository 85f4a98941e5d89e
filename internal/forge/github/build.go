package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

const (
	// DefaultURL is the default URL for GitHub.
	DefaultURL = "https://github.com"

	// DefaultAPIURL is the default URL for the GitHub API.
	DefaultAPIURL = "https://api.github.com"
)

// Builder builds a GitHub Forge and the per-repository clients it
// hands out.
type Builder struct {
	// URL is the URL for GitHub.
	// Override this for testing or GitHub Enterprise.
	URL string

	// APIURL is the URL for the GitHub API.
	// Override this for testing or GitHub Enterprise.
	APIURL string

	// Token is the access token to authenticate with GitHub.
	Token string

	// Log specifies the logger to use.
	Log *log.Logger
}

// ErrUnsupportedURL is returned when the given URL is not a valid GitHub URL.
var ErrUnsupportedURL = errors.New("unsupported URL")

// Forge builds the global, repository-agnostic GitHub client used for
// authentication.
func (b *Builder) Forge() *Forge {
	if b.URL == "" {
		b.URL = DefaultURL
	}
	if b.Log == nil {
		b.Log = log.New(io.Discard)
	}

	f := newForge(Options{
		Token:  b.Token,
		URL:    b.URL,
		APIURL: b.APIURL,
	}, b.Log, nil)
	f.client = newGitHubv4EnterpriseClient(f.APIURL(), b.httpClient())
	return f
}

// New builds a Repository client for the repository at remoteURL.
//
// Returns [ErrUnsupportedURL] if the URL is not a valid GitHub URL.
func (b *Builder) New(ctx context.Context, remoteURL string) (*Repository, error) {
	f := b.Forge()

	owner, repo, err := extractRepoInfo(f.URL(), remoteURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedURL, err)
	}

	if b.Token != "" {
		apiURL, err := url.Parse(f.APIURL())
		if err != nil {
			return nil, fmt.Errorf("bad GitHub API URL: %w", err)
		}
		v3 := newGitHubv3Client(b.httpClient(), apiURL)
		if err := v3.verifyAccess(ctx, owner, repo); err != nil {
			return nil, fmt.Errorf("verify access to %v/%v: %w", owner, repo, err)
		}
	}

	return newRepository(ctx, owner, repo, f.logger(), f.client, nil)
}

func (b *Builder) httpClient() *http.Client {
	var base *http.Client
	if b.Token != "" {
		base = oauth2.NewClient(context.Background(),
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: b.Token}))
	} else {
		base = http.DefaultClient
	}

	retry := retryablehttp.NewClient()
	retry.Logger = nil
	retry.RetryMax = 3
	retry.HTTPClient = base
	return retry.StandardClient()
}

// extractRepoInfo parses the owner and repo name out of a Git remote
// URL, verifying that it points at the GitHub instance at baseURL.
//
// It recognizes:
//
//	http(s)://github.com/OWNER/REPO.git
//	git@github.com:OWNER/REPO.git
//	ssh://git@github.com/OWNER/REPO.git
func extractRepoInfo(baseURL, remoteURL string) (owner, repo string, err error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", "", fmt.Errorf("bad base URL: %w", err)
	}

	if !hasGitProtocol(remoteURL) && strings.Contains(remoteURL, ":") {
		// $user@$host:$path => ssh://$user@$host/$path
		remoteURL = "ssh://" + strings.Replace(remoteURL, ":", "/", 1)
	}

	u, err := url.Parse(remoteURL)
	if err != nil {
		return "", "", fmt.Errorf("parse remote URL: %w", err)
	}

	baseHost, host := base.Hostname(), u.Hostname()
	// GitHub's SSH-over-443 workaround uses "ssh.<host>" in place of
	// "<host>".
	if host != baseHost && host != "ssh."+baseHost {
		return "", "", fmt.Errorf("%v is not a GitHub URL: expected host %q", u, baseHost)
	}

	s := u.Path                       // /OWNER/REPO.git
	s = strings.TrimPrefix(s, "/")    // OWNER/REPO.git
	s = strings.TrimSuffix(s, "/")    // OWNER/REPO.git
	s = strings.TrimSuffix(s, ".git") // OWNER/REPO

	owner, repo, ok := strings.Cut(s, "/")
	if !ok {
		return "", "", fmt.Errorf("path %q does not contain a GitHub repository", s)
	}

	return owner, repo, nil
}

// _gitProtocols is a list of known git protocols
// including the :// suffix.
var _gitProtocols = []string{
	"ssh",
	"git",
	"git+ssh",
	"git+https",
	"git+http",
	"https",
	"http",
}

func init() {
	for i, proto := range _gitProtocols {
		_gitProtocols[i] = proto + "://"
	}
}

func hasGitProtocol(url string) bool {
	for _, proto := range _gitProtocols {
		if strings.HasPrefix(url, proto) {
			return true
		}
	}
	return false
}
