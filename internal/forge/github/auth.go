package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os/exec"

	"go.abhg.dev/gs/internal/forge"
	"go.abhg.dev/gs/internal/secret"
	"golang.org/x/oauth2"
)

const (
	_oauthAppClientID = "Ov23lin9rC3LWqd4ks2f"
	// (This is not secret.)
)

// AuthenticationToken defines the token returned by the GitHub forge.
type AuthenticationToken struct {
	forge.AuthenticationToken

	// GitHubCLI is true if we should use GitHub CLI for API requests.
	//
	// If true, AccessToken is not used.
	GitHubCLI bool `json:"github_cli,omitempty"`

	// AccessToken is the GitHub access token.
	AccessToken string `json:"access_token,omitempty"`
}

var _ forge.AuthenticationToken = (*AuthenticationToken)(nil)

func (t *AuthenticationToken) tokenSource() oauth2.TokenSource {
	if t.GitHubCLI {
		return &CLITokenSource{}
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: t.AccessToken})
}

func (f *Forge) oauth2Endpoint() (oauth2.Endpoint, error) {
	u, err := url.Parse(f.URL())
	if err != nil {
		return oauth2.Endpoint{}, fmt.Errorf("bad GitHub URL: %w", err)
	}

	return oauth2.Endpoint{
		AuthURL:       u.JoinPath("/login/oauth/authorize").String(),
		TokenURL:      u.JoinPath("/login/oauth/access_token").String(),
		DeviceAuthURL: u.JoinPath("/login/device/code").String(),
	}, nil
}

// AuthenticationFlow authenticates with GitHub using the OAuth device
// flow or, when useGH is set, an existing GitHub CLI session (failing
// if "gh" is not on PATH). This rejects the request if the
// user is already authenticated with a GITHUB_TOKEN environment
// variable, since there would be nothing to save.
//
// Progress (the verification URL and code) is written to w.
func (f *Forge) AuthenticationFlow(ctx context.Context, w io.Writer, useGH bool) (forge.AuthenticationToken, error) {
	log := f.logger()
	if f.Options.Token != "" {
		log.Error("Already authenticated with GITHUB_TOKEN.")
		log.Error("Unset GITHUB_TOKEN to login with a different method.")
		return nil, errors.New("already authenticated")
	}

	if useGH {
		ghExe, err := exec.LookPath("gh")
		if err != nil {
			return nil, fmt.Errorf("GitHub CLI not found: %w", err)
		}
		return (&CLIAuthenticator{GH: ghExe}).Authenticate(ctx)
	}

	oauthEndpoint, err := f.oauth2Endpoint()
	if err != nil {
		return nil, fmt.Errorf("get OAuth endpoint: %w", err)
	}

	auth := &DeviceFlowAuthenticator{
		Endpoint: oauthEndpoint,
		ClientID: _oauthAppClientID,
		Scopes:   []string{"repo", "read:org"},
	}
	return auth.Authenticate(ctx, w)
}

// SaveAuthenticationToken saves the given authentication token to the stash.
func (f *Forge) SaveAuthenticationToken(stash secret.Stash, t forge.AuthenticationToken) error {
	ght := t.(*AuthenticationToken)
	if f.Options.Token != "" && f.Options.Token == ght.AccessToken {
		// If the user has set GITHUB_TOKEN,
		// we should not save it to the stash.
		return nil
	}

	bs, err := json.Marshal(ght)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	f.logger().Debug("Saving authentication token to local secret storage")
	return stash.SaveSecret(f.URL(), "token", string(bs))
}

// LoadAuthenticationToken loads the authentication token from the stash.
// If the user has set GITHUB_TOKEN, it will be used instead.
func (f *Forge) LoadAuthenticationToken(stash secret.Stash) (forge.AuthenticationToken, error) {
	if f.Options.Token != "" {
		// If the user has set GITHUB_TOKEN, we should use that
		// regardless of what's in the stash.
		return &AuthenticationToken{AccessToken: f.Options.Token}, nil
	}

	tokstr, err := stash.LoadSecret(f.URL(), "token")
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}

	var tok AuthenticationToken
	if err := json.Unmarshal([]byte(tokstr), &tok); err != nil {
		// Old token format, just use it as the access token.
		return &AuthenticationToken{AccessToken: tokstr}, nil
	}

	return &tok, nil
}

// ClearAuthenticationToken removes the authentication token from the stash.
func (f *Forge) ClearAuthenticationToken(stash secret.Stash) error {
	f.logger().Debug("Clearing authentication token from local secret storage")
	return stash.DeleteSecret(f.URL(), "token")
}

// DeviceFlowAuthenticator implements the OAuth device flow for GitHub.
type DeviceFlowAuthenticator struct {
	// Endpoint is the OAuth endpoint to use.
	Endpoint oauth2.Endpoint

	// ClientID for the OAuth app.
	ClientID string

	// Scopes specifies the OAuth scopes to request.
	Scopes []string
}

// Authenticate executes the OAuth device authentication flow,
// writing the verification URL and user code to w and blocking until
// the user completes the flow in a browser or ctx is canceled.
func (a *DeviceFlowAuthenticator) Authenticate(ctx context.Context, w io.Writer) (*AuthenticationToken, error) {
	cfg := oauth2.Config{
		ClientID:    a.ClientID,
		Endpoint:    a.Endpoint,
		Scopes:      a.Scopes,
		RedirectURL: "http://127.0.0.1/callback",
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "1. Visit %s\n", resp.VerificationURI)
	fmt.Fprintf(w, "2. Enter code: %s\n", resp.UserCode)
	fmt.Fprintln(w, "The code expires in a few minutes.")
	fmt.Fprintln(w, "It will take a few seconds to verify after you enter it.")

	token, err := cfg.DeviceAccessToken(ctx, resp,
		oauth2.SetAuthURLParam("grant_type", "urn:ietf:params:oauth:grant-type:device_code"))
	if err != nil {
		return nil, err
	}

	return &AuthenticationToken{AccessToken: token.AccessToken}, nil
}

// CLIAuthenticator re-uses an existing "gh auth login" session instead
// of running its own OAuth flow.
type CLIAuthenticator struct {
	GH string // required

	runCmd func(*exec.Cmd) error
}

// Authenticate checks if the user is authenticated with GitHub CLI.
func (a *CLIAuthenticator) Authenticate(context.Context) (*AuthenticationToken, error) {
	runCmd := (*exec.Cmd).Run
	if a.runCmd != nil {
		runCmd = a.runCmd
	}

	if err := runCmd(exec.Command(a.GH, "auth", "token")); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, errors.Join(
				errors.New("gh is not authenticated"),
				fmt.Errorf("stderr: %s", exitErr.Stderr),
			)
		}
		return nil, fmt.Errorf("run gh: %w", err)
	}

	return &AuthenticationToken{GitHubCLI: true}, nil
}
