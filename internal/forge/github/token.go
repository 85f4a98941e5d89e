package github

import (
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/oauth2"
)

// CLITokenSource is an oauth2 token source
// that uses the GitHub CLI to get a token.
//
// This is not super safe and we should probably nuke it.
type CLITokenSource struct {
	// cmdOutput runs the given command and returns its stdout,
	// overridable in tests. Defaults to (*exec.Cmd).Output.
	cmdOutput func(*exec.Cmd) ([]byte, error)
}

func (ts *CLITokenSource) output(cmd *exec.Cmd) ([]byte, error) {
	if ts.cmdOutput != nil {
		return ts.cmdOutput(cmd)
	}
	return cmd.Output()
}

// Token returns an oauth2 token using the GitHub CLI.
func (ts *CLITokenSource) Token() (*oauth2.Token, error) {
	cmd := exec.Command("gh", "auth", "token")
	bs, err := ts.output(cmd)
	if err != nil {
		return nil, fmt.Errorf("get token from gh CLI: %w", err)
	}
	return &oauth2.Token{
		AccessToken: strings.TrimSpace(string(bs)),
	}, nil
}
