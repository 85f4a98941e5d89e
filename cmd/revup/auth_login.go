package main

import (
	"context"
	"fmt"
	"os"

	"go.abhg.dev/gs/internal/forge/github"
	"go.abhg.dev/gs/internal/secret"
	"go.abhg.dev/gs/internal/silog"
)

type authLoginCmd struct {
	Refresh bool `help:"Force a refresh of the saved authentication token"`
	GH      bool `name:"gh" help:"Reuse an existing 'gh auth login' session instead of its own OAuth flow"`
}

func (cmd *authLoginCmd) Run(
	ctx context.Context,
	stash secret.Stash,
	log *silog.Logger,
	builder *github.Builder,
) error {
	f := builder.Forge()

	if _, err := f.LoadAuthenticationToken(stash); err == nil && !cmd.Refresh {
		log.Error("Already logged in. Use --refresh to log in again.")
		return fmt.Errorf("%s: already logged in", f.URL())
	}

	tok, err := f.AuthenticationFlow(ctx, os.Stdout, cmd.GH)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	if err := f.SaveAuthenticationToken(stash, tok); err != nil {
		return fmt.Errorf("save authentication token: %w", err)
	}

	log.Infof("%s: successfully logged in", f.URL())
	return nil
}
