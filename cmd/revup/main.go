// Command revup turns a linear sequence of local commits into a set
// of independent or chained GitHub pull requests, one branch per
// Topic: directive.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"go.abhg.dev/gs/internal/config"
)

var _version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "revup:", err)
		os.Exit(1)
	}

	cfg, err := config.Load(config.Options{RepoRoot: wd})
	if err != nil {
		fmt.Fprintln(os.Stderr, "revup:", err)
		os.Exit(1)
	}

	var cmd rootCmd
	parser := kong.Must(&cmd,
		kong.Name("revup"),
		kong.Description("revup uploads a range of local commits, tagged with Topic/Relative directives, as a set of related GitHub pull requests."),
		kong.UsageOnError(),
		kong.Resolvers(cfg),
		kong.Bind(cfg),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Vars{"version": _version},
	)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	kctx.FatalIfErrorf(kctx.Run())
}
