package main

// authCmd groups the subcommands that manage a saved GitHub
// authentication token.
type authCmd struct {
	Login  authLoginCmd  `cmd:"" help:"Log in to GitHub"`
	Status authStatusCmd `cmd:"" help:"Report whether revup is logged in to GitHub"`
}
