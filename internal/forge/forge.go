// Package forge defines the types shared between revup's topic graph
// and branch synthesis pipeline and its GitHub client
// (internal/forge/github). revup only ever talks to GitHub, so this
// package does not define a pluggable multi-forge registry: there is
// no Forge interface, no URL-based forge dispatch, and no CLIPlugin —
// github.Repository is used directly, and the Repository interface
// below exists solely so reconcile/render can be tested against a
// generated mock instead of a live GitHub client.
package forge

//go:generate go tool mockgen -destination forgetest/mock.go -package forgetest -typed go.abhg.dev/gs/internal/forge Repository

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"regexp"

	"go.abhg.dev/gs/internal/git"
)

// ErrUnsupportedURL indicates that a remote URL is not a GitHub URL.
var ErrUnsupportedURL = errors.New("unsupported URL")

// ErrUnsubmittedBase indicates that a change could not be submitted
// because its base branch has not itself been submitted (pushed and
// proposed) yet.
var ErrUnsubmittedBase = errors.New("base branch has not been submitted")

// AuthenticationToken is a secret that results from a successful login.
// It will be persisted in a safe place,
// and re-used for future authentication with the forge.
//
// Implementations must embed this interface.
type AuthenticationToken interface {
	secret() // marker method
}

// Repository is a Git repository hosted on GitHub.
//
// This interface exists so code that reconciles and renders change
// state (internal/reconcile, internal/render) can run against a
// [go.uber.org/mock] fake instead of the real GitHub client.
type Repository interface {
	SubmitChange(ctx context.Context, req SubmitChangeRequest) (SubmitChangeResult, error)
	EditChange(ctx context.Context, id ChangeID, opts EditChangeOptions) error
	FindChangesByBranch(ctx context.Context, branch string, opts FindChangesOptions) ([]*FindChangeItem, error)
	FindChangeByID(ctx context.Context, id ChangeID) (*FindChangeItem, error)
	ChangeIsMerged(ctx context.Context, id ChangeID) (bool, error)

	// Post and update comments on changes.
	PostChangeComment(context.Context, ChangeID, string) (ChangeCommentID, error)
	UpdateChangeComment(context.Context, ChangeCommentID, string) error

	// NewChangeMetadata builds a ChangeMetadata for the given change ID.
	//
	// This may perform network requests to fetch additional information
	// if necessary.
	NewChangeMetadata(ctx context.Context, id ChangeID) (ChangeMetadata, error)

	// ListChangeTemplates returns templates defined in the repository
	// for new change proposals.
	//
	// Returns an empty list if no templates are found.
	ListChangeTemplates(context.Context) ([]*ChangeTemplate, error)

	// ListChangeComments iterates over comments on a change, optionally
	// filtered by options.
	ListChangeComments(context.Context, ChangeID, *ListChangeCommentsOptions) iter.Seq2[*ListChangeCommentItem, error]
}

// ListChangeCommentsOptions filters the comments returned by
// [Repository.ListChangeComments].
type ListChangeCommentsOptions struct {
	// BodyMatchesAll restricts results to comments whose body matches
	// every given regular expression.
	BodyMatchesAll []*regexp.Regexp

	// CanUpdate restricts results to comments the authenticated user
	// is allowed to edit.
	CanUpdate bool
}

// ListChangeCommentItem is a single comment returned by
// [Repository.ListChangeComments].
type ListChangeCommentItem struct {
	// ID uniquely identifies the comment.
	ID ChangeCommentID

	// Body is the Markdown body of the comment.
	Body string
}

// ChangeID is a unique identifier for a change in a repository.
type ChangeID interface {
	String() string
}

// ChangeCommentID is a unique identifier for a comment on a change.
type ChangeCommentID interface {
	String() string
}

// ChangeMetadata defines Forge-specific per-change metadata.
// It is used to track the relationship between a branch
// and its corresponding change in the forge.
//
// The implementation is per-forge, and should contain enough information
// for the forge to uniquely identify a change within a repository.
//
// The metadata must be JSON-serializable (as defined by methods on Forge).
type ChangeMetadata interface {
	ForgeID() string

	// ChangeID is a human-readable identifier for the change.
	// This is presented to the user in the UI.
	ChangeID() ChangeID

	// StackCommentID is a comment left on the Change
	// that contains a visualization of the stack.
	StackCommentID() ChangeCommentID

	// SetStackCommentID sets the ID of the stack comment
	// on the chnage metadata to persist it later.
	//
	// The ID may be nil to indicate that there is no stack comment.
	SetStackCommentID(ChangeCommentID)
}

// FindChangesOptions specifies filtering options
// for searching for changes.
type FindChangesOptions struct {
	State ChangeState // 0 = all

	// Limit specifies the maximum number of changes to return.
	// Changes are sorted by most recently updated.
	// Defaults to 10.
	Limit int
}

// SubmitChangeRequest is a request to submit a new change in a repository.
// The change must have already been pushed to the remote.
type SubmitChangeRequest struct {
	// Subject is the title of the change.
	Subject string // required

	// Body is the description of the change.
	Body string

	// Base is the name of the base branch
	// that this change is proposed against.
	Base string // required

	// Head is the name of the branch containing the change.
	//
	// This must have already been pushed to the remote.
	Head string // required

	// Draft specifies whether the change should be marked as a draft.
	Draft bool

	// Labels to attach to the change, if the forge supports labels.
	Labels []string

	// Reviewers to request a review from, by username.
	Reviewers []string

	// Assignees to assign to the change, by username.
	Assignees []string
}

// SubmitChangeResult is the result of creating a new change in a repository.
type SubmitChangeResult struct {
	ID  ChangeID
	URL string
}

// EditChangeOptions specifies options for an operation to edit
// an existing change.
type EditChangeOptions struct {
	// Base specifies the name of the base branch.
	//
	// If unset, the base branch is not changed.
	Base string

	// Subject replaces the change's title. If empty, the title is
	// not changed.
	Subject string

	// Body replaces the change's description. If Subject is empty,
	// Body is ignored: the two are only ever updated together.
	Body string

	// Draft specifies whether the change should be marked as a draft.
	// If unset, the draft status is not changed.
	Draft *bool

	// Labels are added to the change's existing label set. GitHub's API
	// has no atomic "replace" for labels, so callers wanting removal
	// semantics must track what they previously added and issue
	// removals themselves; EditChange never removes a label.
	Labels []string

	// Reviewers are added to the change's existing requested reviewers.
	// Additive for the same reason as Labels.
	Reviewers []string

	// Assignees are added to the change's existing assignee set.
	// Additive for the same reason as Labels.
	Assignees []string
}

// FindChangeItem is a single result from searching for changes in the
// repository.
type FindChangeItem struct {
	// ID is a unique identifier for the change.
	ID ChangeID

	// URL is the web URL at which the change can be viewed.
	URL string

	// State is the current state of the change.
	State ChangeState

	// Subject is the title of the change.
	Subject string

	// HeadHash is the hash of the commit at the top of the change.
	HeadHash git.Hash

	// BaseName is the name of the base branch
	// that this change is proposed against.
	BaseName string

	// Draft is true if the change is not yet ready to be reviewed.
	Draft bool
}

// ChangeTemplate is a template for a new change proposal.
type ChangeTemplate struct {
	// Filename is the name of the template file.
	//
	// This is NOT a path.
	Filename string

	// Body is the content of the template file.
	Body string
}

// ChangeState is the current state of a change.
type ChangeState int

const (
	// ChangeOpen specifies that a change is open.
	ChangeOpen ChangeState = iota + 1

	// ChangeMerged specifies that a change has been merged.
	ChangeMerged

	// ChangeClosed specifies that a change has been closed.
	ChangeClosed
)

func (s ChangeState) String() string {
	b, err := s.MarshalText()
	if err != nil {
		return "unknown"
	}
	return string(b)
}

// MarshalText serialize the change state to text.
// This implements encoding.TextMarshaler.
func (s ChangeState) MarshalText() ([]byte, error) {
	switch s {
	case ChangeOpen:
		return []byte("open"), nil
	case ChangeMerged:
		return []byte("merged"), nil
	case ChangeClosed:
		return []byte("closed"), nil
	default:
		return nil, fmt.Errorf("unknown change state: %d", s)
	}
}

// UnmarshalText parses the change state from text.
// This implements encoding.TextUnmarshaler.
func (s *ChangeState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "open":
		*s = ChangeOpen
	case "merged":
		*s = ChangeMerged
	case "closed":
		*s = ChangeClosed
	default:
		return fmt.Errorf("unknown change state: %q", b)
	}
	return nil
}
