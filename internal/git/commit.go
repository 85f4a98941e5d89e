package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"strconv"
	"strings"
	"time"
)

// Signature holds authorship information for a commit.
type Signature struct {
	// Name of the signer.
	Name string

	// Email of the signer.
	Email string

	// Time at which the signature was made.
	// If this is zero, the current time is used.
	Time time.Time
}

// typ is one of "COMMIT" or "AUTHOR".
func (s *Signature) appendEnv(typ string, env []string) []string {
	if s == nil {
		return env
	}

	env = append(env, "GIT_"+typ+"_NAME="+s.Name)
	env = append(env, "GIT_"+typ+"_EMAIL="+s.Email)
	if !s.Time.IsZero() {
		env = append(env, "GIT_"+typ+"_DATE="+s.Time.Format(time.RFC3339))
	}
	return env
}

// CommitTreeRequest is a request to create a new commit.
type CommitTreeRequest struct {
	// Hash is the hash of a tree object
	// representing the state of the repository
	// at the time of the commit.
	Tree Hash // required

	// Message is the commit message.
	Message string // required

	// Parents are the hashes of the parent commits.
	// This will usually have one element.
	// It may have more than one element for a merge commit,
	// and no elements for the initial commit.
	Parents []Hash

	// Author and Committer sign the commit.
	// If Committer is nil, Author is used for both.
	//
	// If both are nil, the current user is used.
	// Note that current user may not be available in all contexts.
	// Prefer to set Author and Committer explicitly.
	Author, Committer *Signature
}

// CommitTree creates a new commit with a given tree hash
// as the state of the repository.
//
// It returns the hash of the new commit.
func (r *Repository) CommitTree(ctx context.Context, req CommitTreeRequest) (Hash, error) {
	if req.Message == "" {
		return ZeroHash, errors.New("empty commit message")
	}
	if req.Committer == nil {
		req.Committer = req.Author
	}

	args := make([]string, 0, 2+2*len(req.Parents))
	args = append(args, "commit-tree")
	for _, parent := range req.Parents {
		args = append(args, "-p", parent.String())
	}
	args = append(args, req.Tree.String())

	var env []string
	env = req.Author.appendEnv("AUTHOR", env)
	env = req.Committer.appendEnv("COMMITTER", env)

	cmd := r.gitCmd(ctx, args...).
		AppendEnv(env...).
		StdinString(req.Message)
	out, err := cmd.OutputString(r.exec)
	if err != nil {
		return ZeroHash, fmt.Errorf("commit-tree: %w", err)
	}

	return Hash(out), nil
}

// CommitRequest is a request to commit changes.
// It relies on the 'git commit' command.
type CommitRequest struct {
	// Message is the commit message.
	//
	// If this and ReuseMessag are empty,
	// $EDITOR is opened to edit the message.
	Message string

	// ReuseMessage uses the commit message from the given commitish
	// as the commit message.
	ReuseMessage string

	// Template is the commit message template.
	//
	// If Message is empty, this fills the initial commit message
	// when the user is editing the commit message.
	//
	// Note that if the user does not edit the message,
	// the commit will be aborted.
	// Therefore, do not use this as a default message.
	Template string

	// All stages all changes before committing.
	All bool

	// Amend amends the last commit.
	Amend bool

	// NoEdit skips editing the commit message.
	NoEdit bool

	// AllowEmpty allows a commit with no changes.
	AllowEmpty bool

	// Create a new commit which "fixes up" the commit at the given commitish.
	Fixup string

	// NoVerify allows a commit with pre-commit and commit-msg hooks bypassed.
	NoVerify bool
}

// Commit runs the 'git commit' command,
// allowing the user to commit changes.
func (r *Repository) Commit(ctx context.Context, req CommitRequest) error {
	args := []string{"commit"}
	if req.All {
		args = append(args, "-a")
	}
	if req.Message != "" {
		args = append(args, "-m", req.Message)
	}
	if req.Template != "" {
		f, err := os.CreateTemp("", "commit-template-")
		if err != nil {
			return fmt.Errorf("create temp file: %w", err)
		}
		defer func() { _ = os.Remove(f.Name()) }()

		if _, err := f.WriteString(req.Template); err != nil {
			return fmt.Errorf("write temp file: %w", err)
		}

		if err := f.Close(); err != nil {
			return fmt.Errorf("close temp file: %w", err)
		}

		args = append(args, "--template", f.Name())
	}
	if req.Amend {
		args = append(args, "--amend")
	}
	if req.NoEdit {
		args = append(args, "--no-edit")
	}
	if req.AllowEmpty {
		args = append(args, "--allow-empty")
	}
	if req.NoVerify {
		args = append(args, "--no-verify")
	}
	if req.ReuseMessage != "" {
		args = append(args, "-C", req.ReuseMessage)
	}
	if req.Fixup != "" {
		args = append(args, "--fixup", req.Fixup)
	}

	err := r.gitCmd(ctx, args...).
		Stdin(os.Stdin).
		Stdout(os.Stdout).
		Stderr(os.Stderr).
		Run(r.exec)
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CommitSubject returns the subject of a commit.
func (r *Repository) CommitSubject(ctx context.Context, commitish string) (string, error) {
	out, err := r.gitCmd(ctx,
		"show", "--no-patch", "--format=%s", commitish,
	).OutputString(r.exec)
	if err != nil {
		return "", fmt.Errorf("git log: %w", err)
	}
	return out, nil
}

// CommitMessage is the subject and body of a commit.
type CommitMessage struct {
	// Subject for the commit.
	// Contains no leading or trailing whitespace.
	Subject string

	// Body of the commit.
	// Contains no leading or trailing whitespace.
	Body string
}

func (m CommitMessage) String() string {
	if m.Body != "" {
		return m.Subject + "\n\n" + m.Body
	}
	return m.Subject
}

// CommitMessageRange returns the commit messages in the range (start, ^stop).
// That is, all commits reachable from start but not from stop.
func (r *Repository) CommitMessageRange(ctx context.Context, start, stop string) ([]CommitMessage, error) {
	cmd := r.gitCmd(ctx, "rev-list",
		"--format=%B%x00", // null-byte separated
		start, "--not", stop, "--",
	)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}

	if err := cmd.Start(r.exec); err != nil {
		return nil, fmt.Errorf("start rev-list: %w", err)
	}

	scanner := bufio.NewScanner(out)
	scanner.Split(splitNullByte)

	var bodies []CommitMessage
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if len(raw) == 0 {
			continue
		}

		// --format with rev-list writes in the form:
		//
		//	commit <hash>\n
		//	<format string>
		//
		// We need to drop the first line.
		_, raw, _ = strings.Cut(raw, "\n")
		subject, body, _ := strings.Cut(raw, "\n")
		bodies = append(bodies, CommitMessage{
			Subject: strings.TrimSpace(subject),
			Body:    strings.TrimSpace(body),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	if err := cmd.Wait(r.exec); err != nil {
		return nil, fmt.Errorf("rev-list: %w", err)
	}

	return bodies, nil
}

// LogEntry is a single commit as read back from the repository: enough
// to reconstruct it (tree, parent, author) and to re-derive a new
// commit from it during synthesis.
type LogEntry struct {
	Hash    Hash
	Tree    Hash
	Parents []Hash

	Author    Signature
	Committer Signature

	Message CommitMessage
}

const logEntrySep = "\x1f" // ASCII unit separator, never appears in names/messages

// ListCommitRange returns the commits reachable from start but not
// from stop, oldest first (the order a topic's members are walked in).
func (r *Repository) ListCommitRange(ctx context.Context, start, stop string) ([]LogEntry, error) {
	// Each record is the header fields joined by logEntrySep, followed
	// by the raw message body, terminated with a null byte. rev-list
	// also emits a "commit <hash>" line before each record, which we
	// skip, matching the approach CommitMessageRange uses above.
	format := strings.Join([]string{
		"%H", "%T", "%P",
		"%an", "%ae", "%aI",
		"%cn", "%ce", "%cI",
		"%B",
	}, logEntrySep) + "%x00"

	cmd := r.gitCmd(ctx, "rev-list",
		"--reverse",
		"--format="+format,
		start, "--not", stop, "--",
	)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}
	if err := cmd.Start(r.exec); err != nil {
		return nil, fmt.Errorf("start rev-list: %w", err)
	}

	scanner := bufio.NewScanner(out)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	scanner.Split(splitNullByte)

	var entries []LogEntry
	for scanner.Scan() {
		// Every record after the first starts with the newline that
		// terminated the previous one.
		raw := strings.TrimLeft(scanner.Text(), "\n")
		// Drop the leading "commit <hash>\n" line rev-list prepends.
		_, raw, _ = strings.Cut(raw, "\n")
		if raw == "" {
			continue
		}

		fields := strings.SplitN(raw, logEntrySep, 10)
		if len(fields) != 10 {
			return nil, fmt.Errorf("unexpected rev-list record: %q", raw)
		}

		var parents []Hash
		if p := strings.TrimSpace(fields[2]); p != "" {
			for _, h := range strings.Fields(p) {
				parents = append(parents, Hash(h))
			}
		}

		subject, rest, _ := strings.Cut(strings.TrimSpace(fields[9]), "\n")
		entries = append(entries, LogEntry{
			Hash:    Hash(fields[0]),
			Tree:    Hash(fields[1]),
			Parents: parents,
			Author: Signature{
				Name:  fields[3],
				Email: fields[4],
				Time:  parseCommitTime(fields[5]),
			},
			Committer: Signature{
				Name:  fields[6],
				Email: fields[7],
				Time:  parseCommitTime(fields[8]),
			},
			Message: CommitMessage{
				Subject: subject,
				Body:    strings.TrimSpace(rest),
			},
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if err := cmd.Wait(r.exec); err != nil {
		return nil, fmt.Errorf("rev-list: %w", err)
	}

	return entries, nil
}

func parseCommitTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func splitNullByte(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexByte(data, 0); i >= 0 {
		// Have a null-byte separated section.
		return i + 1, data[:i], nil
	}

	// No null-byte found, but end of input,
	// so consume the rest as one section.
	if atEOF {
		return len(data), data, nil
	}

	// Request more data.
	return 0, nil, nil
}

// CommitObject is a single commit read back in full, as returned by
// ReadCommit.
type CommitObject struct {
	Hash    Hash
	Tree    Hash
	Parents []Hash

	Author    Signature
	Committer Signature

	Subject string
	Body    string
}

const commitObjectFieldSep = "\x00"

// ReadCommit reads the full contents of a single commit.
func (r *Repository) ReadCommit(ctx context.Context, commitish string) (*CommitObject, error) {
	format := strings.Join([]string{
		"%H", "%T", "%P", "%an", "%ae", "%aI", "%cn", "%ce", "%cI", "%s", "%b",
	}, commitObjectFieldSep)

	out, err := r.gitCmd(ctx,
		"show", "--no-patch", "--format="+format, commitish,
	).OutputString(r.exec)
	if err != nil {
		return nil, fmt.Errorf("read commit: %w", err)
	}

	obj, err := parseCommitObject(out)
	if err != nil {
		return nil, fmt.Errorf("read commit: %w", err)
	}
	return obj, nil
}

func parseCommitObject(raw string) (*CommitObject, error) {
	parts := strings.Split(raw, commitObjectFieldSep)

	if len(parts) < 2 {
		return nil, errors.New("no tree hash")
	}
	obj := &CommitObject{
		Hash: Hash(parts[0]),
		Tree: Hash(parts[1]),
	}

	if len(parts) < 3 {
		return nil, errors.New("no parent hashes")
	}
	if p := strings.TrimSpace(parts[2]); p != "" {
		for _, h := range strings.Fields(p) {
			obj.Parents = append(obj.Parents, Hash(h))
		}
	}

	if len(parts) < 4 {
		return nil, errors.New("parse author: no name")
	}
	obj.Author.Name = parts[3]

	if len(parts) < 5 {
		return nil, errors.New("parse author: no email")
	}
	obj.Author.Email = parts[4]

	if len(parts) >= 6 {
		t, err := time.Parse(time.RFC3339, parts[5])
		if err != nil {
			return nil, fmt.Errorf("parse time: %w", err)
		}
		obj.Author.Time = t
	}

	if len(parts) < 7 {
		return nil, errors.New("parse committer: no name")
	}
	obj.Committer.Name = parts[6]

	if len(parts) < 8 {
		return nil, errors.New("parse committer: no email")
	}
	obj.Committer.Email = parts[7]

	if len(parts) >= 9 {
		t, err := time.Parse(time.RFC3339, parts[8])
		if err != nil {
			return nil, fmt.Errorf("parse time: %w", err)
		}
		obj.Committer.Time = t
	}

	if len(parts) < 10 {
		return nil, errors.New("no subject")
	}
	obj.Subject = parts[9]

	if len(parts) >= 11 {
		obj.Body = parts[10]
	}

	return obj, nil
}

// CommitAheadBehind reports how many commits local is ahead of and
// behind upstream.
func (r *Repository) CommitAheadBehind(ctx context.Context, upstream, local string) (ahead, behind int, err error) {
	out, err := r.gitCmd(ctx,
		"rev-list", "--left-right", "--count", upstream+"..."+local,
	).OutputString(r.exec)
	if err != nil {
		return 0, 0, fmt.Errorf("rev-list: %w", err)
	}

	left, right, ok := strings.Cut(out, "\t")
	if !ok {
		return 0, 0, fmt.Errorf("unexpected rev-list --count output: %q", out)
	}

	behind, err = strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, fmt.Errorf("parse behind count: %w", err)
	}
	ahead, err = strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return 0, 0, fmt.Errorf("parse ahead count: %w", err)
	}
	return ahead, behind, nil
}

// CommitRange describes a set of commits reachable from a starting
// point, optionally excluding those also reachable from a stopping
// point. Construct one with CommitRangeFrom.
type CommitRange struct {
	start, stop string
}

// CommitRangeFrom builds a CommitRange containing all commits
// reachable from start.
func CommitRangeFrom(start string) CommitRange {
	return CommitRange{start: start}
}

// ExcludeFrom excludes commits reachable from stop,
// e.g. the commits already present in a trunk branch.
func (r CommitRange) ExcludeFrom(stop string) CommitRange {
	r.stop = stop
	return r
}

// ListCommits lists the hashes of commits in the range,
// newest first.
func (r *Repository) ListCommits(ctx context.Context, rng CommitRange) iter.Seq2[Hash, error] {
	return func(yield func(Hash, error) bool) {
		args := []string{"rev-list", rng.start}
		if rng.stop != "" {
			args = append(args, "--not", rng.stop)
		}

		cmd := r.gitCmd(ctx, args...)
		out, err := cmd.StdoutPipe()
		if err != nil {
			yield(ZeroHash, fmt.Errorf("pipe: %w", err))
			return
		}
		if err := cmd.Start(r.exec); err != nil {
			yield(ZeroHash, fmt.Errorf("start rev-list: %w", err))
			return
		}

		scanner := bufio.NewScanner(out)
		for scanner.Scan() {
			if !yield(Hash(scanner.Text()), nil) {
				_ = cmd.Kill(r.exec)
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(ZeroHash, fmt.Errorf("scan: %w", err))
			return
		}
		if err := cmd.Wait(r.exec); err != nil {
			yield(ZeroHash, fmt.Errorf("rev-list: %w", err))
		}
	}
}
