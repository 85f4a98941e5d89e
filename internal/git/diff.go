package git

import (
	"bufio"
	"context"
	"fmt"
	"iter"
	"strings"

	"go.abhg.dev/gs/internal/scanutil"
)

// FileStatusCode specifies the status of a file in a diff.
type FileStatusCode string

// List of file status codes from
// https://git-scm.com/docs/git-diff-index#Documentation/git-diff-index.txt---diff-filterACDMRTUXB82308203.
const (
	FileUnchanged   FileStatusCode = ""
	FileAdded       FileStatusCode = "A"
	FileCopied      FileStatusCode = "C"
	FileDeleted     FileStatusCode = "D"
	FileModified    FileStatusCode = "M"
	FileRenamed     FileStatusCode = "R"
	FileTypeChanged FileStatusCode = "T"
	FileUnmerged    FileStatusCode = "U"
)

// FileStatus is a single file in a diff.
type FileStatus struct {
	// Status of the file.
	Status string

	// Path to the file relative to the tree root.
	Path string
}

// DiffTree compares two trees and returns an iterator over files that are different.
// The treeish1 and treeish2 arguments can be any valid tree-ish references.
func (r *Repository) DiffTree(ctx context.Context, treeish1, treeish2 string) iter.Seq2[FileStatus, error] {
	return func(yield func(FileStatus, error) bool) {
		cmd := r.gitCmd(ctx, "diff-tree", "-r", "--name-status", "-z", treeish1, treeish2)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			yield(FileStatus{}, fmt.Errorf("pipe: %w", err))
			return
		}
		if err := cmd.Start(r.exec); err != nil {
			yield(FileStatus{}, fmt.Errorf("start git diff-tree: %w", err))
			return
		}

		scan := bufio.NewScanner(stdout)
		scan.Split(scanutil.SplitNull)

		var status string
		var expectingPath bool
		for scan.Scan() {
			line := scan.Text()
			if len(line) == 0 {
				continue
			}

			if !expectingPath {
				status = line
				expectingPath = true
			} else {
				if !yield(FileStatus{Status: status, Path: line}, nil) {
					_ = cmd.Kill(r.exec)
					return
				}
				expectingPath = false
			}
		}

		if err := scan.Err(); err != nil {
			yield(FileStatus{}, fmt.Errorf("scan: %w", err))
			return
		}
		if err := cmd.Wait(r.exec); err != nil {
			yield(FileStatus{}, fmt.Errorf("git diff-tree: %w", err))
		}
	}
}

// RawTreeChange is a single entry of a "git diff-tree --raw" comparison.
// It reports the blob hashes on either side of the change, which is the
// structural, whitespace-insensitive unit that rebase detection (see
// the revup package) compares patch sets with.
type RawTreeChange struct {
	// SrcMode and DstMode are the file modes before and after the change.
	SrcMode, DstMode Mode

	// SrcHash and DstHash are the blob hashes before and after the change.
	// SrcHash is ZeroHash for added files; DstHash is ZeroHash for
	// deleted files.
	SrcHash, DstHash Hash

	// Status is the single-letter status code (A, M, D, R, ...).
	// Renames are never emitted here: the caller asks for
	// --no-renames so that a rename surfaces as a delete plus an add,
	// matching the "renames treated as delete+add" rule.
	Status string

	// Path is the file path. For renames (not used here, see above)
	// this would be the destination path.
	Path string
}

// RawDiffTree compares two trees and returns the list of blob-level
// changes between them, in path order, with renames decomposed into a
// delete and an add.
func (r *Repository) RawDiffTree(ctx context.Context, treeish1, treeish2 string) ([]RawTreeChange, error) {
	cmd := r.gitCmd(ctx, "diff-tree", "-r", "--raw", "--no-renames", "-z", treeish1, treeish2)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}
	if err := cmd.Start(r.exec); err != nil {
		return nil, fmt.Errorf("start git diff-tree: %w", err)
	}

	scan := bufio.NewScanner(stdout)
	scan.Split(scanutil.SplitNull)

	var changes []RawTreeChange
	for scan.Scan() {
		line := scan.Text()
		if line == "" {
			continue
		}
		// Raw format (without leading colon consumed by Cut below):
		//   :<srcmode> <dstmode> <srchash> <dsthash> <status>
		line = strings.TrimPrefix(line, ":")
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}

		if !scan.Scan() {
			break
		}
		path := scan.Text()

		srcMode, _ := ParseMode(fields[0])
		dstMode, _ := ParseMode(fields[1])
		changes = append(changes, RawTreeChange{
			SrcMode: srcMode,
			DstMode: dstMode,
			SrcHash: Hash(fields[2]),
			DstHash: Hash(fields[3]),
			Status:  fields[4][:1],
			Path:    path,
		})
	}

	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if err := cmd.Wait(r.exec); err != nil {
		return nil, fmt.Errorf("git diff-tree: %w", err)
	}

	return changes, nil
}
