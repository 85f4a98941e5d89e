package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.abhg.dev/gs/internal/git"
)

// PatchsetsMarker identifies the patchsets comment across runs, so the
// reconciler can find it again with [forge.Repository.ListChangeComments]
// instead of persisting a comment id locally.
const PatchsetsMarker = "<!-- revup:patchsets -->"

// PatchsetRow is one push recorded against a pull request: the state of
// the branch immediately after that push, plus links comparing it to
// the push before it.
type PatchsetRow struct {
	// Index is the 1-based position of this push for the PR.
	Index int

	// Pushed is when the push happened, truncated to the second.
	Pushed time.Time

	// BaseOID and HeadOID are the commit hashes pushed. RenderPatchsets
	// writes them abbreviated to 7 characters, and ParsePatchsets
	// returns that abbreviated form.
	BaseOID, HeadOID git.Hash

	// DiffLink compares this push's head against the previous push's
	// head (a literal two-dot diff: every commit that changed,
	// including ones introduced purely by a rebase onto a new base).
	DiffLink string

	// UpstreamDiffLink compares this push's head against the previous
	// push's head using GitHub's three-dot ("...") compare, which
	// diffs against the merge base and so naturally excludes changes
	// introduced solely by the base moving underneath the topic.
	UpstreamDiffLink string

	// TrackedLabels, TrackedReviewers, and TrackedAssignees record the
	// labels, reviewers, and assignees the topic asked for as of this
	// push. They are written for the record only: no later run reads
	// them back, and the reconciler never removes metadata from a PR.
	TrackedLabels, TrackedReviewers, TrackedAssignees []string
}

// RenderPatchsets renders the full patchsets comment body: a preamble
// plus an append-only Markdown table, one row per entry in rows (oldest
// first). The tool-managed metadata for the latest row is repeated in a
// trailing machine-readable block so the next run can parse it back out
// without re-deriving it from the live PR.
func RenderPatchsets(rows []PatchsetRow) string {
	var buf strings.Builder
	buf.WriteString(PatchsetsMarker)
	buf.WriteString("\n## Patchsets\n\n")
	buf.WriteString("| # | Date | Base | Head | Diff | Diff vs. upstream |\n")
	buf.WriteString("|---|------|------|------|------|--------------------|\n")
	for _, r := range rows {
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s | %s |\n",
			r.Index,
			r.Pushed.UTC().Format(time.RFC3339),
			shortOID(r.BaseOID),
			shortOID(r.HeadOID),
			link(r.DiffLink, "diff"),
			link(r.UpstreamDiffLink, "diff"),
		)
	}

	if n := len(rows); n > 0 {
		last := rows[n-1]
		buf.WriteString("\n<!--\ntool_managed:\n")
		fmt.Fprintf(&buf, "  labels: %s\n", joinOrNone(last.TrackedLabels))
		fmt.Fprintf(&buf, "  reviewers: %s\n", joinOrNone(last.TrackedReviewers))
		fmt.Fprintf(&buf, "  assignees: %s\n", joinOrNone(last.TrackedAssignees))
		buf.WriteString("-->\n")
	}

	return buf.String()
}

func link(url, text string) string {
	if url == "" {
		return "-"
	}
	return fmt.Sprintf("[%s](%s)", text, url)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ",")
}

func shortOID(h git.Hash) string {
	s := string(h)
	if len(s) > 7 {
		return s[:7]
	}
	return s
}

var _rowPattern = regexp.MustCompile(
	`^\| *(\d+) *\| *(\S+) *\| *(\S+) *\| *(\S+) *\| *(.*?) *\| *(.*?) *\|$`,
)

var _linkPattern = regexp.MustCompile(`^\[.*\]\((.*)\)$`)

// ParsePatchsets recovers the rows encoded by a prior call to
// RenderPatchsets, in the same order: rendering then parsing a patchsets
// comment returns the original rows, except that BaseOID and HeadOID
// come back abbreviated to 7 characters.
//
// Tool-managed metadata is only recoverable for the last row, since
// that is all RenderPatchsets persists; earlier rows come back with nil
// Tracked* fields.
func ParsePatchsets(body string) ([]PatchsetRow, error) {
	var rows []PatchsetRow
	for _, line := range strings.Split(body, "\n") {
		m := _rowPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue // header separator row, or similar non-data line
		}

		pushed, err := time.Parse(time.RFC3339, m[2])
		if err != nil {
			return nil, fmt.Errorf("parse row %d: pushed time: %w", idx, err)
		}

		rows = append(rows, PatchsetRow{
			Index:            idx,
			Pushed:           pushed,
			BaseOID:          git.Hash(m[3]),
			HeadOID:          git.Hash(m[4]),
			DiffLink:         parseLink(m[5]),
			UpstreamDiffLink: parseLink(m[6]),
		})
	}

	if len(rows) > 0 {
		labels, reviewers, assignees := parseTrackedBlock(body)
		rows[len(rows)-1].TrackedLabels = labels
		rows[len(rows)-1].TrackedReviewers = reviewers
		rows[len(rows)-1].TrackedAssignees = assignees
	}

	return rows, nil
}

func parseLink(cell string) string {
	if cell == "-" || cell == "" {
		return ""
	}
	if m := _linkPattern.FindStringSubmatch(cell); m != nil {
		return m[1]
	}
	return ""
}

var _trackedFieldPattern = regexp.MustCompile(`(?m)^\s*(labels|reviewers|assignees):\s*(.*)$`)

func parseTrackedBlock(body string) (labels, reviewers, assignees []string) {
	for _, m := range _trackedFieldPattern.FindAllStringSubmatch(body, -1) {
		items := splitTracked(m[2])
		switch m[1] {
		case "labels":
			labels = items
		case "reviewers":
			reviewers = items
		case "assignees":
			assignees = items
		}
	}
	return labels, reviewers, assignees
}

func splitTracked(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "none" {
		return nil
	}
	return strings.Split(raw, ",")
}
