// Package directive parses the commit-message tags that drive topic
// grouping and pull-request metadata: lines of the form
// "Name: value1, value2, ..." found anywhere in a commit body.
package directive

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies a recognized directive name, normalized to its
// canonical singular, lowercased, hyphenated form.
type Kind string

// Recognized directive kinds.
const (
	Topic          Kind = "topic"
	Relative       Kind = "relative"
	Branch         Kind = "branch"
	Reviewer       Kind = "reviewer"
	Assignee       Kind = "assignee"
	Label          Kind = "label"
	Uploader       Kind = "uploader"
	BranchFormat   Kind = "branch-format"
	RelativeBranch Kind = "relative-branch"
	UpdatePRBody   Kind = "update-pr-body"
)

// multiValued is the set of directives whose values union across
// duplicate occurrences and across commits in the same topic.
var multiValued = map[Kind]bool{
	Branch:   true,
	Reviewer: true,
	Assignee: true,
	Label:    true,
}

// singularOf maps every accepted spelling (singular and plural) of a
// recognized directive name, lowercased, to its canonical Kind.
var singularOf = map[string]Kind{
	"topic": Topic, "topics": Topic,
	"relative": Relative, "relatives": Relative,
	"branch": Branch, "branches": Branch,
	"reviewer": Reviewer, "reviewers": Reviewer,
	"assignee": Assignee, "assignees": Assignee,
	"label": Label, "labels": Label,
	"uploader": Uploader, "uploaders": Uploader,
	"branch-format": BranchFormat, "branch-formats": BranchFormat,
	"relative-branch": RelativeBranch, "relative-branches": RelativeBranch,
	"update-pr-body": UpdatePRBody, "update-pr-bodies": UpdatePRBody,
}

var directiveLineRe = regexp.MustCompile(`^([A-Za-z][A-Za-z-]*):\s*(.*)$`)

// Set is the parsed directives from a single commit message, plus the
// message body with recognized directive lines optionally stripped.
type Set struct {
	Topic          string
	Relative       string
	Branches       []string
	Reviewers      []string
	Assignees      []string
	Labels         []string
	Uploader       string
	BranchFormat   string
	RelativeBranch string
	UpdatePRBody   *bool

	// TrimmedBody is Body with recognized directive lines removed,
	// used when --trim-tags is set.
	TrimmedBody string

	// Warnings lists non-fatal issues found while parsing, such as
	// unrecognized directive names (which are preserved verbatim in
	// the body but otherwise ignored).
	Warnings []string
}

// Values returns the raw multi-valued-or-not values recorded for kind,
// in first-appearance order. Single-valued kinds return at most one
// element.
func (s *Set) Values(kind Kind) []string {
	switch kind {
	case Topic:
		return nonEmpty(s.Topic)
	case Relative:
		return nonEmpty(s.Relative)
	case Branch:
		return s.Branches
	case Reviewer:
		return s.Reviewers
	case Assignee:
		return s.Assignees
	case Label:
		return s.Labels
	case Uploader:
		return nonEmpty(s.Uploader)
	case BranchFormat:
		return nonEmpty(s.BranchFormat)
	case RelativeBranch:
		return nonEmpty(s.RelativeBranch)
	case UpdatePRBody:
		if s.UpdatePRBody == nil {
			return nil
		}
		if *s.UpdatePRBody {
			return []string{"true"}
		}
		return []string{"false"}
	default:
		return nil
	}
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// Parse extracts directives from a commit message body.
//
// Duplicate occurrences of a multi-valued directive (Branches,
// Reviewers, Assignees, Labels) are unioned, preserving first-appearance
// order of distinct values. A duplicate occurrence of a single-valued
// directive (Topic, Relative, Uploader, Branch-Format, Relative-Branch,
// Update-Pr-Body) is an error. A directive line with an empty
// right-hand side is an error. Unrecognized directive-shaped lines
// produce a warning and are left untouched in the body.
func Parse(body string) (*Set, error) {
	set := &Set{}

	seen := make(map[Kind]bool) // single-valued dedup
	seenValues := make(map[Kind]map[string]bool)

	var kept []string
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()

		m := directiveLineRe.FindStringSubmatch(line)
		if m == nil {
			kept = append(kept, line)
			continue
		}

		name := strings.ToLower(m[1])
		kind, ok := singularOf[name]
		if !ok {
			set.Warnings = append(set.Warnings,
				fmt.Sprintf("unrecognized directive %q, passing through", m[1]))
			kept = append(kept, line)
			continue
		}

		rhs := strings.TrimSpace(m[2])
		if rhs == "" {
			return nil, fmt.Errorf("directive %q has an empty value", m[1])
		}

		values := splitValues(rhs)

		if multiValued[kind] {
			if seenValues[kind] == nil {
				seenValues[kind] = make(map[string]bool)
			}
			for _, v := range values {
				if seenValues[kind][v] {
					continue
				}
				seenValues[kind][v] = true
				appendMulti(set, kind, v)
			}
			continue
		}

		if seen[kind] {
			return nil, fmt.Errorf("directive %q specified more than once", m[1])
		}
		seen[kind] = true
		if len(values) != 1 {
			return nil, fmt.Errorf("directive %q must have exactly one value, got %d", m[1], len(values))
		}
		if err := setSingle(set, kind, values[0]); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan commit body: %w", err)
	}

	set.TrimmedBody = strings.TrimSpace(strings.Join(kept, "\n"))
	return set, nil
}

func splitValues(rhs string) []string {
	parts := strings.Split(rhs, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			values = append(values, p)
		}
	}
	return values
}

func appendMulti(set *Set, kind Kind, v string) {
	switch kind {
	case Branch:
		set.Branches = append(set.Branches, v)
	case Reviewer:
		set.Reviewers = append(set.Reviewers, v)
	case Assignee:
		set.Assignees = append(set.Assignees, v)
	case Label:
		set.Labels = append(set.Labels, v)
	}
}

func setSingle(set *Set, kind Kind, v string) error {
	switch kind {
	case Topic:
		set.Topic = v
	case Relative:
		set.Relative = v
	case Uploader:
		set.Uploader = v
	case BranchFormat:
		set.BranchFormat = v
	case RelativeBranch:
		set.RelativeBranch = v
	case UpdatePRBody:
		switch strings.ToLower(v) {
		case "true":
			b := true
			set.UpdatePRBody = &b
		case "false":
			b := false
			set.UpdatePRBody = &b
		default:
			return fmt.Errorf("update-pr-body must be true or false, got %q", v)
		}
	}
	return nil
}

// Format renders directives built by Parse back into commit-message
// directive lines, one per populated directive, in canonical order.
// Parse(Format(s)) recovers the same structured values (see Set.Values),
// though not necessarily the original line text or ordering relative
// to other content, since Format never reproduces TrimmedBody.
func Format(s *Set) string {
	var b strings.Builder
	writeLine := func(name string, values []string) {
		if len(values) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", name, strings.Join(values, ", "))
	}

	writeLine("Topic", nonEmpty(s.Topic))
	writeLine("Relative", nonEmpty(s.Relative))
	writeLine("Branches", s.Branches)
	writeLine("Reviewers", s.Reviewers)
	writeLine("Assignees", s.Assignees)
	writeLine("Labels", s.Labels)
	writeLine("Uploader", nonEmpty(s.Uploader))
	writeLine("Branch-Format", nonEmpty(s.BranchFormat))
	writeLine("Relative-Branch", nonEmpty(s.RelativeBranch))
	writeLine("Update-Pr-Body", s.Values(UpdatePRBody))

	return strings.TrimSuffix(b.String(), "\n")
}
