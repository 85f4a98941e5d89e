package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *Set
	}{
		{
			name: "Simple",
			body: "Fix the thing\n\nTopic: foo",
			want: &Set{Topic: "foo", TrimmedBody: "Fix the thing"},
		},
		{
			name: "RelativeStack",
			body: "Topic: bar\nRelative: foo",
			want: &Set{Topic: "bar", Relative: "foo"},
		},
		{
			name: "MultiValuedPlural",
			body: "Topic: fix\nReviewers: alice, bob",
			want: &Set{Topic: "fix", Reviewers: []string{"alice", "bob"}},
		},
		{
			name: "MultiValuedSingularSpelling",
			body: "Topic: fix\nReviewer: alice",
			want: &Set{Topic: "fix", Reviewers: []string{"alice"}},
		},
		{
			name: "DedupUnion",
			body: "Labels: bug\nLabels: bug, draft",
			want: &Set{Labels: []string{"bug", "draft"}},
		},
		{
			name: "UpdatePRBody",
			body: "Update-Pr-Body: true",
			want: &Set{UpdatePRBody: boolPtr(true)},
		},
		{
			name: "CaseInsensitiveName",
			body: "TOPIC: fix",
			want: &Set{Topic: "fix"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Topic, got.Topic)
			assert.Equal(t, tt.want.Relative, got.Relative)
			assert.Equal(t, tt.want.Reviewers, got.Reviewers)
			assert.Equal(t, tt.want.Labels, got.Labels)
			if tt.want.UpdatePRBody != nil {
				require.NotNil(t, got.UpdatePRBody)
				assert.Equal(t, *tt.want.UpdatePRBody, *got.UpdatePRBody)
			}
			if tt.want.TrimmedBody != "" {
				assert.Equal(t, tt.want.TrimmedBody, got.TrimmedBody)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"EmptyValue", "Topic:"},
		{"DuplicateSingleValued", "Topic: foo\nTopic: bar"},
		{"DuplicateSingleValuedSameValue", "Topic: foo\nTopic: foo"},
		{"BadBool", "Update-Pr-Body: maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.body)
			assert.Error(t, err)
		})
	}
}

func TestParse_UnknownDirectivePassesThrough(t *testing.T) {
	got, err := Parse("Topic: foo\nSigned-off-by: alice <a@example.com>")
	require.NoError(t, err)
	assert.Equal(t, "foo", got.Topic)
	assert.NotEmpty(t, got.Warnings)
	assert.Contains(t, got.TrimmedBody, "Signed-off-by: alice <a@example.com>")
}

func boolPtr(b bool) *bool { return &b }

// TestRoundTrip checks Parse(Format(s)) == s for directive sets built
// directly (not parsed from arbitrary text, since Format never
// reconstructs TrimmedBody or duplicate-occurrence warnings).
func TestRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ident := rapid.StringMatching(`[a-z][a-z0-9_-]{0,12}`)

		s := &Set{
			Topic:    rapid.OneOf(rapid.Just(""), ident).Draw(t, "topic"),
			Relative: rapid.OneOf(rapid.Just(""), ident).Draw(t, "relative"),
			Branches: rapid.SliceOfDistinct(ident, func(s string) string { return s }).Draw(t, "branches"),
			Reviewers: rapid.SliceOfDistinct(ident, func(s string) string { return s }).
				Draw(t, "reviewers"),
		}
		// Format writes no line for an empty list, so Parse leaves it
		// nil; build the Set the same way.
		if len(s.Branches) == 0 {
			s.Branches = nil
		}
		if len(s.Reviewers) == 0 {
			s.Reviewers = nil
		}

		formatted := Format(s)
		got, err := Parse(formatted)
		require.NoError(t, err)

		assert.Equal(t, s.Topic, got.Topic)
		assert.Equal(t, s.Relative, got.Relative)
		assert.Equal(t, s.Branches, got.Branches)
		assert.Equal(t, s.Reviewers, got.Reviewers)
	})
}
