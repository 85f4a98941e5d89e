package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/gs/internal/git"
)

func TestRenderPatchsets_RoundTrip(t *testing.T) {
	rows := []PatchsetRow{
		{
			Index:    1,
			Pushed:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			BaseOID:  "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			HeadOID:  "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
			DiffLink: "",
		},
		{
			Index:            2,
			Pushed:           time.Date(2026, 1, 2, 4, 0, 0, 0, time.UTC),
			BaseOID:          "cccccccccccccccccccccccccccccccccccccccc",
			HeadOID:          "dddddddddddddddddddddddddddddddddddddddd",
			DiffLink:         "https://github.com/o/r/compare/bbbbbbb..ddddddd",
			UpstreamDiffLink: "https://github.com/o/r/compare/bbbbbbb...ddddddd",
			TrackedLabels:    []string{"needs-review"},
			TrackedReviewers: []string{"octocat"},
			TrackedAssignees: nil,
		},
	}

	body := RenderPatchsets(rows)
	got, err := ParsePatchsets(body)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, rows[0].Index, got[0].Index)
	assert.True(t, rows[0].Pushed.Equal(got[0].Pushed))
	// The table shows abbreviated hashes, so that is what comes back.
	assert.Equal(t, git.Hash(shortOID(rows[0].BaseOID)), got[0].BaseOID)
	assert.Equal(t, git.Hash(shortOID(rows[0].HeadOID)), got[0].HeadOID)
	assert.Equal(t, "", got[0].DiffLink)

	assert.Equal(t, rows[1].Index, got[1].Index)
	assert.True(t, rows[1].Pushed.Equal(got[1].Pushed))
	assert.Equal(t, rows[1].DiffLink, got[1].DiffLink)
	assert.Equal(t, rows[1].UpstreamDiffLink, got[1].UpstreamDiffLink)
	assert.Equal(t, []string{"needs-review"}, got[1].TrackedLabels)
	assert.Equal(t, []string{"octocat"}, got[1].TrackedReviewers)
	assert.Nil(t, got[1].TrackedAssignees)
}

func TestRenderPatchsets_Empty(t *testing.T) {
	body := RenderPatchsets(nil)
	assert.Contains(t, body, PatchsetsMarker)

	got, err := ParsePatchsets(body)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestShortOID(t *testing.T) {
	assert.Equal(t, "abcdefg", shortOID(git.Hash("abcdefg1234")))
	assert.Equal(t, "abc", shortOID(git.Hash("abc")))
}
