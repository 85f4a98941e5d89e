package revup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.abhg.dev/gs/internal/git"
)

func TestPatchSetEqual(t *testing.T) {
	mk := func(path, dst string) git.RawTreeChange {
		return git.RawTreeChange{Path: path, Status: "M", DstHash: git.Hash(dst)}
	}

	a := []PatchEntry{{Subject: "Add foo", Changes: []git.RawTreeChange{mk("foo.go", "aaa")}}}
	b := []PatchEntry{{Subject: "Add foo", Changes: []git.RawTreeChange{mk("foo.go", "aaa")}}}
	assert.True(t, patchSetEqual(a, b))

	c := []PatchEntry{{Subject: "Add foo", Changes: []git.RawTreeChange{mk("foo.go", "bbb")}}}
	assert.False(t, patchSetEqual(a, c), "differing content should not compare equal")

	d := []PatchEntry{{Subject: "Add foo!", Changes: []git.RawTreeChange{mk("foo.go", "aaa")}}}
	assert.False(t, patchSetEqual(a, d), "differing subject should not compare equal")

	assert.False(t, patchSetEqual(a, nil), "differing length should not compare equal")
}

func TestPatchSetEqual_IgnoresSourceBlobHash(t *testing.T) {
	a := []PatchEntry{{
		Subject: "Add foo",
		Changes: []git.RawTreeChange{{Path: "foo.go", Status: "M", SrcHash: "old1", DstHash: "new"}},
	}}
	b := []PatchEntry{{
		Subject: "Add foo",
		Changes: []git.RawTreeChange{{Path: "foo.go", Status: "M", SrcHash: "old2", DstHash: "new"}},
	}}
	assert.True(t, patchSetEqual(a, b), "a rebase onto a different base tree is still the same patch")
}
