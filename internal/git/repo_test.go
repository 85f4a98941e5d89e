package git

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewFakeRepository builds a Repository backed by a throwaway .git
// directory (so path-resolving commands like gitCmd.Dir still have
// somewhere to run) and the given execer, so its git invocations can
// be intercepted with a MockExecer.
func NewFakeRepository(t testing.TB, dir string, exec execer) *Repository {
	t.Helper()

	if dir == "" {
		dir = t.TempDir()
	}
	gitDir := filepath.Join(dir, ".git")
	if err := os.Mkdir(gitDir, 0o755); err != nil {
		require.ErrorIs(t, err, os.ErrExist)
	}

	return newRepository(dir, gitDir, log.New(io.Discard), exec)
}

// SetConflictStyle sets the conflict marker style that MergeTree asks
// git to use for req.
func SetConflictStyle(req *MergeTreeRequest, style string) {
	req.conflictStyle = style
}

func TestExtraConfig_Args(t *testing.T) {
	tests := []struct {
		name string
		give extraConfig
		want []string
	}{
		{name: "empty"},
		{
			name: "editor",
			give: extraConfig{Editor: "vim"},
			want: []string{"-c", "core.editor=vim"},
		},
		{
			name: "mergeConflictStyle",
			give: extraConfig{MergeConflictStyle: "zdiff3"},
			want: []string{"-c", "merge.conflictstyle=zdiff3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.give.Args()
			assert.Equal(t, tt.want, got)
		})
	}
}
