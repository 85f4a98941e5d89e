package revup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tb(topic, base string) *TopicBranch {
	return &TopicBranch{Topic: &Topic{Name: topic}, Base: base, Name: topic + "@" + base}
}

func TestPruneEmpty_SkipsDroppedParent(t *testing.T) {
	a := tb("a", "main")
	a.ParentRef = "main"
	a.Empty = true

	b := tb("b", "main")
	b.ParentBranch = a
	b.ParentRef = a.Name

	c := tb("c", "main")
	c.ParentBranch = b
	c.ParentRef = b.Name

	g := NewGraph([]*TopicBranch{a, b, c})
	pruned := PruneEmpty(g)

	_, ok := pruned.Lookup(Key{Topic: "a", Base: "main"})
	assert.False(t, ok, "empty branch a should be dropped")

	gotB, ok := pruned.Lookup(Key{Topic: "b", Base: "main"})
	require.True(t, ok)
	assert.Nil(t, gotB.ParentBranch, "b should now be relative to a's own parent (main tip)")
	assert.Equal(t, "main", gotB.ParentRef)

	gotC, ok := pruned.Lookup(Key{Topic: "c", Base: "main"})
	require.True(t, ok)
	assert.Same(t, gotB, gotC.ParentBranch)
}

func TestPruneEmpty_ChainOfEmptyAncestors(t *testing.T) {
	a := tb("a", "main")
	a.ParentRef = "main"
	a.Empty = true

	b := tb("b", "main")
	b.ParentBranch = a
	b.ParentRef = a.Name
	b.Empty = true

	c := tb("c", "main")
	c.ParentBranch = b
	c.ParentRef = b.Name

	g := NewGraph([]*TopicBranch{a, b, c})
	pruned := PruneEmpty(g)

	gotC, ok := pruned.Lookup(Key{Topic: "c", Base: "main"})
	require.True(t, ok)
	assert.Nil(t, gotC.ParentBranch)
	assert.Equal(t, "main", gotC.ParentRef)
}

func TestPruneEmpty_NoneEmpty(t *testing.T) {
	a := tb("a", "main")
	a.ParentRef = "main"
	b := tb("b", "main")
	b.ParentBranch = a
	b.ParentRef = a.Name

	g := NewGraph([]*TopicBranch{a, b})
	pruned := PruneEmpty(g)

	var n int
	for range pruned.All() {
		n++
	}
	assert.Equal(t, 2, n)
}
