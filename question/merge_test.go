package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcq(question string) Item {
	return Item{Type: ModeMCQ, Question: question}
}

func TestMerge_DeduplicatesKeepingFirst(t *testing.T) {
	a := mcq("What is mitosis?")
	a.Answer = "B"
	dup := mcq("  what is MITOSIS? ")
	dup.Answer = "C"

	merged := Merge([][]Item{
		{a, mcq("Second question?")},
		{dup, mcq("Third question?")},
	}, 10)

	require.Len(t, merged, 3)
	assert.Equal(t, "B", merged[0].Answer, "first occurrence wins")
	assert.Equal(t, "Second question?", merged[1].Question)
	assert.Equal(t, "Third question?", merged[2].Question)
}

func TestMerge_PreservesChunkOrder(t *testing.T) {
	merged := Merge([][]Item{
		{mcq("one"), mcq("two")},
		{mcq("three")},
		{mcq("four")},
	}, 10)

	questions := make([]string, len(merged))
	for i, item := range merged {
		questions[i] = item.Question
	}
	assert.Equal(t, []string{"one", "two", "three", "four"}, questions)
}

func TestMerge_TruncatesToTarget(t *testing.T) {
	merged := Merge([][]Item{
		{mcq("one"), mcq("two"), mcq("three")},
		{mcq("four"), mcq("five")},
	}, 3)

	require.Len(t, merged, 3)
	assert.Equal(t, "three", merged[2].Question)
}

func TestMerge_UnderfillIsNotPadded(t *testing.T) {
	merged := Merge([][]Item{{mcq("only one")}}, 5)
	assert.Len(t, merged, 1)
}

func TestMerge_EmptyAndNilChunks(t *testing.T) {
	merged := Merge([][]Item{nil, {}, {mcq("survivor")}}, 5)
	require.Len(t, merged, 1)
	assert.Equal(t, "survivor", merged[0].Question)

	assert.Empty(t, Merge(nil, 5))
	assert.Empty(t, Merge([][]Item{{mcq("x")}}, 0))
}

func TestMerge_Idempotent(t *testing.T) {
	input := [][]Item{{mcq("a"), mcq("b"), mcq("A ")}}

	once := Merge(input, 10)
	twice := Merge([][]Item{once}, 10)
	assert.Equal(t, once, twice)
}
