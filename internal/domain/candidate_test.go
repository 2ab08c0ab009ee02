package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidatePoolUpsertKeepsOneEntryPerID(t *testing.T) {
	t.Parallel()

	pool := NewCandidatePool()
	assert.True(t, pool.Upsert(Candidate{ID: "a", Name: "Ann"}))
	assert.True(t, pool.Upsert(Candidate{ID: "b", Name: "Bea"}))
	assert.False(t, pool.Upsert(Candidate{ID: "a", Name: "Ann v2", Raw: json.RawMessage(`{"_id":"a","bio":"new"}`)}))

	require.Equal(t, 2, pool.Len())

	got, ok := pool.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Ann v2", got.Name)
	assert.JSONEq(t, `{"_id":"a","bio":"new"}`, string(got.Raw))
}

func TestCandidatePoolMergeAcrossRoundsLastSeenWins(t *testing.T) {
	t.Parallel()

	rounds := [][]Candidate{
		{{ID: "1", Name: "first"}, {ID: "2"}},
		{{ID: "2", Name: "second"}, {ID: "3"}},
		{{ID: "1", Name: "third"}},
	}

	pool := NewCandidatePool()
	var added []int
	for _, round := range rounds {
		added = append(added, pool.Merge(round))
	}

	assert.Equal(t, []int{2, 1, 0}, added)
	assert.Equal(t, 3, pool.Len())

	ids := make([]CandidateID, 0, pool.Len())
	for _, candidate := range pool.Candidates() {
		ids = append(ids, candidate.ID)
	}
	assert.Equal(t, []CandidateID{"1", "2", "3"}, ids)

	first, _ := pool.Get("1")
	assert.Equal(t, "third", first.Name)
	second, _ := pool.Get("2")
	assert.Equal(t, "second", second.Name)
}

func TestCandidatePoolZeroValueIsUsable(t *testing.T) {
	t.Parallel()

	var pool CandidatePool
	assert.Equal(t, 0, pool.Len())
	assert.True(t, pool.Upsert(Candidate{ID: "x"}))
	assert.Equal(t, 1, pool.Len())

	var nilPool *CandidatePool
	assert.Equal(t, 0, nilPool.Len())
	assert.Empty(t, nilPool.Candidates())
}
