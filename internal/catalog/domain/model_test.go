package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSorting_AcceptsNumberAndString(t *testing.T) {
	var p Project
	require.NoError(t, json.Unmarshal([]byte(`{"title":"a","sorting":"12"}`), &p))
	assert.Equal(t, Sorting(12), p.Sorting)

	require.NoError(t, json.Unmarshal([]byte(`{"title":"a","sorting":4}`), &p))
	assert.Equal(t, Sorting(4), p.Sorting)

	err := json.Unmarshal([]byte(`{"sorting":"first"}`), &p)
	assert.Error(t, err)

	out, err := json.Marshal(Category{ID: "c1", Name: "Web", Sorting: 3})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"sorting":3`)
	assert.Contains(t, string(out), `"_id":"c1"`)
	assert.Contains(t, string(out), `"category":"Web"`)
}

func TestStringList_Scan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["go","sql"]`)))
	assert.Equal(t, StringList{"go", "sql"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Equal(t, StringList{}, l)

	require.NoError(t, l.Scan("null"))
	assert.Equal(t, StringList{}, l)

	assert.Error(t, l.Scan(42))

	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestRecordAccessors(t *testing.T) {
	s := SkillGroup{ID: "s1", Category: "Backend", Sorting: 2}
	moved := s.WithSortKey(5)

	assert.Equal(t, 2, s.SortKey())
	assert.Equal(t, 5, moved.SortKey())
	assert.Equal(t, "Backend", moved.CategoryLabel())
	assert.Equal(t, "s1", moved.RecordID())
}
