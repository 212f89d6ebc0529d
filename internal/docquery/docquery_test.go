/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docquery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/dataaccess/query"
)

func docs() []Doc {
	return []Doc{
		{"id": "1", "title": "write design", "priority": float64(3), "done": false, "tags": []any{"a", "b"}},
		{"id": "2", "title": "review", "priority": float64(10), "done": true},
		{"id": "3", "title": "write tests", "priority": float64(3), "done": false, "tags": nil},
		{"id": "10", "title": "ship"},
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		p    *query.Predicate
		want []int
	}{
		{"nil matches all", nil, []int{0, 1, 2, 3}},
		{"string equal", query.Eq("id", "1"), []int{0}},
		{"string not equal skips missing", query.Ne("priority", "3"), []int{1}},
		{"numeric compare", query.Gt("priority", "4"), []int{1}},
		{"numeric is not lexical", query.Lt("priority", "10"), []int{0, 2}},
		{"string compare is lexical", query.Lt("id", "2"), []int{0, 3}},
		{"le", query.Le("priority", "3"), []int{0, 2}},
		{"ge", query.Ge("priority", "3"), []int{0, 1, 2}},
		{"bool", query.Eq("done", "true"), []int{1}},
		{"contains substring", query.Like("title", "write"), []int{0, 2}},
		{"contains element", query.Like("tags", "b"), []int{0}},
		{"begins with", query.Prefix("title", "re"), []int{1}},
		{"non numeric literal on number", query.Eq("priority", "high"), []int{}},
		{"missing field", query.Eq("owner", "me"), []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter(docs(), tt.p))
		})
	}
}

func TestSelect(t *testing.T) {
	all := docs()

	t.Run("SortDescThenAsc", func(t *testing.T) {
		got := Select(all, query.NewParams(query.OrderBy(query.Desc("priority"), query.Asc("title"))))
		assert.Equal(t, []int{1, 0, 2, 3}, got, "missing priority sorts as null, last in DESC")
	})

	t.Run("StableWithoutSort", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2, 3}, Select(all, query.Params{}))
	})

	t.Run("Window", func(t *testing.T) {
		assert.Equal(t, []int{1, 2}, Select(all, query.NewParams(query.Offset(1), query.Limit(2))))
		assert.Equal(t, []int{}, Select(all, query.NewParams(query.Offset(9))))
		assert.Equal(t, []int{}, Select(all, query.NewParams(query.Limit(0))))
		assert.Equal(t, []int{0, 1, 2, 3}, Select(all, query.NewParams(query.Limit(-1), query.Offset(-2))))
	})
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 0, Compare(nil, nil))
	assert.Negative(t, Compare(nil, false))
	assert.Negative(t, Compare(false, true))
	assert.Negative(t, Compare(true, float64(0)))
	assert.Negative(t, Compare(float64(2), float64(10)))
	assert.Negative(t, Compare(float64(99), "1"))
	assert.Positive(t, Compare("b", "a"))
}

func TestLargeIntegers(t *testing.T) {
	doc, err := Decode([]byte(`{"id":"big","priority":9007199254740993}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), doc["priority"])

	all := []Doc{doc}
	assert.Equal(t, []int{0}, Filter(all, query.Eq("priority", "9007199254740993")))
	assert.Empty(t, Filter(all, query.Eq("priority", "9007199254740992")))
	assert.Equal(t, []int{0}, Filter(all, query.Gt("priority", "9007199254740992")))
	assert.Equal(t, []int{0}, Filter(all, query.Eq("priority", "9007199254740993.0")))
	assert.Empty(t, Filter(all, query.Eq("priority", "NaN")))

	assert.Positive(t, Compare(json.Number("9007199254740993"), json.Number("9007199254740992")))
	assert.Negative(t, Compare(json.Number("2.5"), float64(3)))
	assert.Equal(t, 0, Compare(json.Number("1e2"), json.Number("100")))
}

func TestDecode(t *testing.T) {
	_, err := Decode([]byte("{"))
	assert.Error(t, err)

	doc, err := Decode([]byte(`{"n":1.5,"tags":[1,"a"],"nested":{"k":2}}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("1.5"), doc["n"])
	assert.Equal(t, []any{json.Number("1"), "a"}, doc["tags"])
}
