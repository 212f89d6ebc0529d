/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParams(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		p := NewParams()
		assert.Nil(t, p.Predicate)
		assert.Nil(t, p.Sort)
		assert.Nil(t, p.Limit)
		assert.Nil(t, p.Offset)
		assert.Empty(t, p.Fields())
	})

	t.Run("AllOptions", func(t *testing.T) {
		p := NewParams(
			Where(Eq("id", "1")),
			OrderBy(Desc("priority")),
			OrderBy(Asc("title")),
			Limit(10),
			Offset(5),
		)

		require.NotNil(t, p.Predicate)
		assert.Equal(t, Predicate{Field: "id", Operator: Equal, Value: "1"}, *p.Predicate)
		assert.Equal(t, []Sort{{"priority", Descending}, {"title", Ascending}}, p.Sort)
		require.NotNil(t, p.Limit)
		require.NotNil(t, p.Offset)
		assert.Equal(t, 10, *p.Limit)
		assert.Equal(t, 5, *p.Offset)
		assert.Equal(t, []string{"id", "priority", "title"}, p.Fields())
	})
}

func TestPredicateConstructors(t *testing.T) {
	tests := []struct {
		got  *Predicate
		want Operator
	}{
		{Eq("f", "v"), Equal},
		{Ne("f", "v"), NotEqual},
		{Like("f", "v"), Contains},
		{Prefix("f", "v"), BeginsWith},
		{Lt("f", "v"), LessThan},
		{Le("f", "v"), LessThanOrEqual},
		{Gt("f", "v"), GreaterThan},
		{Ge("f", "v"), GreaterThanOrEqual},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, "f", tt.got.Field)
			assert.Equal(t, "v", tt.got.Value)
			assert.Equal(t, tt.want, tt.got.Operator)
			assert.True(t, tt.got.Operator.Valid())
		})
	}
}

func TestStrings(t *testing.T) {
	assert.Equal(t, `title CONTAINS "go"`, Like("title", "go").String())
	assert.Equal(t, "Operator(42)", Operator(42).String())
	assert.False(t, Operator(42).Valid())
	assert.Equal(t, "ASC", Ascending.String())
	assert.Equal(t, "DESC", Descending.String())
}
