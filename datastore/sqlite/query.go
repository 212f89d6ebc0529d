/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite

import (
	"math"
	"strconv"
	"strings"

	"github.com/suparena/dataaccess/query"
)

// builder accumulates SQL text and its positional arguments.
type builder struct {
	sb   strings.Builder
	args []any
}

func (b *builder) write(s string, args ...any) {
	b.sb.WriteString(s)
	b.args = append(b.args, args...)
}

func jsonPath(field string) string {
	return `$."` + field + `"`
}

func selectStatement(entityName string, params query.Params) (string, []any) {
	b := &builder{}
	b.write(`SELECT storage_id, data FROM records WHERE entity_name = ?`, entityName)
	if params.Predicate != nil {
		b.write(` AND `)
		writePredicate(b, params.Predicate)
	}

	b.write(` ORDER BY `)
	for _, s := range params.Sort {
		dir := " ASC"
		if s.Direction == query.Descending {
			dir = " DESC"
		}
		path := jsonPath(s.Field)
		b.write(`CASE json_type(data, ?) WHEN 'true' THEN 1 WHEN 'false' THEN 1 WHEN 'integer' THEN 2 WHEN 'real' THEN 2 WHEN 'text' THEN 3 WHEN 'array' THEN 4 WHEN 'object' THEN 4 ELSE 0 END`+dir+`, `, path)
		b.write(`json_extract(data, ?)`+dir+`, `, path)
	}
	b.write(`rowid`)

	limit, offset := -1, 0
	if params.Limit != nil && *params.Limit >= 0 {
		limit = *params.Limit
	}
	if params.Offset != nil && *params.Offset > 0 {
		offset = *params.Offset
	}
	b.write(` LIMIT ? OFFSET ?`, limit, offset)
	return b.sb.String(), b.args
}

func countStatement(entityName string, predicate *query.Predicate) (string, []any) {
	b := &builder{}
	b.write(`SELECT COUNT(*) FROM records WHERE entity_name = ?`, entityName)
	if predicate != nil {
		b.write(` AND `)
		writePredicate(b, predicate)
	}
	return b.sb.String(), b.args
}

var comparisons = map[query.Operator]string{
	query.Equal:              "=",
	query.NotEqual:           "<>",
	query.LessThan:           "<",
	query.LessThanOrEqual:    "<=",
	query.GreaterThan:        ">",
	query.GreaterThanOrEqual: ">=",
}

// writePredicate emits a condition that is true only for records whose
// field is present, non-null and satisfies p.
func writePredicate(b *builder, p *query.Predicate) {
	path := jsonPath(p.Field)

	switch p.Operator {
	case query.BeginsWith:
		b.write(`(instr(`)
		writeText(b, path)
		b.write(`, ?) = 1)`, p.Value)
		return
	case query.Contains:
		b.write(`(CASE WHEN json_type(data, ?) = 'array' THEN EXISTS (SELECT 1 FROM json_each(data, ?) AS j WHERE `, path, path)
		b.write(`(j.type = 'text' AND j.value = ?)`, p.Value)
		if n, ok := numberArg(p.Value); ok {
			b.write(` OR (j.type IN ('integer', 'real') AND j.value = ?)`, n)
		}
		if v, err := strconv.ParseBool(p.Value); err == nil {
			b.write(` OR (j.type IN ('true', 'false') AND j.value = ?)`, boolInt(v))
		}
		b.write(`) ELSE instr(`)
		writeText(b, path)
		b.write(`, ?) > 0 END)`, p.Value)
		return
	}

	op := comparisons[p.Operator]
	b.write(`(CASE json_type(data, ?)`, path)
	b.write(` WHEN 'text' THEN json_extract(data, ?) `+op+` ?`, path, p.Value)
	if n, ok := numberArg(p.Value); ok {
		b.write(` WHEN 'integer' THEN json_extract(data, ?) `+op+` ?`, path, n)
		b.write(` WHEN 'real' THEN json_extract(data, ?) `+op+` ?`, path, n)
	}
	if v, err := strconv.ParseBool(p.Value); err == nil {
		b.write(` WHEN 'true' THEN 1 `+op+` ?`, boolInt(v))
		b.write(` WHEN 'false' THEN 0 `+op+` ?`, boolInt(v))
	}
	b.write(` ELSE 0 END)`)
}

// writeText emits the field rendered as text, or NULL when it is missing,
// null or structured.
func writeText(b *builder, path string) {
	b.write(`(CASE json_type(data, ?) WHEN 'true' THEN 'true' WHEN 'false' THEN 'false' `+
		`WHEN 'text' THEN json_extract(data, ?) `+
		`WHEN 'integer' THEN CAST(json_extract(data, ?) AS TEXT) `+
		`WHEN 'real' THEN CAST(json_extract(data, ?) AS TEXT) END)`,
		path, path, path, path)
}

// numberArg binds a numeric literal. Integers bind as int64 so SQLite
// compares them with stored integers exactly.
func numberArg(lit string) (any, bool) {
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsNaN(f) {
		return nil, false
	}
	return f, true
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
