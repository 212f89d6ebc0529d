/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package docquery evaluates query predicates and sorts against decoded JSON
// documents. Stores that cannot push a query down to their engine use it.
package docquery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/suparena/dataaccess/query"
)

// Doc is a record decoded into generic JSON values. Numbers are kept as
// json.Number so integers beyond float64 precision compare exactly.
type Doc = map[string]any

// Decode decodes a JSON object into a Doc.
func Decode(data []byte) (Doc, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc Doc
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Match reports whether doc satisfies p. A nil predicate matches every
// document; a missing or null field matches nothing.
func Match(doc Doc, p *query.Predicate) bool {
	if p == nil {
		return true
	}
	v, ok := doc[p.Field]
	if !ok || v == nil {
		return false
	}

	switch p.Operator {
	case query.Contains:
		if list, ok := v.([]any); ok {
			for _, item := range list {
				if c, ok := compareLiteral(item, p.Value); ok && c == 0 {
					return true
				}
			}
			return false
		}
		return strings.Contains(literal(v), p.Value)
	case query.BeginsWith:
		return strings.HasPrefix(literal(v), p.Value)
	}

	c, ok := compareLiteral(v, p.Value)
	if !ok {
		return false
	}
	switch p.Operator {
	case query.Equal:
		return c == 0
	case query.NotEqual:
		return c != 0
	case query.LessThan:
		return c < 0
	case query.LessThanOrEqual:
		return c <= 0
	case query.GreaterThan:
		return c > 0
	case query.GreaterThanOrEqual:
		return c >= 0
	}
	return false
}

// Filter returns the indexes of docs matching p, in order.
func Filter(docs []Doc, p *query.Predicate) []int {
	idx := make([]int, 0, len(docs))
	for i, d := range docs {
		if Match(d, p) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Sort orders idx (indexes into docs) by sorts. The sort is stable, so
// records that compare equal keep their incoming order.
func Sort(docs []Doc, idx []int, sorts []query.Sort) {
	if len(sorts) == 0 {
		return
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := docs[idx[i]], docs[idx[j]]
		for _, s := range sorts {
			c := Compare(a[s.Field], b[s.Field])
			if c == 0 {
				continue
			}
			if s.Direction == query.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// Window applies offset and limit to idx. Negative values are treated as
// absent.
func Window(idx []int, limit, offset *int) []int {
	if offset != nil && *offset > 0 {
		if *offset >= len(idx) {
			return idx[:0]
		}
		idx = idx[*offset:]
	}
	if limit != nil && *limit >= 0 && *limit < len(idx) {
		idx = idx[:*limit]
	}
	return idx
}

// Select runs the full pipeline: filter, sort, window.
func Select(docs []Doc, params query.Params) []int {
	idx := Filter(docs, params.Predicate)
	Sort(docs, idx, params.Sort)
	return Window(idx, params.Limit, params.Offset)
}

// Compare orders two JSON values: null first, then booleans, numbers and
// strings; values of the same kind compare naturally.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch av := a.(type) {
	case nil:
		return 0
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case string:
		return strings.Compare(av, b.(string))
	}
	if x, ok := number(a); ok {
		y, _ := number(b)
		c, _ := compareNumbers(x, y)
		return c
	}
	return strings.Compare(literal(a), literal(b))
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case float64, json.Number:
		return 2
	case string:
		return 3
	}
	return 4
}

// compareLiteral compares a document value with a predicate literal. Numbers
// compare numerically when the literal parses as one.
func compareLiteral(v any, lit string) (int, bool) {
	switch tv := v.(type) {
	case float64, json.Number:
		if f, err := strconv.ParseFloat(lit, 64); err != nil || math.IsNaN(f) {
			return 0, false
		}
		n, _ := number(tv)
		return compareNumbers(n, lit)
	case bool:
		b, err := strconv.ParseBool(lit)
		if err != nil {
			return 0, false
		}
		return Compare(tv, b), true
	case string:
		return strings.Compare(tv, lit), true
	}
	return 0, false
}

// number returns the decimal text of a JSON number.
func number(v any) (string, bool) {
	switch tv := v.(type) {
	case json.Number:
		return tv.String(), true
	case float64:
		return strconv.FormatFloat(tv, 'g', -1, 64), true
	}
	return "", false
}

// compareNumbers compares two decimal numbers exactly. Integers that fit in
// int64 take the fast path.
func compareNumbers(a, b string) (int, bool) {
	if x, err := strconv.ParseInt(a, 10, 64); err == nil {
		if y, err := strconv.ParseInt(b, 10, 64); err == nil {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			}
			return 0, true
		}
	}
	x, okx := new(big.Rat).SetString(a)
	y, oky := new(big.Rat).SetString(b)
	if okx && oky {
		return x.Cmp(y), true
	}
	fx, errx := strconv.ParseFloat(a, 64)
	fy, erry := strconv.ParseFloat(b, 64)
	if errx != nil || erry != nil {
		return 0, false
	}
	return compareFloat(fx, fy), true
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func literal(v any) string {
	switch tv := v.(type) {
	case string:
		return tv
	case json.Number:
		return tv.String()
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(tv)
	}
	return fmt.Sprint(v)
}
