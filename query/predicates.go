/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

// Eq builds field == value
func Eq(field, value string) *Predicate {
	return &Predicate{Field: field, Operator: Equal, Value: value}
}

// Ne builds field != value
func Ne(field, value string) *Predicate {
	return &Predicate{Field: field, Operator: NotEqual, Value: value}
}

// Like builds field CONTAINS value
func Like(field, value string) *Predicate {
	return &Predicate{Field: field, Operator: Contains, Value: value}
}

// Prefix builds field BEGINSWITH value
func Prefix(field, value string) *Predicate {
	return &Predicate{Field: field, Operator: BeginsWith, Value: value}
}

// Lt builds field < value
func Lt(field, value string) *Predicate {
	return &Predicate{Field: field, Operator: LessThan, Value: value}
}

// Le builds field <= value
func Le(field, value string) *Predicate {
	return &Predicate{Field: field, Operator: LessThanOrEqual, Value: value}
}

// Gt builds field > value
func Gt(field, value string) *Predicate {
	return &Predicate{Field: field, Operator: GreaterThan, Value: value}
}

// Ge builds field >= value
func Ge(field, value string) *Predicate {
	return &Predicate{Field: field, Operator: GreaterThanOrEqual, Value: value}
}

// Asc sorts field in ascending order
func Asc(field string) Sort {
	return Sort{Field: field, Direction: Ascending}
}

// Desc sorts field in descending order
func Desc(field string) Sort {
	return Sort{Field: field, Direction: Descending}
}
