/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import "fmt"

// Operator is the comparison applied by a Predicate.
type Operator int

const (
	Equal Operator = iota
	NotEqual
	Contains
	BeginsWith
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

var operatorNames = [...]string{
	Equal:              "==",
	NotEqual:           "!=",
	Contains:           "CONTAINS",
	BeginsWith:         "BEGINSWITH",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
}

func (o Operator) String() string {
	if o >= 0 && int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Valid reports whether o is one of the declared operators.
func (o Operator) Valid() bool {
	return o >= Equal && o <= GreaterThanOrEqual
}

// Predicate is a single comparison between a record field and a literal.
// Field names are the keys of the record's JSON encoding.
type Predicate struct {
	Field    string
	Operator Operator
	Value    string
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %q", p.Field, p.Operator, p.Value)
}

// Direction orders a Sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// Sort orders results by one field.
type Sort struct {
	Field     string
	Direction Direction
}

// Params defines the optional constraints of a fetch. A nil field adds no
// constraint. Sorts apply in order, the first one being the primary key.
type Params struct {
	// Predicate filters the records.
	Predicate *Predicate
	// Sort orders the records.
	Sort []Sort
	// Limit caps the number of records returned.
	Limit *int
	// Offset skips leading records.
	Offset *int
}

// Fields returns every field name referenced by p, predicate first.
func (p Params) Fields() []string {
	var fields []string
	if p.Predicate != nil {
		fields = append(fields, p.Predicate.Field)
	}
	for _, s := range p.Sort {
		fields = append(fields, s.Field)
	}
	return fields
}

// Option is a functional option for building Params
type Option func(*Params)

// NewParams returns Params with the given options applied
func NewParams(opts ...Option) Params {
	var p Params
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Where sets the predicate
func Where(predicate *Predicate) Option {
	return func(p *Params) {
		p.Predicate = predicate
	}
}

// OrderBy appends sorts
func OrderBy(sorts ...Sort) Option {
	return func(p *Params) {
		p.Sort = append(p.Sort, sorts...)
	}
}

// Limit caps the result count
func Limit(n int) Option {
	return func(p *Params) {
		p.Limit = &n
	}
}

// Offset skips the first n results
func Offset(n int) Option {
	return func(p *Params) {
		p.Offset = &n
	}
}
