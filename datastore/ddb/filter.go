/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/dataaccess/query"
)

// filter is a scan FilterExpression with its placeholder maps.
type filter struct {
	Expression string
	Names      map[string]string
	Values     map[string]types.AttributeValue
}

// buildFilter selects the items of one entity type that may satisfy p.
//
// DynamoDB compares only values of the same type and cannot order booleans,
// so the expression is a superset of the matches: it tries the literal as
// a string, a number and a boolean, and lets through attributes of a type
// the operator cannot express. The store applies p exactly afterwards.
func buildFilter(entityName string, p *query.Predicate) filter {
	f := filter{
		Names:  map[string]string{"#et": EntityTypeAttr},
		Values: map[string]types.AttributeValue{":et": &types.AttributeValueMemberS{Value: entityName}},
	}
	if p == nil {
		f.Expression = "#et = :et"
		return f
	}

	f.Names["#f"] = p.Field
	f.Values[":s"] = &types.AttributeValueMemberS{Value: p.Value}
	num, hasNum := numberLiteral(p.Value)
	b, boolErr := strconv.ParseBool(p.Value)
	hasBool := boolErr == nil

	// DynamoDB rejects placeholders the expression does not use, so values
	// are declared only when a term refers to them.
	numRef := func() string {
		f.Values[":n"] = &types.AttributeValueMemberN{Value: num}
		return ":n"
	}
	boolRef := func() string {
		f.Values[":b"] = &types.AttributeValueMemberBOOL{Value: b}
		return ":b"
	}
	typeTerm := func(dynamoType string) string {
		placeholder := ":t" + strings.ToLower(dynamoType)
		f.Values[placeholder] = &types.AttributeValueMemberS{Value: dynamoType}
		return fmt.Sprintf("attribute_type(#f, %s)", placeholder)
	}

	var terms []string
	switch p.Operator {
	case query.Contains:
		terms = append(terms, "contains(#f, :s)")
		if hasNum {
			terms = append(terms, "contains(#f, "+numRef()+")")
		}
		if hasBool {
			terms = append(terms, "contains(#f, "+boolRef()+")")
		}
		terms = append(terms, typeTerm("N"), typeTerm("BOOL"))
	case query.BeginsWith:
		terms = append(terms, "begins_with(#f, :s)",
			typeTerm("N"), typeTerm("BOOL"))
	default:
		op := comparisons[p.Operator]
		terms = append(terms, "#f "+op+" :s")
		if hasNum {
			terms = append(terms, "#f "+op+" "+numRef())
		}
		if hasBool {
			if p.Operator == query.Equal || p.Operator == query.NotEqual {
				terms = append(terms, "#f "+op+" "+boolRef())
			} else {
				terms = append(terms, typeTerm("BOOL"))
			}
		}
	}

	f.Expression = "#et = :et AND (" + strings.Join(terms, " OR ") + ")"
	return f
}

// numberLiteral normalises lit for an N attribute value. Integers keep every
// digit; other numbers go through float64.
func numberLiteral(lit string) (string, bool) {
	if n, ok := new(big.Int).SetString(lit, 10); ok {
		return n.String(), true
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

var comparisons = map[query.Operator]string{
	query.Equal:              "=",
	query.NotEqual:           "<>",
	query.LessThan:           "<",
	query.LessThanOrEqual:    "<=",
	query.GreaterThan:        ">",
	query.GreaterThanOrEqual: ">=",
}
