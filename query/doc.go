/*
Package query holds the store independent description of a fetch.

A Predicate compares one record field with a string literal, a Sort orders
by one field, and Params bundles an optional predicate, sorts, limit and
offset:

	params := query.NewParams(
	    query.Where(query.Eq("status", "open")),
	    query.OrderBy(query.Desc("priority"), query.Asc("title")),
	    query.Limit(20),
	    query.Offset(40),
	)

The values carry no behaviour. Each store translates them into its native
form (SQL expressions, DynamoDB filter expressions, in-memory matchers) and is
responsible for rejecting fields the entity does not declare.
*/
package query
