/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package ddb implements datastore.Store on a single DynamoDB table.

Each record is stored as one item: the record's JSON fields as attributes,
plus EntityType, StorageID and the key attributes. Keys are expanded from
the entity's key map registered with registry.RegisterKeyMap; macros name
item attributes:

	registry.RegisterKeyMap("Task", map[string]string{
	    "PK":     "TASK#{StorageID}",  // one partition per task
	    "SK":     "TASK",
	    "GSI1PK": "OWNER#{owner}",     // written as a plain attribute
	})

Without a key map the default is PK "<Name>#{StorageID}" and SK "<Name>".

Fetch and Count scan the table with a FilterExpression on EntityType and
the predicate. Sorting, offset and limit are applied to the scan result,
so they cost a full scan of the type.
*/
package ddb
