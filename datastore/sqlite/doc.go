/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package sqlite implements datastore.Store on an embedded SQLite database
(modernc.org/sqlite, no cgo).

Every record lives in one table as a JSON document:

	CREATE TABLE records (
		storage_id  TEXT PRIMARY KEY,
		entity_name TEXT NOT NULL,
		data        JSON NOT NULL
	)

Predicates and sorts are translated to json_extract expressions so that
filtering, ordering and paging run inside SQLite. The translation follows
the same comparison rules as the in-memory store: numeric literals compare
numerically against numeric fields, strings compare bytewise, and a
missing or null field never matches.
*/
package sqlite
