/*
Package registry maps entity names to constructors and storage metadata.

Stores only know entities by name. The type registry lets them allocate a
fresh record for a name and tells them which fields the record declares, so
that queries naming an unknown field fail instead of silently matching
nothing:

	registry.RegisterType("Task", func() *Task {
	    return &Task{}
	})

	ok, _ := registry.HasField("Task", "title")

Field names are the keys encoding/json produces for the struct, honouring
json tags and embedded structs.

Weak returns a reference to a record that does not keep it alive. Stores use
it to track records they handed out without pinning them in memory.

Key Map Registry:
The DynamoDB store derives key attributes from templates. A template may use
record fields and the storage identity assigned by the store:

	registry.RegisterKeyMap("Task", map[string]string{
	    "PK":     "TASK#{StorageID}",
	    "SK":     "TASK",
	    "GSI1PK": "STATUS#{status}",
	})

The registry is thread-safe and should be populated during initialization,
typically in init() functions.
*/
package registry
