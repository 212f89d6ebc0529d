/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package dataaccess provides type-safe repositories over a pluggable record
store.

A Repository[E] exposes create, save, fetch, count and delete for one
entity type. Every call goes through an execution.Context, which admits one
store operation at a time, so a repository can be shared freely between
goroutines. Failures are reported with the closed taxonomy in the errors
package: each operation fails with its own EntityCRUDError kind, and model
projection fails with ModelError.

Entities are pointer types that name their storage type and identity field
and are registered with the type registry:

	type Task struct {
	    ID    uuid.UUID `json:"id"`
	    Title string    `json:"title"`
	}

	func (*Task) EntityName() string { return "Task" }
	func (*Task) IDField() string    { return "id" }

	func init() {
	    registry.RegisterType("Task", func() *Task { return &Task{} })
	}

Basic usage:

	store, closeStore, err := dataaccess.OpenStore(ctx, cfg)
	defer closeStore()

	ec := execution.New(store)
	tasks := dataaccess.New[*Task](ec)

	task, err := tasks.CreateNewInstance(ctx)
	task.ID = uuid.New()
	task.Title = "write docs"
	err = tasks.Save(ctx, task)

	open, err := tasks.Fetch(ctx, query.NewParams(
	    query.Where(query.Eq("done", "false")),
	    query.OrderBy(query.Desc("priority")),
	    query.Limit(10),
	))

Each operation also has a publisher form returning a cold, single-shot
stream.Stream (see package stream), e.g. tasks.FetchPublisher(params).

A Catalog hands out one repository per entity type over a shared
execution context.
*/
package dataaccess
