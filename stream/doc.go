/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package stream turns a synchronous call into a cold, single-shot result
stream.

A Stream does nothing until a subscriber requests it. Each Subscription
runs the call at most once and delivers exactly one of: a value followed by
a successful completion, or a failed completion. Cancelling a subscription
before it is requested means the call never runs; cancelling it while the
call is in flight suppresses delivery.

	sub := repo.FetchPublisher(params).Sink(ctx,
		func(tasks []*Task) { render(tasks) },
		func(err error) { report(err) },
	)
	defer sub.Cancel()

Subscriptions started together can be torn down together with a Scope.
*/
package stream
