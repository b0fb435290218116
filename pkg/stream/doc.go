// Package stream implements a reliable work distribution pipeline over a
// log structured store with consumer group semantics (Redis streams).
//
// The package is organised around four components:
//
//   - Gate admits a (domain, identifier) pair at most once per TTL window.
//   - Producer appends messages to the tail of the stream.
//   - Consumer reads the stream through a consumer group, dispatches each
//     entry and acknowledges it on success, then reclaims entries left pending.
//   - Sweeper periodically caps the stream length.
//
// Components talk to storage only through the MarkerStore, Appender,
// GroupStore and Trimmer interfaces. RedisStore implements all of them with a
// single injected client.
//
// # Delivery guarantees
//
// Delivery is at-least-once. A Dispatcher that returns an error (or panics)
// leaves its entry in the group's pending set; the reclaim pass at the end of
// every cycle claims pending entries for the current consumer and dispatches
// them again with Delivery.Retry set. With the default zero minimum idle time
// an entry held by a slow but alive consumer can be stolen, so dispatchers
// must be idempotent. Entries that keep failing are retried forever unless a
// dead-letter route is enabled with WithDeadLetter.
//
// Store errors (read, pending, claim, ack) abort the current cycle; the next
// tick retries from the group's cursor and pending set.
//
// # Usage
//
//	store := stream.NewRedisStore(client)
//
//	gate, _ := stream.NewGate(store, stream.WithDedupTTL(30*time.Second))
//	producer, _ := stream.NewProducer(store, "kis-api-request")
//
//	if ok, _ := gate.Admit(ctx, "stock", "005930"); ok {
//	    _, _ = producer.Publish(ctx, msg)
//	}
//
//	consumer, _ := stream.NewConsumer(store, dispatcher, "kis-api-request", "kis-group")
//	sweeper, _ := stream.NewSweeper(store, "kis-api-request", stream.WithMaxLen(1000))
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(consumer.Run(ctx))
//	g.Go(sweeper.Run(ctx))
//	_ = g.Wait()
package stream
