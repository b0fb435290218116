// Package redis connects the process to the Redis server that backs the
// request stream, the consumer group and the dedup markers.
//
// A single *redis.Client is created by Connect at startup and injected into
// every stream component; nothing in this module keeps a package level client.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := stream.NewRedisStore(client)
//
// Healthcheck adapts the client to the readiness probe served by the admin
// HTTP server. Failures are reported with the sentinel errors from errors.go
// joined with the driver error.
package redis
