// Package kis is a client for the quotation endpoints of the Korea Investment
// & Securities open API.
//
// Every call is retried on network errors, 5xx and rate-limit responses with
// exponential backoff, and guarded by a circuit breaker that fails fast with
// ErrCircuitOpen while the API keeps failing. Business errors reported in the
// response body (rt_cd other than "0") are permanent and never retried.
//
//	client, err := kis.New(cfg, kis.WithLogger(log))
//	price, err := client.InquirePrice(ctx, "005930")
package kis
