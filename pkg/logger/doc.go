// Package logger builds the *slog.Logger shared by the stream pipeline.
//
// New returns a logger configured by functional options. WithEnvironment
// selects text output at debug level for development and JSON at info level
// for staging and production, and stamps every record with the service and
// environment names. ContextExtractor callbacks registered through
// WithContextExtractors inject request scoped values at log time.
//
// Attribute helpers (Error, Stream, Group, Consumer, EntryID, Retry, ...) keep
// key names consistent across the producer, consumer and sweeper:
//
//	log := logger.New(logger.WithEnvironment("production", "newstoss-worker"))
//	log.Info("entry acknowledged",
//	    logger.Stream("kis-api-request"),
//	    logger.EntryID(id),
//	    logger.Retry(false),
//	)
//
// Error returns an empty attribute for a nil error so it can be passed
// unconditionally.
package logger
