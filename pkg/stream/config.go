package stream

import "time"

// Config holds the pipeline settings. Defaults are the reference policy.
type Config struct {
	Stream           string        `env:"STREAM_NAME" envDefault:"kis-api-request"`
	Group            string        `env:"STREAM_GROUP" envDefault:"kis-group"`
	Consumer         string        `env:"STREAM_CONSUMER" envDefault:"worker-1"`
	UniqueConsumer   bool          `env:"STREAM_CONSUMER_UNIQUE" envDefault:"false"`
	PollInterval     time.Duration `env:"STREAM_POLL_INTERVAL" envDefault:"1s"`
	Block            time.Duration `env:"STREAM_BLOCK" envDefault:"1s"`
	BatchSize        int64         `env:"STREAM_BATCH_SIZE" envDefault:"20"`
	PendingBatchSize int64         `env:"STREAM_PENDING_BATCH_SIZE" envDefault:"10"`
	ClaimMinIdle     time.Duration `env:"STREAM_CLAIM_MIN_IDLE" envDefault:"0s"`
	MaxDeliveries    int64         `env:"STREAM_MAX_DELIVERIES" envDefault:"0"`
	DeadLetterStream string        `env:"STREAM_DEAD_LETTER" envDefault:"kis-dead-letter"`
	HandlerTimeout   time.Duration `env:"STREAM_HANDLER_TIMEOUT" envDefault:"30s"`
	DedupTTL         time.Duration `env:"STREAM_DEDUP_TTL" envDefault:"30s"`
	DedupPrefix      string        `env:"STREAM_DEDUP_PREFIX" envDefault:"stream-dedup"`
	TrimInterval     time.Duration `env:"STREAM_TRIM_INTERVAL" envDefault:"60s"`
	MaxLen           int64         `env:"STREAM_MAX_LEN" envDefault:"1000"`
	TrimApproximate  bool          `env:"STREAM_TRIM_APPROXIMATE" envDefault:"false"`
}

// ConsumerOptions translates the config into consumer options.
func (c Config) ConsumerOptions() []ConsumerOption {
	opts := []ConsumerOption{
		WithConsumerName(c.Consumer),
		WithPollInterval(c.PollInterval),
		WithBlock(c.Block),
		WithBatchSize(c.BatchSize),
		WithPendingBatchSize(c.PendingBatchSize),
		WithClaimMinIdle(c.ClaimMinIdle),
		WithDeadLetter(c.DeadLetterStream, c.MaxDeliveries),
		WithHandlerTimeout(c.HandlerTimeout),
	}
	if c.UniqueConsumer {
		opts = append(opts, WithUniqueConsumerName(c.Consumer))
	}
	return opts
}

// GateOptions translates the config into gate options.
func (c Config) GateOptions() []GateOption {
	return []GateOption{
		WithDedupTTL(c.DedupTTL),
		WithDedupPrefix(c.DedupPrefix),
	}
}

// SweeperOptions translates the config into sweeper options.
func (c Config) SweeperOptions() []SweeperOption {
	return []SweeperOption{
		WithMaxLen(c.MaxLen),
		WithApproximateTrim(c.TrimApproximate),
		WithTrimInterval(c.TrimInterval),
	}
}
