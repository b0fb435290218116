package stream

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of Redis streams and SET NX markers.
// One client is shared by every component that receives the store.
type RedisStore struct {
	db redis.UniversalClient
}

// NewRedisStore wraps an established client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{db: client}
}

// SetIfAbsent issues SET key 1 NX PX ttl.
func (s *RedisStore) SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.db.SetNX(ctx, key, "1", ttl).Result()
}

// Append issues XADD stream * field value ...
func (s *RedisStore) Append(ctx context.Context, stream string, values map[string]any) (string, error) {
	return s.db.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()
}

// EnsureGroup issues XGROUP CREATE stream group 0 MKSTREAM and tolerates an existing group.
func (s *RedisStore) EnsureGroup(ctx context.Context, stream, group string) error {
	err := s.db.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// ReadGroup issues XREADGROUP GROUP group consumer COUNT n [BLOCK ms] STREAMS stream >.
func (s *RedisStore) ReadGroup(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]Entry, error) {
	if block <= 0 {
		// go-redis sends BLOCK 0 (wait forever) for a zero duration.
		block = -1
	}

	res, err := s.db.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    count,
		Block:    block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, st := range res {
		entries = append(entries, toEntries(st.Messages)...)
	}
	return entries, nil
}

// Pending issues XPENDING stream group - + count.
func (s *RedisStore) Pending(ctx context.Context, stream, group string, count int64) ([]PendingEntry, error) {
	res, err := s.db.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: stream,
		Group:  group,
		Start:  "-",
		End:    "+",
		Count:  count,
	}).Result()
	if err != nil {
		return nil, err
	}

	pending := make([]PendingEntry, 0, len(res))
	for _, p := range res {
		pending = append(pending, PendingEntry{
			ID:         p.ID,
			Consumer:   p.Consumer,
			Idle:       p.Idle,
			Deliveries: p.RetryCount,
		})
	}
	return pending, nil
}

// Claim issues XCLAIM stream group consumer min-idle id ...
func (s *RedisStore) Claim(ctx context.Context, stream, group, consumer string, minIdle time.Duration, ids ...string) ([]Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	msgs, err := s.db.XClaim(ctx, &redis.XClaimArgs{
		Stream:   stream,
		Group:    group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Messages: ids,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entries := toEntries(msgs)
	if len(entries) < len(ids) {
		if err := s.releaseTrimmed(ctx, stream, group, ids, entries); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// releaseTrimmed acknowledges requested ids whose entries no longer exist.
// Redis 7 drops them from the pending list during XCLAIM; older servers keep
// them forever and they would crowd out live pending entries.
// Ids that still exist were skipped for min-idle and stay pending.
func (s *RedisStore) releaseTrimmed(ctx context.Context, stream, group string, ids []string, claimed []Entry) error {
	seen := make(map[string]struct{}, len(claimed))
	for _, e := range claimed {
		seen[e.ID] = struct{}{}
	}

	var gone []string
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		msgs, err := s.db.XRangeN(ctx, stream, id, id, 1).Result()
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			gone = append(gone, id)
		}
	}
	if len(gone) == 0 {
		return nil
	}
	return s.db.XAck(ctx, stream, group, gone...).Err()
}

// Ack issues XACK stream group id ...
func (s *RedisStore) Ack(ctx context.Context, stream, group string, ids ...string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.db.XAck(ctx, stream, group, ids...).Result()
}

// Trim issues XTRIM stream MAXLEN [~] maxLen.
func (s *RedisStore) Trim(ctx context.Context, stream string, maxLen int64, approx bool) (int64, error) {
	if approx {
		return s.db.XTrimMaxLenApprox(ctx, stream, maxLen, 0).Result()
	}
	return s.db.XTrimMaxLen(ctx, stream, maxLen).Result()
}

// Len issues XLEN stream.
func (s *RedisStore) Len(ctx context.Context, stream string) (int64, error) {
	return s.db.XLen(ctx, stream).Result()
}

// toEntries drops placeholders Redis returns for entries deleted by trimming.
func toEntries(msgs []redis.XMessage) []Entry {
	entries := make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		if m.ID == "" || m.Values == nil {
			continue
		}
		entries = append(entries, Entry{ID: m.ID, Values: m.Values})
	}
	return entries
}
