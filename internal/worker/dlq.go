package worker

// Jobs that exhaust their retries are parked in a per-queue Redis list
// ("dlq:jobs:analytics", "dlq:jobs:email") so a lost conversion beacon or
// receipt email can be replayed by hand once the upstream outage clears.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DeadJob is a parked job: the original payload plus enough context to decide
// whether replaying it is still worth it.
type DeadJob struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	Attempts int             `json:"attempts"`
	FailedAt string          `json:"failedAt"` // UTC RFC3339
}

// SendToDLQ parks a job that exhausted its retries. Best effort: when Redis
// itself is down the job is logged and lost, which matches the fire-and-forget
// contract of both queues.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, jobType string, payload json.RawMessage, reason string, attempts int) {
	dead := DeadJob{
		Queue:    queue,
		Type:     jobType,
		Payload:  payload,
		Reason:   reason,
		Attempts: attempts,
		FailedAt: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(dead)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Str("type", jobType).Msg("dlq: job lost, marshal failed")
		return
	}

	key := DLQPrefix + queue
	if err := rdb.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Str("type", jobType).Msg("dlq: job lost, redis unreachable")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job parked for manual replay")
}

// DLQLength reports the dead-letter backlog of a queue.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
