package otp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:"

// RedisLedger stores codes in Redis so multiple instances share one
// ledger. The stored value carries its issue time; the key TTL is twice
// the verification window so a just-expired code still reports Expired
// rather than NotFound before Redis drops the key.
type RedisLedger struct {
	client *redis.Client
	window time.Duration
	now    func() time.Time
}

// NewRedisLedger creates a Redis-backed ledger.
func NewRedisLedger(client *redis.Client, window time.Duration) *RedisLedger {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisLedger{client: client, window: window, now: time.Now}
}

// Issue generates a code and stores it under the identifier key,
// replacing any live code. SET is atomic, so concurrent issues resolve
// last-write-wins.
func (l *RedisLedger) Issue(ctx context.Context, identifier string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	val := code + "|" + strconv.FormatInt(l.now().UnixNano(), 10)
	if err := l.client.Set(ctx, keyPrefix+identifier, val, 2*l.window).Err(); err != nil {
		return "", fmt.Errorf("otp: store code: %w", err)
	}
	return code, nil
}

// Verify checks the candidate and consumes the stored code on success.
// Consumption is the success gate: DEL reports how many keys it removed,
// so of several concurrent verifiers with the correct code only the one
// whose DEL actually removes the key succeeds.
func (l *RedisLedger) Verify(ctx context.Context, identifier, candidate string) error {
	key := keyPrefix + identifier

	val, err := l.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("otp: read code: %w", err)
	}

	code, rawIssued, ok := strings.Cut(val, "|")
	if !ok {
		return ErrNotFound
	}
	issuedNano, err := strconv.ParseInt(rawIssued, 10, 64)
	if err != nil {
		return ErrNotFound
	}
	if l.now().Sub(time.Unix(0, issuedNano)) > l.window {
		_ = l.client.Del(ctx, key).Err()
		return ErrExpired
	}
	if code != candidate {
		return ErrMismatch
	}
	deleted, err := l.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("otp: consume code: %w", err)
	}
	if deleted == 0 {
		// Lost the race to a concurrent verifier.
		return ErrNotFound
	}
	return nil
}
