package otp

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisLedgerTest(t *testing.T) (*RedisLedger, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return NewRedisLedger(client, DefaultWindow), mr
}

func TestRedisLedgerSingleUse(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newRedisLedgerTest(t)

	code, err := ledger.Issue(ctx, testEmail)
	require.NoError(t, err)

	require.NoError(t, ledger.Verify(ctx, testEmail, code))
	require.ErrorIs(t, ledger.Verify(ctx, testEmail, code), ErrNotFound)
}

func TestRedisLedgerMismatchDoesNotConsume(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newRedisLedgerTest(t)

	code, err := ledger.Issue(ctx, testEmail)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	require.ErrorIs(t, ledger.Verify(ctx, testEmail, wrong), ErrMismatch)
	require.NoError(t, ledger.Verify(ctx, testEmail, code))
}

func TestRedisLedgerExpiredBeforeKeyDropsOut(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newRedisLedgerTest(t)

	issued := time.Now()
	ledger.now = func() time.Time { return issued }

	code, err := ledger.Issue(ctx, testEmail)
	require.NoError(t, err)

	// Past the window the key still exists (TTL is twice the window),
	// so the caller learns the code expired rather than never existed.
	ledger.now = func() time.Time { return issued.Add(DefaultWindow + time.Second) }
	require.ErrorIs(t, ledger.Verify(ctx, testEmail, code), ErrExpired)

	// A second attempt after the expiry consumed the key reports NotFound.
	require.ErrorIs(t, ledger.Verify(ctx, testEmail, code), ErrNotFound)
}

func TestRedisLedgerKeyTTLElapsed(t *testing.T) {
	ctx := context.Background()
	ledger, mr := newRedisLedgerTest(t)

	code, err := ledger.Issue(ctx, testEmail)
	require.NoError(t, err)

	mr.FastForward(2*DefaultWindow + time.Second)
	require.ErrorIs(t, ledger.Verify(ctx, testEmail, code), ErrNotFound)
}

func TestRedisLedgerReissueInvalidatesPrior(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newRedisLedgerTest(t)

	first, err := ledger.Issue(ctx, testEmail)
	require.NoError(t, err)

	var second string
	for {
		second, err = ledger.Issue(ctx, testEmail)
		require.NoError(t, err)
		if second != first {
			break
		}
	}

	require.ErrorIs(t, ledger.Verify(ctx, testEmail, first), ErrMismatch)
	require.NoError(t, ledger.Verify(ctx, testEmail, second))
}

func TestRedisLedgerConcurrentVerifySingleWinner(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newRedisLedgerTest(t)

	code, err := ledger.Issue(ctx, testEmail)
	require.NoError(t, err)

	const workers = 50
	var successes atomic.Int32

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if ledger.Verify(ctx, testEmail, code) == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	// Consumption gates success, so exactly one verifier wins.
	require.EqualValues(t, 1, successes.Load())
}
