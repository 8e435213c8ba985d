package slotlock

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Warn(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Warns() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

func newRedisLock(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis, *recordingLogger) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := &recordingLogger{}
	return NewRedis(client, ttl, log), mr, log
}

func TestRedis_AcquireSetsLease(t *testing.T) {
	lock, mr, _ := newRedisLock(t, 30*time.Second)

	release, err := lock.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)

	fullKey := redisKeyPrefix + "k"
	assert.True(t, mr.Exists(fullKey))
	assert.Equal(t, 30*time.Second, mr.TTL(fullKey))

	release()
	assert.False(t, mr.Exists(fullKey))
}

func TestRedis_MutualExclusion(t *testing.T) {
	lock, _, log := newRedisLock(t, 30*time.Second)
	ctx := context.Background()

	var inside int32
	var maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := lock.Acquire(ctx, "k", 10*time.Second)
			require.NoError(t, err)

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, log.Warns())
}

func TestRedis_TimeoutWhileHeld(t *testing.T) {
	lock, _, _ := newRedisLock(t, 30*time.Second)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)
	defer release()

	start := time.Now()
	_, err = lock.Acquire(ctx, "k", 60*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestRedis_ContextCancelled(t *testing.T) {
	lock, _, _ := newRedisLock(t, 30*time.Second)

	release, err := lock.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = lock.Acquire(ctx, "k", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedis_LeaseExpiresAfterTTL(t *testing.T) {
	lock, mr, _ := newRedisLock(t, 100*time.Millisecond)
	ctx := context.Background()

	// держатель упал и не вызвал release
	_, err := lock.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)

	_, err = lock.Acquire(ctx, "k", 30*time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)

	mr.FastForward(100 * time.Millisecond)

	release, err := lock.Acquire(ctx, "k", 30*time.Millisecond)
	require.NoError(t, err)
	release()
}

func TestRedis_StaleReleaseKeepsNewLease(t *testing.T) {
	lock, mr, _ := newRedisLock(t, 100*time.Millisecond)
	ctx := context.Background()
	fullKey := redisKeyPrefix + "k"

	staleRelease, err := lock.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)
	staleToken, err := mr.Get(fullKey)
	require.NoError(t, err)

	mr.FastForward(200 * time.Millisecond)

	release, err := lock.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)
	token, err := mr.Get(fullKey)
	require.NoError(t, err)
	require.NotEqual(t, staleToken, token)

	// чужую аренду не снимает
	staleRelease()
	assert.True(t, mr.Exists(fullKey))
	current, err := mr.Get(fullKey)
	require.NoError(t, err)
	assert.Equal(t, token, current)

	release()
	assert.False(t, mr.Exists(fullKey))
}

func TestRedis_IndependentKeys(t *testing.T) {
	lock, _, _ := newRedisLock(t, 30*time.Second)
	ctx := context.Background()

	r1, err := lock.Acquire(ctx, Key("Cardiology", "2026-03-02", "09:00"), time.Second)
	require.NoError(t, err)
	r2, err := lock.Acquire(ctx, Key("Cardiology", "2026-03-02", "09:15"), 30*time.Millisecond)
	require.NoError(t, err)

	r1()
	r2()
}

func TestRedis_ReleaseFailureIsLogged(t *testing.T) {
	lock, mr, log := newRedisLock(t, 30*time.Second)

	release, err := lock.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)

	mr.Close()
	release()

	warns := log.Warns()
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], redisKeyPrefix+"k")
}

func TestRedis_SetNXFailure(t *testing.T) {
	lock, mr, _ := newRedisLock(t, 30*time.Second)
	mr.Close()

	_, err := lock.Acquire(context.Background(), "k", 30*time.Millisecond)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
}
