package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// Locker 以 Redis 分散式鎖保護只能由單一實例執行的工作，例如建表與種子資料
type Locker struct {
	rs      *redsync.Redsync
	options LockerOptions
}

type LockerOptions struct {
	Expiry        time.Duration
	RetryDelay    time.Duration
	RenewInterval time.Duration
}

type LockerOption func(*LockerOptions)

// WithLockExpiry 設置鎖過期時間
func WithLockExpiry(d time.Duration) LockerOption {
	return func(o *LockerOptions) {
		o.Expiry = d
	}
}

// WithLockRetryDelay 設置鎖被佔用時的重試間隔
func WithLockRetryDelay(d time.Duration) LockerOption {
	return func(o *LockerOptions) {
		o.RetryDelay = d
	}
}

// WithLockRenewInterval 設置自動續期間隔
func WithLockRenewInterval(d time.Duration) LockerOption {
	return func(o *LockerOptions) {
		o.RenewInterval = d
	}
}

func NewLocker(client redis.UniversalClient, opts ...LockerOption) *Locker {
	options := LockerOptions{
		Expiry:     8 * time.Second,
		RetryDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&options)
	}
	// 未設置續期間隔時使用過期時間的 1/3
	if options.RenewInterval <= 0 {
		options.RenewInterval = options.Expiry / 3
	}
	return &Locker{
		rs:      redsync.New(goredis.NewPool(client)),
		options: options,
	}
}

// Do 取得 key 對應的鎖後執行 fn，執行期間自動續期，結束後釋放鎖
// 續期失敗時傳給 fn 的 context 會被取消
func (l *Locker) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	const op = "Locker.Do"
	mutex := l.rs.NewMutex(key,
		redsync.WithExpiry(l.options.Expiry),
		redsync.WithTries(1),
	)
	if err := l.acquire(ctx, mutex); err != nil {
		return fmt.Errorf("[%s] Fail to acquire lock %q, err=%w", op, key, err)
	}

	lockCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.renew(lockCtx, cancel, mutex)
	}()

	err := fn(lockCtx)
	cancel()
	wg.Wait()

	if _, unlockErr := mutex.UnlockContext(context.WithoutCancel(ctx)); unlockErr != nil {
		slog.Warn("Fail to release lock", slog.String("op", op), slog.String("key", key), slog.Any("error", unlockErr))
	}
	return err
}

func (l *Locker) acquire(ctx context.Context, mutex *redsync.Mutex) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := mutex.LockContext(ctx)
		if err == nil {
			return nil
		}
		// Redis 本身出錯時不重試，鎖被佔用時等待後重試
		var redisErr *redsync.RedisError
		if errors.As(err, &redisErr) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.options.RetryDelay):
		}
	}
}

func (l *Locker) renew(ctx context.Context, cancel context.CancelFunc, mutex *redsync.Mutex) {
	const op = "Locker.renew"
	ticker := time.NewTicker(l.options.RenewInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok, err := mutex.ExtendContext(ctx)
			if err != nil || !ok {
				slog.Warn("Lock lost", slog.String("op", op), slog.String("key", mutex.Name()), slog.Any("error", err))
				cancel()
				return
			}
		}
	}
}
