package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gcstimetable/backend/config"
	"gcstimetable/backend/pkg/lock"
)

// Client Redis 客户端封装
// 当前用于速率限制与排课提交的分布式租约锁
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}

// ── 速率限制 ──

const rateLimitPrefix = "rate_limit:"

// CheckRateLimit 滑动窗口速率限制
// 返回 true 表示本次请求放行
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window)
	member := strconv.FormatInt(now.UnixNano(), 10)
	fullKey := rateLimitPrefix + key

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, fullKey, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	count := pipe.ZCard(ctx, fullKey)
	pipe.ZAdd(ctx, fullKey, goredis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, fullKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return count.Val() < int64(limit), nil
}

// ── 排课提交租约锁 ──
//
// 多实例部署时，同一课表的冲突检测与写入必须跨进程互斥。
// SET NX + 租约 TTL 保证持有者异常退出后锁最终自动释放；
// 释放时校验 token，避免误删他人租约。

const leasePrefix = "alloc:lock:"

// releaseScript 仅当 token 匹配时删除租约
var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// LeaseLocker 基于 Redis 租约的按键互斥锁，实现 lock.Locker
type LeaseLocker struct {
	client   *Client
	leaseTTL time.Duration
}

// NewLeaseLocker 创建 LeaseLocker
// leaseTTL 必须大于单次提交的最长处理时间
func (c *Client) NewLeaseLocker(leaseTTL time.Duration) *LeaseLocker {
	return &LeaseLocker{client: c, leaseTTL: leaseTTL}
}

// Acquire 获取 key 上的租约锁，最多等待 wait
func (l *LeaseLocker) Acquire(ctx context.Context, key string, wait time.Duration) (func(), error) {
	token := uuid.NewString()
	fullKey := leasePrefix + key
	deadline := time.Now().Add(wait)

	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()

	for {
		ok, err := l.client.rdb.SetNX(ctx, fullKey, token, l.leaseTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("获取租约锁失败: %w", err)
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := releaseScript.Run(releaseCtx, l.client.rdb, []string{fullKey}, token).Err(); err != nil {
					l.client.logger.Warn("释放租约锁失败，将由 TTL 兜底",
						zap.String("key", key), zap.Error(err))
				}
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, lock.ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
