package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ── 按键互斥锁 ──────────────────────────────────────────────
//
// 职责：为"按课表串行提交"提供互斥范围。同一 key（课表 ID）上的
// 冲突检测与写入必须串行；不同 key 互不阻塞。
//
// 两种实现：
//   - KeyedMutex：进程内实现，单实例部署与测试使用
//   - pkg/redis 中的租约锁：多实例部署使用
// ─────────────────────────────────────────────────────────────

// ErrLockTimeout 等待锁超过上限，调用方可稍后整体重试
var ErrLockTimeout = errors.New("获取课表锁超时，请稍后重试")

// Locker 按键互斥锁接口
// Acquire 成功时返回释放函数；等待超过 wait 返回 ErrLockTimeout
type Locker interface {
	Acquire(ctx context.Context, key string, wait time.Duration) (release func(), err error)
}

// KeyedMutex 进程内按键互斥锁
// 锁不被任何人持有或等待时，对应条目自动回收
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	ch   chan struct{} // 容量 1 的令牌通道
	refs int           // 持有者 + 等待者计数
}

// NewKeyedMutex 创建 KeyedMutex
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*entry)}
}

// Acquire 获取 key 上的互斥锁，最多等待 wait
func (m *KeyedMutex) Acquire(ctx context.Context, key string, wait time.Duration) (func(), error) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case e.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.ch
				m.unref(key, e)
			})
		}, nil
	case <-timer.C:
		m.unref(key, e)
		return nil, ErrLockTimeout
	case <-ctx.Done():
		m.unref(key, e)
		return nil, ctx.Err()
	}
}

func (m *KeyedMutex) unref(key string, e *entry) {
	m.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
	m.mu.Unlock()
}
