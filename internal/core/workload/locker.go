package workload

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// employeeLocker は社員単位の直列化を提供します。同一社員に対する変更は
// read-validate-write の全区間で相互排他され、異なる社員同士は並行に進みます。
// 取得待ちは wait で打ち切られ、呼び出し元には ErrBusy が返ります。
type employeeLocker struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
	wait    time.Duration
}

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

func newEmployeeLocker(wait time.Duration) *employeeLocker {
	return &employeeLocker{
		entries: make(map[string]*lockEntry),
		wait:    wait,
	}
}

// acquire は employeeID のロックを取得し、解放関数を返します。wait 以内に
// 取得できない場合は ErrBusy を返します。
func (l *employeeLocker) acquire(ctx context.Context, employeeID string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.entries[employeeID]
	if !ok {
		entry = &lockEntry{sem: semaphore.NewWeighted(1)}
		l.entries[employeeID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	if err := entry.sem.Acquire(waitCtx, 1); err != nil {
		l.unref(employeeID, entry)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrBusy
		}
		return nil, err
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			entry.sem.Release(1)
			l.unref(employeeID, entry)
		})
	}
	return release, nil
}

func (l *employeeLocker) unref(employeeID string, entry *lockEntry) {
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, employeeID)
	}
	l.mu.Unlock()
}
