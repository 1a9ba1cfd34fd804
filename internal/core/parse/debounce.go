package parse

import (
	"context"
	"sync"
	"time"
)

// Debouncer 鍵控的「靜止後才動作」排程器
// 同一個鍵排入新工作時，前一個待執行的工作會被取消——不只是忽略結果，
// 而是取消它的 context，避免慢的舊解析晚到後蓋掉新狀態
type Debouncer struct {
	wait    time.Duration
	mu      sync.Mutex
	pending map[string]*pendingCall
	closed  bool
}

type pendingCall struct {
	timer  *time.Timer
	cancel context.CancelFunc
}

// NewDebouncer 創建 debouncer；wait 為輸入靜止的等待時間
func NewDebouncer(wait time.Duration) *Debouncer {
	return &Debouncer{
		wait:    wait,
		pending: make(map[string]*pendingCall),
	}
}

// Schedule 為指定鍵排程 fn，並取消該鍵先前尚未執行（或執行中）的工作
// fn 收到的 context 在被更新的排程取代時立即取消
func (d *Debouncer) Schedule(key string, fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
		prev.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	call := &pendingCall{cancel: cancel}
	call.timer = time.AfterFunc(d.wait, func() {
		fn(ctx)

		d.mu.Lock()
		// 只清掉仍指向自己的紀錄，避免刪除後來排入的工作
		if cur, ok := d.pending[key]; ok && cur == call {
			delete(d.pending, key)
		}
		d.mu.Unlock()
	})
	d.pending[key] = call
}

// Cancel 取消指定鍵的待執行工作
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if call, ok := d.pending[key]; ok {
		call.timer.Stop()
		call.cancel()
		delete(d.pending, key)
	}
}

// Close 取消所有待執行工作並拒絕後續排程
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	for key, call := range d.pending {
		call.timer.Stop()
		call.cancel()
		delete(d.pending, key)
	}
}
