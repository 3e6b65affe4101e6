package action

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

var (
	ErrBusy         = errors.New("操作进行中，请稍候")
	ErrInvalidPhase = errors.New("当前状态不允许该操作")
)

// Phase 弹窗状态：Idle → InFlight → Settled，关闭后回到 Idle
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInFlight
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInFlight:
		return "in_flight"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Func 弹窗包裹的一次远端操作
type Func[R any] func(ctx context.Context) (R, error)

// Status 弹窗快照
type Status[R any] struct {
	Phase    Phase
	Result   R
	Err      error
	Progress int
}

// OK 已完成且成功
func (s Status[R]) OK() bool {
	return s.Phase == PhaseSettled && s.Err == nil
}

// Dialog 同一时间最多一个在途操作，从不自动重试
type Dialog[R any] struct {
	sem *semaphore.Weighted

	mu       sync.Mutex
	phase    Phase
	result   R
	err      error
	seq      uint64
	cancel   context.CancelFunc
	done     chan struct{}
	last     Func[R]
	progress *Progress
	touched  time.Time
}

type Option func(*options)

type options struct {
	progress *Progress
}

// WithProgress 在途期间由本地定时器驱动的展示进度
func WithProgress(p *Progress) Option {
	return func(o *options) {
		o.progress = p
	}
}

func New[R any](opts ...Option) *Dialog[R] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	done := make(chan struct{})
	close(done)
	return &Dialog[R]{
		sem:      semaphore.NewWeighted(1),
		phase:    PhaseIdle,
		done:     done,
		progress: o.progress,
		touched:  time.Now(),
	}
}

// Run 同步执行 fn，返回其结果
func (d *Dialog[R]) Run(ctx context.Context, fn Func[R]) (R, error) {
	token, runCtx, err := d.begin(ctx, fn)
	if err != nil {
		var zero R
		return zero, err
	}
	r, err := fn(runCtx)
	d.settle(token, r, err)
	return r, err
}

// Start 异步执行 fn，ctx 的生命周期应独立于触发它的 HTTP 请求
func (d *Dialog[R]) Start(ctx context.Context, fn Func[R]) error {
	token, runCtx, err := d.begin(ctx, fn)
	if err != nil {
		return err
	}
	go func() {
		r, err := fn(runCtx)
		d.settle(token, r, err)
	}()
	return nil
}

// Retry 从 Settled 重新执行上一次的操作
func (d *Dialog[R]) Retry(ctx context.Context) error {
	d.mu.Lock()
	fn := d.last
	phase := d.phase
	d.mu.Unlock()
	if phase != PhaseSettled || fn == nil {
		return ErrInvalidPhase
	}
	return d.Start(ctx, fn)
}

// Wait 等待在途操作结束
func (d *Dialog[R]) Wait(ctx context.Context) (Status[R], error) {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()
	select {
	case <-done:
		return d.Snapshot(), nil
	case <-ctx.Done():
		return d.Snapshot(), ctx.Err()
	}
}

// Close 回到 Idle；在途操作被取消，其结果会被丢弃
func (d *Dialog[R]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	var zero R
	d.phase = PhaseIdle
	d.result = zero
	d.err = nil
	d.touched = time.Now()
	if d.progress != nil {
		d.progress.Reset()
	}
}

// Snapshot 当前状态
func (d *Dialog[R]) Snapshot() Status[R] {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := Status[R]{Phase: d.phase, Result: d.result, Err: d.err}
	if d.progress != nil {
		s.Progress = d.progress.Value()
	} else if d.phase == PhaseSettled {
		s.Progress = 100
	}
	return s
}

// LastTouched 最近一次状态变化
func (d *Dialog[R]) LastTouched() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.touched
}

func (d *Dialog[R]) begin(ctx context.Context, fn Func[R]) (uint64, context.Context, error) {
	if !d.sem.TryAcquire(1) {
		return 0, nil, ErrBusy
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	runCtx, cancel := context.WithCancel(ctx)
	var zero R
	d.phase = PhaseInFlight
	d.result = zero
	d.err = nil
	d.cancel = cancel
	d.done = make(chan struct{})
	d.last = fn
	d.touched = time.Now()
	if d.progress != nil {
		d.progress.Start()
	}
	return d.seq, runCtx, nil
}

func (d *Dialog[R]) settle(token uint64, r R, err error) {
	d.mu.Lock()
	if token == d.seq {
		d.phase = PhaseSettled
		d.result = r
		d.err = err
		if d.progress != nil {
			d.progress.Finish()
		}
		if d.cancel != nil {
			d.cancel()
			d.cancel = nil
		}
		d.touched = time.Now()
	}
	close(d.done)
	d.mu.Unlock()
	d.sem.Release(1)
}
