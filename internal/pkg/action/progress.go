package action

import (
	"math/rand/v2"
	"sync"
	"time"
)

const (
	DefaultProgressTick = 500 * time.Millisecond
	DefaultProgressCap  = 85.0
	progressMaxStep     = 20.0
)

// Progress 纯展示用的进度：每个 tick 随机增加，封顶 ceiling，操作结束后置为 100
type Progress struct {
	tick    time.Duration
	ceiling float64
	step    func() float64

	mu    sync.Mutex
	value float64
	stop  chan struct{}
	exit  chan struct{}
}

func NewProgress(tick time.Duration, ceiling float64) *Progress {
	if tick <= 0 {
		tick = DefaultProgressTick
	}
	if ceiling <= 0 || ceiling >= 100 {
		ceiling = DefaultProgressCap
	}
	return &Progress{
		tick:    tick,
		ceiling: ceiling,
		step:    func() float64 { return rand.Float64() * progressMaxStep },
	}
}

// Start 从 0 开始计时
func (p *Progress) Start() {
	p.halt()
	p.mu.Lock()
	p.value = 0
	p.stop = make(chan struct{})
	p.exit = make(chan struct{})
	stop, exit := p.stop, p.exit
	p.mu.Unlock()

	go func() {
		defer close(exit)
		ticker := time.NewTicker(p.tick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				p.mu.Lock()
				p.value = min(p.value+p.step(), p.ceiling)
				p.mu.Unlock()
			}
		}
	}()
}

// Finish 停止计时并置为 100
func (p *Progress) Finish() {
	p.halt()
	p.mu.Lock()
	p.value = 100
	p.mu.Unlock()
}

// Reset 停止计时并归零
func (p *Progress) Reset() {
	p.halt()
	p.mu.Lock()
	p.value = 0
	p.mu.Unlock()
}

func (p *Progress) Value() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(p.value)
}

func (p *Progress) halt() {
	p.mu.Lock()
	stop, exit := p.stop, p.exit
	p.stop, p.exit = nil, nil
	p.mu.Unlock()
	if stop != nil {
		close(stop)
		<-exit
	}
}
