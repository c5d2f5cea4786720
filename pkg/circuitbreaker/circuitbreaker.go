package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	StateClosed   State = iota // 正常放行
	StateOpen                  // 熔断中，直接拒绝
	StateHalfOpen              // 冷却结束，放行少量探测请求
)

var stateNames = [...]string{"CLOSED", "OPEN", "HALF_OPEN"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// ErrOpenState 熔断打开或半开探测名额已满
var ErrOpenState = errors.New("circuit breaker is open")

// Config 熔断器配置，零值字段使用默认值
type Config struct {
	Threshold uint32        // 连续失败多少次后熔断，默认5
	Window    time.Duration // 关闭状态下统计窗口，到期清零；0表示不清零
	Cooldown  time.Duration // 熔断持续时间，默认60s
	Probes    uint32        // 半开状态允许的探测请求数，默认1

	// IsFailure 判断一次调用是否计为失败，默认err!=nil
	// 下游正常返回的业务拒绝不应计为失败
	IsFailure func(err error) bool

	OnStateChange func(name string, from, to State)
}

// Stats 当前统计窗口内的计数
type Stats struct {
	Requests            uint32
	Successes           uint32
	Failures            uint32
	ConsecutiveOK       uint32
	ConsecutiveFailures uint32
}

// CircuitBreaker 熔断器
// CLOSED --连续失败达到阈值--> OPEN --Cooldown--> HALF_OPEN --探测全部成功--> CLOSED
// HALF_OPEN期间任一探测失败立即回到OPEN
type CircuitBreaker struct {
	name string
	cfg  Config

	mu       sync.Mutex
	state    State
	epoch    uint64 // 状态或窗口切换时递增，旧请求的结果不再计入
	stats    Stats
	deadline time.Time
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(name string, cfg Config) *CircuitBreaker {
	if cfg.Threshold == 0 {
		cfg.Threshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 60 * time.Second
	}
	if cfg.Probes == 0 {
		cfg.Probes = 1
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool { return err != nil }
	}

	cb := &CircuitBreaker{name: name, cfg: cfg}
	cb.resetEpoch(time.Now())
	return cb
}

// Do 在熔断器保护下执行fn
// ctx已取消时不调用fn也不计数；熔断时返回ErrOpenState
func (cb *CircuitBreaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	epoch, err := cb.acquire()
	if err != nil {
		return err
	}

	err = fn(ctx)
	cb.release(epoch, !cb.cfg.IsFailure(err))
	return err
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.advance(time.Now())
	return cb.state
}

// Stats 当前统计
func (cb *CircuitBreaker) Stats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stats
}

func (cb *CircuitBreaker) acquire() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.advance(time.Now())
	switch {
	case cb.state == StateOpen:
		return 0, ErrOpenState
	case cb.state == StateHalfOpen && cb.stats.Requests >= cb.cfg.Probes:
		return 0, ErrOpenState
	}
	cb.stats.Requests++
	return cb.epoch, nil
}

func (cb *CircuitBreaker) release(epoch uint64, ok bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	cb.advance(now)
	if epoch != cb.epoch {
		return
	}

	if ok {
		cb.stats.Successes++
		cb.stats.ConsecutiveOK++
		cb.stats.ConsecutiveFailures = 0
		if cb.state == StateHalfOpen && cb.stats.ConsecutiveOK >= cb.cfg.Probes {
			cb.transition(StateClosed, now)
		}
		return
	}

	cb.stats.Failures++
	cb.stats.ConsecutiveFailures++
	cb.stats.ConsecutiveOK = 0
	if cb.state == StateHalfOpen || cb.stats.ConsecutiveFailures >= cb.cfg.Threshold {
		cb.transition(StateOpen, now)
	}
}

// advance 处理基于时间的切换：窗口到期清零、冷却结束进入半开
func (cb *CircuitBreaker) advance(now time.Time) {
	if cb.deadline.IsZero() || now.Before(cb.deadline) {
		return
	}
	switch cb.state {
	case StateClosed:
		cb.resetEpoch(now)
	case StateOpen:
		cb.transition(StateHalfOpen, now)
	}
}

func (cb *CircuitBreaker) transition(to State, now time.Time) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	cb.resetEpoch(now)

	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(cb.name, from, to)
	}
}

func (cb *CircuitBreaker) resetEpoch(now time.Time) {
	cb.epoch++
	cb.stats = Stats{}

	cb.deadline = time.Time{}
	switch cb.state {
	case StateClosed:
		if cb.cfg.Window > 0 {
			cb.deadline = now.Add(cb.cfg.Window)
		}
	case StateOpen:
		cb.deadline = now.Add(cb.cfg.Cooldown)
	}
}
