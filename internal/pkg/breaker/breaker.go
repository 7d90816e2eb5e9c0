package breaker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// Outcome 标记一次受保护调用的结果走向
type Outcome int

const (
	// OutcomeSuccess 协作方调用成功，返回原始结果
	OutcomeSuccess Outcome = iota
	// OutcomeFallback 协作方失败或熔断开启，返回兜底结果
	OutcomeFallback
	// OutcomeError 业务错误，绕过兜底原样上抛
	OutcomeError
)

var (
	stateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state per collaborator (0=closed, 1=half-open, 2=open).",
	}, []string{"collaborator"})

	fallbackCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circuit_breaker_fallbacks_total",
		Help: "Number of guarded calls answered by a fallback, per collaborator.",
	}, []string{"collaborator"})
)

// Operation 是被熔断器保护的协作方调用
type Operation func() (any, error)

// Fallback 在协作方失败或熔断开启时给出确定性的替代结果。
// 允许返回错误，用于那些不允许静默兜底的操作（如退款）。
type Fallback func(cause error) (any, error)

// Config 是单个熔断器的配置
type Config struct {
	MaxRequests         uint32        // half-open 状态下的探测请求数
	Interval            time.Duration // closed 状态下计数器的清零周期
	Timeout             time.Duration // open 状态持续多久后进入 half-open
	ConsecutiveFailures uint32        // 连续失败多少次后熔断
}

// DefaultConfig 提供保守的默认值
func DefaultConfig() Config {
	return Config{
		MaxRequests:         3,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// Breaker 按协作方维度持有一个熔断器，并把调用显式拆成
// 操作 + 兜底两个值传入，控制流一目了然。
type Breaker struct {
	name   string
	cb     *gobreaker.CircuitBreaker[any]
	bypass func(error) bool
}

// New 创建一个熔断器。bypass 标识不应计入熔断统计、
// 也不触发兜底的错误（典型的是 NotFound 这类业务错误）。
func New(name string, cfg Config, bypass func(error) bool) *Breaker {
	if cfg.ConsecutiveFailures == 0 {
		cfg = DefaultConfig()
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			stateGauge.WithLabelValues(name).Set(stateValue(to))
			log.Warn().
				Str("collaborator", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return bypass != nil && bypass(err)
		},
	}
	stateGauge.WithLabelValues(name).Set(stateValue(gobreaker.StateClosed))
	return &Breaker{
		name:   name,
		cb:     gobreaker.NewCircuitBreaker[any](settings),
		bypass: bypass,
	}
}

// Do 执行一次受保护的调用并返回带标记的结果。
// 熔断开启时 op 根本不会被执行，直接走兜底。
func (b *Breaker) Do(op Operation, fb Fallback) (any, Outcome, error) {
	value, err := b.cb.Execute(op)
	if err == nil {
		return value, OutcomeSuccess, nil
	}

	if b.bypass != nil && b.bypass(err) {
		return nil, OutcomeError, err
	}

	fallbackCounter.WithLabelValues(b.name).Inc()
	log.Error().
		Err(err).
		Str("collaborator", b.name).
		Msg("guarded call failed, invoking fallback")

	fbValue, fbErr := fb(err)
	if fbErr != nil {
		return nil, OutcomeFallback, fbErr
	}
	return fbValue, OutcomeFallback, nil
}

// State 返回底层熔断器的当前状态
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
