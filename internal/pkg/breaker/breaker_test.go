package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBusiness = errors.New("business error")

func isBusiness(err error) bool { return errors.Is(err, errBusiness) }

func testConfig() Config {
	return Config{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             time.Minute,
		ConsecutiveFailures: 3,
	}
}

func TestDo_Success(t *testing.T) {
	b := New("success-breaker", testConfig(), isBusiness)

	value, outcome, err := b.Do(
		func() (any, error) { return "ok", nil },
		func(cause error) (any, error) { t.Fatal("fallback must not run"); return nil, nil },
	)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Equal(t, "ok", value)
}

func TestDo_FallbackOnFailure(t *testing.T) {
	b := New("fallback-breaker", testConfig(), isBusiness)
	cause := errors.New("connection refused")

	value, outcome, err := b.Do(
		func() (any, error) { return nil, cause },
		func(err error) (any, error) {
			assert.Equal(t, cause, err)
			return "degraded", nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, OutcomeFallback, outcome)
	assert.Equal(t, "degraded", value)
}

func TestDo_FallbackMayEscalate(t *testing.T) {
	b := New("escalating-breaker", testConfig(), isBusiness)
	escalated := errors.New("refund must not be silently dropped")

	_, outcome, err := b.Do(
		func() (any, error) { return nil, errors.New("down") },
		func(cause error) (any, error) { return nil, escalated },
	)

	assert.Equal(t, OutcomeFallback, outcome)
	assert.Equal(t, escalated, err)
}

func TestDo_BusinessErrorBypassesFallback(t *testing.T) {
	b := New("bypass-breaker", testConfig(), isBusiness)

	for i := 0; i < 10; i++ {
		_, outcome, err := b.Do(
			func() (any, error) { return nil, errBusiness },
			func(cause error) (any, error) { t.Fatal("fallback must not run for business errors"); return nil, nil },
		)
		assert.Equal(t, OutcomeError, outcome)
		assert.Equal(t, errBusiness, err)
	}

	// 业务错误不计入熔断统计，熔断器保持关闭
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestDo_OpensAfterConsecutiveFailures(t *testing.T) {
	b := New("tripping-breaker", testConfig(), isBusiness)

	for i := 0; i < 3; i++ {
		_, _, _ = b.Do(
			func() (any, error) { return nil, errors.New("down") },
			func(cause error) (any, error) { return nil, nil },
		)
	}
	require.Equal(t, gobreaker.StateOpen, b.State())

	// 熔断开启后操作不再被执行，直接走兜底
	executed := false
	value, outcome, err := b.Do(
		func() (any, error) { executed = true; return "live", nil },
		func(cause error) (any, error) { return "degraded", nil },
	)

	require.NoError(t, err)
	assert.False(t, executed)
	assert.Equal(t, OutcomeFallback, outcome)
	assert.Equal(t, "degraded", value)
}

func TestNew_ZeroConfigFallsBackToDefaults(t *testing.T) {
	b := New("default-breaker", Config{}, nil)

	value, outcome, err := b.Do(
		func() (any, error) { return 1, nil },
		func(cause error) (any, error) { return nil, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Equal(t, 1, value)
}
