package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// fakeClock 手动推进的时钟
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(s Settings) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := New(s)
	cb.now = clock.now
	cb.toNewGeneration(clock.now())
	return cb, clock
}

func fail(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(func() error { return errBoom })
	}
}

func TestDefaults(t *testing.T) {
	cb := New(Settings{Name: "redis"})

	assert.Equal(t, "redis", cb.Name())
	assert.Equal(t, uint32(1), cb.maxRequests)
	assert.Equal(t, defaultTimeout, cb.timeout)
	assert.Equal(t, StateClosed, cb.State())
}

func TestClosedState_CountsResults(t *testing.T) {
	cb, _ := newTestBreaker(Settings{})

	for i := 0; i < 3; i++ {
		require.NoError(t, cb.Execute(func() error { return nil }))
	}
	assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)

	counts := cb.Counts()
	assert.Equal(t, uint32(4), counts.Requests)
	assert.Equal(t, uint32(3), counts.TotalSuccesses)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
	assert.Equal(t, StateClosed, cb.State())
}

func TestTripsAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(Settings{ReadyToTrip: ConsecutiveFailures(3)})

	fail(cb, 2)
	assert.Equal(t, StateClosed, cb.State())

	fail(cb, 1)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.True(t, IsRejected(err))
	assert.False(t, called)
}

func TestSuccessResetsConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(Settings{ReadyToTrip: ConsecutiveFailures(3)})

	fail(cb, 2)
	require.NoError(t, cb.Execute(func() error { return nil }))
	fail(cb, 2)

	assert.Equal(t, StateClosed, cb.State())
}

func TestHalfOpen_ProbeSucceeds(t *testing.T) {
	cb, clock := newTestBreaker(Settings{
		Timeout:     10 * time.Second,
		ReadyToTrip: ConsecutiveFailures(1),
	})

	fail(cb, 1)
	require.Equal(t, StateOpen, cb.State())

	clock.advance(11 * time.Second)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestHalfOpen_ProbeFails(t *testing.T) {
	cb, clock := newTestBreaker(Settings{
		Timeout:     10 * time.Second,
		ReadyToTrip: ConsecutiveFailures(1),
	})

	fail(cb, 1)
	clock.advance(11 * time.Second)

	fail(cb, 1)
	assert.Equal(t, StateOpen, cb.State())
}

func TestHalfOpen_LimitsProbes(t *testing.T) {
	cb, clock := newTestBreaker(Settings{
		MaxRequests: 1,
		Timeout:     time.Second,
		ReadyToTrip: ConsecutiveFailures(1),
	})

	fail(cb, 1)
	clock.advance(2 * time.Second)

	// 第一个探测请求执行期间,第二个请求被拒绝
	var inner error
	err := cb.Execute(func() error {
		inner = cb.Execute(func() error { return nil })
		return nil
	})
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrTooManyRequests)
	assert.Equal(t, StateClosed, cb.State())
}

func TestIsSuccessful(t *testing.T) {
	errMiss := errors.New("miss")
	cb, _ := newTestBreaker(Settings{
		ReadyToTrip:  ConsecutiveFailures(1),
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, errMiss) },
	})

	// 未命中不计为失败,但错误照常返回给调用方
	assert.ErrorIs(t, cb.Execute(func() error { return errMiss }), errMiss)
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.Counts().TotalSuccesses)
}

func TestIntervalClearsCounts(t *testing.T) {
	cb, clock := newTestBreaker(Settings{
		Interval:    time.Minute,
		ReadyToTrip: ConsecutiveFailures(3),
	})

	fail(cb, 2)
	clock.advance(2 * time.Minute)
	fail(cb, 2)

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(2), cb.Counts().ConsecutiveFailures)
}

func TestOnStateChange(t *testing.T) {
	type change struct{ from, to State }
	var changes []change

	cb, clock := newTestBreaker(Settings{
		Name:        "redis",
		Timeout:     time.Second,
		ReadyToTrip: ConsecutiveFailures(1),
		OnStateChange: func(name string, from, to State) {
			assert.Equal(t, "redis", name)
			changes = append(changes, change{from, to})
		},
	})

	fail(cb, 1)
	clock.advance(2 * time.Second)
	require.NoError(t, cb.Execute(func() error { return nil }))

	assert.Equal(t, []change{
		{StateClosed, StateOpen},
		{StateOpen, StateHalfOpen},
		{StateHalfOpen, StateClosed},
	}, changes)
}

func TestPanicCountsAsFailure(t *testing.T) {
	cb, _ := newTestBreaker(Settings{ReadyToTrip: ConsecutiveFailures(1)})

	assert.Panics(t, func() {
		_ = cb.Execute(func() error { panic("boom") })
	})
	assert.Equal(t, StateOpen, cb.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "CLOSED", StateClosed.String())
	assert.Equal(t, "OPEN", StateOpen.String())
	assert.Equal(t, "HALF_OPEN", StateHalfOpen.String())
	assert.Equal(t, "UNKNOWN", State(9).String())
}
